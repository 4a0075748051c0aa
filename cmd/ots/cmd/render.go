package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/export"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/render"
)

var (
	outputFormat string
	outputPath   string
)

var renderCmd = &cobra.Command{
	Use:   "render <circuit.yaml>",
	Short: "Render a circuit document to drawing primitives",
	Long: `Resolve every component of a circuit document against the loaded
descriptions and write the resulting primitives.

Components without a description are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, msgpack or yaml")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
}

// openOutput returns stdout or the -o file
func openOutput() (io.WriteCloser, error) {
	if outputPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("error creating output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runRender(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := circuit.LoadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error reading circuit: %w", err)
	}

	res := render.RenderDocument(doc, reg, cfg.LayoutOptions())
	for _, err := range res.Errors {
		logger.Warn("component not rendered", "err", err)
	}
	logger.Info("rendered document", "components", len(res.Components), "wires", len(res.Wires))

	out, err := openOutput()
	if err != nil {
		return err
	}
	if err := export.Encode(out, format, export.FromDocument(res)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
