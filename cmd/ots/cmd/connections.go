package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/connection"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/export"
)

var (
	netlistPath string
	connFormat  string
)

var connectionsCmd = &cobra.Command{
	Use:   "connections <circuit.yaml>",
	Short: "Show connections, junctions and nets of a circuit document",
	Long: `Find every location where connection points coincide, decide which
need a junction marker and group the joined connections into nets.

Without --format a readable summary is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runConnections,
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
	connectionsCmd.Flags().StringVarP(&connFormat, "format", "f", "", "encode the result as json, msgpack or yaml")
	connectionsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for --format (default stdout)")
	connectionsCmd.Flags().StringVar(&netlistPath, "netlist", "", "also write an s-expression netlist to this file")
}

func runConnections(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := circuit.LoadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error reading circuit: %w", err)
	}

	res := connection.Visualise(doc, reg, cfg.LayoutOptions())
	for _, err := range res.Errors {
		logger.Warn("component skipped", "err", err)
	}

	if netlistPath != "" {
		if err := writeNetlist(res.Netlist); err != nil {
			return err
		}
		logger.Info("wrote netlist", "path", netlistPath, "nets", res.Netlist.NetCount())
	}

	if connFormat != "" {
		format, err := export.ParseFormat(connFormat)
		if err != nil {
			return err
		}
		out, err := openOutput()
		if err != nil {
			return err
		}
		if err := export.Encode(out, format, export.FromConnections(res)); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}

	showConnections(res)
	return nil
}

func writeNetlist(nl *connection.Netlist) error {
	f, err := os.Create(netlistPath)
	if err != nil {
		return fmt.Errorf("error creating netlist: %w", err)
	}
	if err := export.WriteNetlist(f, nl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func showConnections(res *connection.Result) {
	fmt.Printf("Connection points: %d\n", len(res.Connections))
	junctions := res.Junctions()
	fmt.Printf("Junctions: %d\n", len(junctions))
	for _, j := range junctions {
		refs := make([]string, len(j.Members))
		for i, m := range j.Members {
			refs[i] = m.Ref.String()
		}
		fmt.Printf("  (%g, %g): %s\n", j.Location.X, j.Location.Y, strings.Join(refs, ", "))
	}
	fmt.Println()

	fmt.Printf("Nets: %d\n", len(res.Netlist.Nets))
	for _, n := range res.Netlist.Nets {
		refs := make([]string, len(n.Refs))
		for i, r := range n.Refs {
			refs[i] = r.String()
		}
		fmt.Printf("  Net-%d: %s\n", n.ID+1, strings.Join(refs, ", "))
	}
}
