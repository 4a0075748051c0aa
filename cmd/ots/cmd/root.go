package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/config"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/loader"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

const version = "0.1.0"

var (
	// Global flags
	verbose    bool
	configPath string
	components []string
	gridSize   float64

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ots",
	Short: "OpenTraceSchem - schematic component description tools",
	Long: `OpenTraceSchem (ots) resolves XML component descriptions against placed
circuit components:
  - load and check component descriptions
  - render circuit documents to drawing primitives
  - find connections, junctions and nets
  - serve rendering over HTTP

Examples:
  ots describe components/resistor.xml          # Show a description and its issues
  ots render circuit.yaml -c components         # Render primitives as JSON
  ots connections circuit.yaml -c components    # List junctions and nets
  ots serve -c components --addr :8080          # Run the render service`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringSliceVarP(&components, "components", "c", nil, "component description directories or URLs")
	rootCmd.PersistentFlags().Float64Var(&gridSize, "grid", 0, "grid size (overrides the configuration)")
}

// setup loads the configuration, applies flag overrides and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if len(components) > 0 {
		cfg.Components = components
	}
	if cmd.Flags().Changed("grid") {
		cfg.GridSize = gridSize
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadRegistry loads every configured description directory and freezes
// the result
func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg := registry.New()
	l := loader.New(logger)
	for _, dir := range cfg.Components {
		if _, err := l.LoadDir(ctx, dir, reg); err != nil {
			logger.Warn("some descriptions were not loaded", "dir", dir, "err", err)
		}
	}
	reg.Freeze()
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no component descriptions loaded (use --components or the components config key)")
	}
	return reg, nil
}
