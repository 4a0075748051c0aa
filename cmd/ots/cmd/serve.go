package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP render service",
	Long: `Serve the loaded component descriptions over HTTP:

  GET  /api/health        service status
  GET  /api/components    loaded descriptions
  POST /api/render        render a YAML or JSON circuit document
  POST /api/connections   connections and nets of a circuit document

Append ?format=msgpack or ?format=yaml to change the response encoding.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	e := api.New(&api.Dependencies{
		Registry: reg,
		Options:  cfg.LayoutOptions(),
		Version:  version,
		Logger:   logger,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr, "components", reg.Len())
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
