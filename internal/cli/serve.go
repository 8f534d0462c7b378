package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truthlens/internal/server"
)

var (
	serveAddr    string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve exposes the checker as a JSON API for the browser extension and
other clients. Verdicts are persisted and trends updated unless --no-store
is given or store.path is empty.

Endpoints:
  POST /api/fact-check      {"claim": "..."} or {"content": "..."}
  GET  /api/fact-check/{id}
  POST /api/extract         {"text": "..."}
  POST /api/report          {"content", "url", "email", "category"}
  GET  /api/trends | /api/stats | /api/search?q= | /api/claims
  GET  /health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		e, err := buildEnv(ctx, cfg, !serveNoStore)
		if err != nil {
			return err
		}
		defer e.Close()

		return server.New(e.Pipeline, e.Store, cfg.Server, nil).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not persist verdicts")
	rootCmd.AddCommand(serveCmd)
}
