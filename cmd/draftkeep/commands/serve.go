package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/api"
	"github.com/marmos91/draftkeep/pkg/workspace"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only status API",
	Long: `Serve storage health, autosave state, drafts and (when enabled) metrics
over HTTP until interrupted.

Examples:
  # Serve on the configured port
  draftkeep serve

  # Serve on port 9090
  draftkeep serve --port 9090

  # With metrics
  DRAFTKEEP_METRICS_ENABLED=true draftkeep serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default: status.port from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(context.Background()) }()

	ws := workspace.Open(ctx, workspace.Options{
		Store:          sess.Store,
		Drafts:         sess.Drafts,
		TrackerOptions: sess.AutosaveOptions(),
	})
	defer ws.Tracker().Close()

	cfg := sess.Config.Status
	if servePort > 0 {
		cfg.Port = servePort
	}

	server := api.NewServer(cfg, api.Deps{
		Store:   sess.Store,
		Tracker: ws.Tracker(),
		Drafts:  ws.Drafts(),
	})

	logger.InfoCtx(ctx, "Starting status server", "port", cfg.Port)
	return server.Start(ctx)
}
