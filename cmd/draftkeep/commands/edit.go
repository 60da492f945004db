package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/cli/output"
	"github.com/marmos91/draftkeep/internal/cli/prompt"
	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/api"
	"github.com/marmos91/draftkeep/pkg/autosave"
	"github.com/marmos91/draftkeep/pkg/workspace"
)

var (
	editStatusPort int
	editSaveOnExit bool
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Track a file and autosave its content",
	Long: `Track a working file and autosave its content to storage.

Open the file in any editor. Every time it is written, draftkeep picks up
the new content and saves it once editing has paused for the configured
quiet period. If the file does not exist it is created with the last saved
content.

Press Ctrl+C to stop. With unsaved changes you are asked whether to leave
anyway; leaving discards them unless --save-on-exit is set.

Examples:
  # Track notes.md
  draftkeep edit notes.md

  # Flush pending changes instead of asking on exit
  draftkeep edit notes.md --save-on-exit

  # Expose the status API while editing
  draftkeep edit notes.md --status-port 8080`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().IntVar(&editStatusPort, "status-port", 0, "Serve the status API on this port (0 uses the config)")
	editCmd.Flags().BoolVar(&editSaveOnExit, "save-on-exit", false, "Save pending changes on exit without asking")
}

func runEdit(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(context.Background()) }()

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}

	trackerOpts := append(sess.AutosaveOptions(), autosave.WithOnStateChange(func(s autosave.State) {
		logger.Debug("Autosave state changed", logger.KeyState, s.String())
	}))
	ws := workspace.Open(ctx, workspace.Options{
		Store:          sess.Store,
		Drafts:         sess.Drafts,
		Notifier:       printer,
		TrackerOptions: trackerOpts,
	})

	if n, ok := ws.Status(ctx); ok {
		printer.Notify(ctx, n)
	}

	if err := syncWorkingFile(ws, path, printer); err != nil {
		ws.Tracker().Close()
		return err
	}

	statusErr := startStatusServer(ctx, sess, ws, editStatusPort)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		ws.Tracker().Close()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		ws.Tracker().Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	printer.Printf("Tracking %s (Ctrl+C to stop)\n", path)

	for {
		select {
		case <-ctx.Done():
			return finishEdit(ws)

		case err := <-statusErr:
			ws.Tracker().Close()
			return err

		case event, ok := <-watcher.Events:
			if !ok {
				return finishEdit(ws)
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Debug("Working file not readable", logger.KeyPath, path, logger.Err(err))
				continue
			}
			ws.Edit(string(data))

		case err, ok := <-watcher.Errors:
			if !ok {
				return finishEdit(ws)
			}
			logger.Warn("File watcher error", logger.Err(err))

		case <-sigChan:
			if editSaveOnExit {
				return finishEdit(ws)
			}
			leave, err := ws.Tracker().Guard().ConfirmExit(ctx, prompt.ExitConfirmer{})
			if err != nil {
				logger.Warn("Exit confirmation failed", logger.Err(err))
			}
			if !leave {
				printer.Println("Continuing.")
				continue
			}
			ws.Tracker().Close()
			return nil
		}
	}
}

// syncWorkingFile creates path from the saved content, or feeds the file's
// current content into the workspace when it already exists.
func syncWorkingFile(ws *workspace.Workspace, path string, printer *output.Printer) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(path, []byte(ws.Content()), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		printer.Printf("Created %s from saved content\n", path)
		return nil
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if string(data) != ws.Content() {
		ws.Edit(string(data))
	}
	return nil
}

// finishEdit saves pending changes and stops the tracker.
func finishEdit(ws *workspace.Workspace) error {
	if err := ws.Close(context.Background()); err != nil {
		return fmt.Errorf("failed to save pending changes: %w", err)
	}
	return nil
}

// startStatusServer starts the status API when port is set or the
// configuration enables it. The returned channel yields a serve failure.
func startStatusServer(ctx context.Context, sess *cmdutil.Session, ws *workspace.Workspace, port int) <-chan error {
	errc := make(chan error, 1)
	cfg := sess.Config.Status
	if port > 0 {
		cfg.Enabled = true
		cfg.Port = port
	}
	if !cfg.Enabled {
		return errc
	}

	server := api.NewServer(cfg, api.Deps{
		Store:   sess.Store,
		Tracker: ws.Tracker(),
		Drafts:  ws.Drafts(),
	})
	go func() {
		if err := server.Start(ctx); err != nil {
			errc <- err
		}
	}()
	return errc
}
