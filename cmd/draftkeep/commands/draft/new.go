package draft

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/workspace"
)

var (
	newName string
	newFrom string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Save content as a new draft",
	Long: `Save content as a new draft and make it the current draft.

Without --from the saved content is used. Blank content is refused. The
default name is "Draft" followed by today's date.

Examples:
  # Snapshot the saved content
  draftkeep draft new --name "before rewrite"

  # Save a file as a draft
  draftkeep draft new --from notes.md

  # Save stdin as a draft
  cat notes.md | draftkeep draft new --from -`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Draft name")
	newCmd.Flags().StringVar(&newFrom, "from", "", `Read content from a file ("-" for stdin)`)
}

func readFrom(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func runNew(cmd *cobra.Command, args []string) error {
	var content string
	if newFrom != "" {
		var err error
		if content, err = readFrom(newFrom); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}

	ws := workspace.Open(ctx, workspace.Options{
		Store:          sess.Store,
		Drafts:         sess.Drafts,
		Notifier:       printer,
		TrackerOptions: sess.AutosaveOptions(),
	})
	// Closed without a flush so --from never replaces the saved content.
	defer ws.Tracker().Close()

	if newFrom != "" {
		ws.Edit(content)
	}

	d, err := ws.SaveAsDraft(ctx, newName)
	if errors.Is(err, workspace.ErrEmptyDraft) {
		return err
	}
	if d.ID == "" {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	if cmdutil.Flags.Verbose {
		printer.Printf("Draft id: %s\n", d.ID)
	}
	return err
}
