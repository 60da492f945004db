package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/workspace"
)

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save content immediately",
	Long: `Replace the saved content with the content of a file, or of stdin when
the file is omitted or "-". The write happens immediately, without waiting
for a quiet period.

Examples:
  # Save notes.md
  draftkeep save notes.md

  # Save from a pipe
  echo "hello" | draftkeep save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

var catCmd = &cobra.Command{
	Use:   "cat",
	Short: "Print the saved content",
	Long: `Print the saved content to stdout.

Examples:
  draftkeep cat > notes.md`,
	Args: cobra.NoArgs,
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func runSave(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
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
	defer ws.Tracker().Close()

	ws.Edit(content)
	return ws.Save(ctx)
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	ws := workspace.Open(ctx, workspace.Options{
		Store:          sess.Store,
		Drafts:         sess.Drafts,
		TrackerOptions: sess.AutosaveOptions(),
	})
	defer ws.Tracker().Close()

	_, err = fmt.Fprint(cmd.OutOrStdout(), ws.Content())
	return err
}
