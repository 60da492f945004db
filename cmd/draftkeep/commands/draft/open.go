package draft

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/cli/prompt"
	"github.com/marmos91/draftkeep/pkg/drafts"
	"github.com/marmos91/draftkeep/pkg/workspace"
)

var openTo string

var openCmd = &cobra.Command{
	Use:   "open [id|name]",
	Short: "Make a draft the current content",
	Long: `Replace the saved content with a draft's content and make it the
current draft. Without an argument you pick the draft from a list.

Examples:
  # Pick interactively
  draftkeep draft open

  # Open by name and write it to a working file
  draftkeep draft open "meeting notes" --to notes.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().StringVar(&openTo, "to", "", "Also write the content to this file")
}

func pickDraft(list []drafts.Draft) (string, error) {
	options := make([]prompt.SelectOption, 0, len(list))
	for _, d := range list {
		label := d.Name
		if d.Pinned {
			label = "* " + label
		}
		options = append(options, prompt.SelectOption{
			Label:       label,
			Value:       d.ID,
			Description: d.UpdatedAt.Local().Format("Jan 2 15:04"),
		})
	}
	return prompt.Select("Open draft", options)
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	var id string
	if len(args) == 1 {
		d, err := sess.ResolveDraft(ctx, args[0])
		if err != nil {
			return err
		}
		id = d.ID
	} else {
		list, err := sess.Drafts.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list drafts: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No drafts found.")
			return nil
		}
		if id, err = pickDraft(list); err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("\nAborted.")
				return nil
			}
			return err
		}
	}

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

	ok, err := ws.LoadDraft(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to open draft: %w", err)
	}
	if !ok {
		return notFound(id)
	}
	if err := ws.Save(ctx); err != nil {
		return err
	}

	if openTo != "" {
		if err := os.WriteFile(openTo, []byte(ws.Content()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", openTo, err)
		}
	}
	return nil
}
