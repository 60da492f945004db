package draft

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/drafts"
)

var listPinned bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts",
	Long: `List drafts, pinned first, most recently updated first within each group.

Examples:
  # List drafts as table
  draftkeep draft list

  # Only pinned drafts, as JSON
  draftkeep draft list --pinned -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listPinned, "pinned", false, "Only show pinned drafts")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	var list []drafts.Draft
	if listPinned {
		list, err = sess.Drafts.Pinned(ctx)
	} else {
		list, err = sess.Drafts.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list drafts: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, list, len(list) == 0, "No drafts found.", DraftList(list))
}
