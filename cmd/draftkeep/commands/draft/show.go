package draft

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
)

var showContent bool

var showCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a draft",
	Long: `Show a draft's details, or only its content with --content.

Examples:
  draftkeep draft show 1709805600000
  draftkeep draft show "meeting notes" --content`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showContent, "content", "c", false, "Print only the draft content")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	d, err := sess.ResolveDraft(ctx, args[0])
	if err != nil {
		return err
	}

	if showContent {
		_, err := fmt.Fprint(os.Stdout, d.Content)
		return err
	}
	return cmdutil.PrintResource(os.Stdout, d, draftPairs(d))
}
