package draft

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
)

var pinCmd = &cobra.Command{
	Use:   "pin <id|name>",
	Short: "Pin a draft",
	Long:  `Pin a draft so it is listed before unpinned drafts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetPinned(cmd, args[0], true)
	},
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <id|name>",
	Short: "Unpin a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetPinned(cmd, args[0], false)
	},
}

func runSetPinned(cmd *cobra.Command, ref string, pinned bool) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	d, err := sess.ResolveDraft(ctx, ref)
	if err != nil {
		return err
	}
	if err := sess.Drafts.SetPinned(ctx, d.ID, pinned); err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}

	d.Pinned = pinned
	verb := "pinned"
	if !pinned {
		verb = "unpinned"
	}
	return cmdutil.PrintResourceWithSuccess(os.Stdout, d, fmt.Sprintf("Draft '%s' %s", d.Name, verb))
}
