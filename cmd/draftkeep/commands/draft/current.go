package draft

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current draft",
	Long: `Show the draft that was last created or opened. A pointer to a deleted
draft is reported as no current draft.`,
	Args: cobra.NoArgs,
	RunE: runCurrent,
}

func runCurrent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	d, ok, err := sess.Drafts.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current draft: %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(os.Stdout, "No current draft.")
		return nil
	}
	return cmdutil.PrintResource(os.Stdout, d, draftPairs(d))
}
