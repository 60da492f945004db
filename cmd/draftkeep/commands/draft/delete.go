package draft

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a draft",
	Long: `Delete a draft. If it is the current draft, the current pointer is
cleared.

You will be prompted for confirmation unless --force is specified.

Examples:
  draftkeep draft delete 1709805600000
  draftkeep draft delete "old notes" --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	return cmdutil.RunDeleteWithConfirmation("Draft", d.Name, deleteForce, func() error {
		if err := sess.Drafts.Delete(ctx, d.ID); err != nil {
			return fmt.Errorf("failed to delete draft: %w", err)
		}
		return nil
	})
}
