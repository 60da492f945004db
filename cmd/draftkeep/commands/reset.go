package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/cli/prompt"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all stored data",
	Long: `Erase everything in storage: saved content, drafts and preferences.
This frees space when storage is full.

Examples:
  draftkeep reset
  draftkeep reset --force`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	confirmed, err := prompt.ConfirmWithForce("Erase all content, drafts and preferences?", resetForce)
	if err != nil {
		if prompt.IsAborted(err) {
			fmt.Println("\nAborted.")
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := sess.Store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to erase storage: %w", err)
	}

	printer, err := cmdutil.NewPrinter()
	if err != nil {
		return err
	}
	printer.Success("Storage erased")
	return nil
}
