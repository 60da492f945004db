package draft

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/cli/prompt"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id|name> [new-name]",
	Short: "Rename a draft",
	Long: `Rename a draft. If the new name is omitted you are prompted for it.

Examples:
  draftkeep draft rename 1709805600000 "meeting notes"
  draftkeep draft rename "Draft 3/7/2024"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
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

	var name string
	if len(args) == 2 {
		name = args[1]
	} else {
		name, err = prompt.Input("New name", d.Name, prompt.NotBlank)
		if err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("\nAborted.")
				return nil
			}
			return err
		}
	}
	if err := prompt.NotBlank(name); err != nil {
		return fmt.Errorf("invalid draft name: %w", err)
	}
	name = strings.TrimSpace(name)

	if err := sess.Drafts.Rename(ctx, d.ID, name); err != nil {
		return fmt.Errorf("failed to rename draft: %w", err)
	}

	d.Name = name
	return cmdutil.PrintResourceWithSuccess(os.Stdout, d, fmt.Sprintf("Draft renamed to '%s'", name))
}
