package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long: `Show or change the stored preferences.

Subcommands:
  set theme <light|dark|minimal>
  set mode <raw|structured>

Examples:
  draftkeep prefs
  draftkeep prefs set theme dark`,
	Args: cobra.NoArgs,
	RunE: runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:       "set <theme|mode> <value>",
	Short:     "Change a preference",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"theme", "mode"},
	RunE:      runPrefsSet,
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	v := prefs.New(sess.Store).Values(ctx)
	return cmdutil.PrintResource(os.Stdout, v, [][2]string{
		{"Theme", string(v.Theme)},
		{"Mode", string(v.Mode)},
	})
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	p := prefs.New(sess.Store)
	switch args[0] {
	case "theme":
		theme, err := prefs.ParseTheme(args[1])
		if err != nil {
			return err
		}
		if err := p.SetTheme(ctx, theme); err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
	case "mode":
		mode, err := prefs.ParseMode(args[1])
		if err != nil {
			return err
		}
		if err := p.SetMode(ctx, mode); err != nil {
			return fmt.Errorf("failed to save mode: %w", err)
		}
	default:
		return fmt.Errorf("unknown preference %q (valid: theme, mode)", args[0])
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, p.Values(ctx),
		fmt.Sprintf("%s set to %s", args[0], args[1]))
}
