package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/cli/output"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective draftkeep configuration, after defaults and
environment overrides are applied.

Table output falls back to YAML.

Examples:
  draftkeep config show
  draftkeep config show -o json`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}
