package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the draftkeep configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  draftkeep config validate
  draftkeep config validate --config ./draftkeep.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	displayPath := cmdutil.Flags.ConfigFile
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.Storage.Type == config.StorageMemory {
		warnings = append(warnings, "Memory storage does not persist between runs")
	}
	if cfg.Storage.Type == config.StorageNone {
		warnings = append(warnings, "Storage is disabled - nothing will be saved")
	}
	if cfg.Metrics.Enabled && !cfg.Status.Enabled {
		warnings = append(warnings, "Metrics are enabled but only served by 'draftkeep serve' or 'edit --status-port'")
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(w, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	_, _ = fmt.Fprintf(w, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(w, "  Storage type:    %s\n", cfg.Storage.Type)
	_, _ = fmt.Fprintf(w, "  Storage quota:   %s\n", cfg.Storage.Quota)
	_, _ = fmt.Fprintf(w, "  Quiet period:    %s\n", cfg.Autosave.QuietPeriod)
	_, _ = fmt.Fprintf(w, "  Log level:       %s\n", cfg.Logging.Level)
	return nil
}
