package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Initialize a draftkeep configuration file with default values.

By default, the configuration file is created at $XDG_CONFIG_HOME/draftkeep/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  draftkeep config init

  # Initialize with custom path
  draftkeep config init --config ./draftkeep.yaml

  # Force overwrite existing config
  draftkeep config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile

	var err error
	if configPath != "" {
		err = config.InitConfigToPath(configPath, initForce)
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(w, "\nNext steps:")
	_, _ = fmt.Fprintln(w, "  1. Edit the configuration file to pick a storage backend")
	_, _ = fmt.Fprintln(w, "  2. Check storage with: draftkeep health")
	_, _ = fmt.Fprintln(w, "  3. Start editing with: draftkeep edit notes.md")
	return nil
}
