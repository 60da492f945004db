package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# draftkeep Configuration File
#
# Every key can be overridden with an environment variable:
#   DRAFTKEEP_<SECTION>_<KEY>, e.g. DRAFTKEEP_STORAGE_TYPE=sqlite
#
# storage.type: memory | badger | sqlite | postgres | none
# storage.quota accepts human-readable sizes ("5MiB", "512KiB").
# autosave.quiet_period accepts Go durations ("2s", "500ms").

`

// InitConfig writes a default configuration file to the default location and
// returns its path. An existing file is only replaced with force.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
