package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/draftkeep/internal/bytesize"
	"github.com/marmos91/draftkeep/pkg/drafts"
)

const (
	defaultQuietPeriod = 2 * time.Second
	defaultMaxRetries  = 1
	defaultQuota       = 5 * bytesize.MiB
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
// The retry count is the exception: its default is applied while loading,
// since zero retries is a valid choice.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyStorageDefaults(&cfg.Storage)
	applyAutosaveDefaults(&cfg.Autosave)
	applyDraftsDefaults(&cfg.Drafts)
	cfg.Status.ApplyDefaults()
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// The CLI prints results on stdout, so logs go to stderr.
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_space", "inuse_space", "goroutines"}
	}
}

// applyStorageDefaults picks badger under the data directory.
func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.Type == "" {
		cfg.Type = StorageBadger
	}
	cfg.Type = strings.ToLower(cfg.Type)

	if cfg.Path == "" {
		switch cfg.Type {
		case StorageBadger:
			cfg.Path = filepath.Join(getDataDir(), "badger")
		case StorageSQLite:
			cfg.Path = filepath.Join(getDataDir(), "draftkeep.db")
		}
	}
	if cfg.Quota == 0 {
		cfg.Quota = defaultQuota
	}
}

func applyAutosaveDefaults(cfg *AutosaveConfig) {
	if cfg.QuietPeriod == 0 {
		cfg.QuietPeriod = defaultQuietPeriod
	}
}

func applyDraftsDefaults(cfg *DraftsConfig) {
	if cfg.NameLayout == "" {
		cfg.NameLayout = drafts.DefaultNameLayout
	}
}

// GetDefaultConfig returns a Config with all default values applied. Used
// to generate sample configuration files and in tests.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Insecure: true},
		Autosave:  AutosaveConfig{MaxRetries: defaultMaxRetries},
	}

	ApplyDefaults(cfg)
	return cfg
}
