package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_UnknownStorageType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = "localstorage"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown storage type")
	}
	if !strings.Contains(err.Error(), "storage.type") {
		t.Errorf("Expected error about storage.type, got: %v", err)
	}
}

func TestValidate_PostgresNeedsDSN(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = StoragePostgres
	cfg.Storage.DSN = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for postgres without dsn")
	}
	if !strings.Contains(err.Error(), "storage.dsn") {
		t.Errorf("Expected error about storage.dsn, got: %v", err)
	}
}

func TestValidate_FileBackendNeedsPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Type = StorageSQLite
	cfg.Storage.Path = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sqlite without path")
	}
}

func TestValidate_QuietPeriodPositive(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Autosave.QuietPeriod = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for zero quiet period")
	}
}

func TestValidate_TelemetryEnabledWithoutEndpoint(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for telemetry enabled without endpoint")
	}
	if !strings.Contains(err.Error(), "telemetry") {
		t.Errorf("Expected error about telemetry endpoint, got: %v", err)
	}
}

func TestValidate_TelemetrySampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate out of range")
	}
}

func TestValidate_InvalidStatusPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Status.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	for _, level := range []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"} {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		if err := Validate(cfg); err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}
