package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags and cross-field rules. It does
// not normalize anything.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation (value %v)",
					fieldPath(fe.Namespace()), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if cfg.Storage.Type == StorageBadger || cfg.Storage.Type == StorageSQLite {
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path: required for %s storage", cfg.Storage.Type)
		}
	}
	return nil
}

// fieldPath turns "Config.Storage.DSN" into "storage.dsn".
func fieldPath(namespace string) string {
	namespace = strings.TrimPrefix(namespace, "Config.")
	return strings.ToLower(namespace)
}
