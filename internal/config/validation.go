package config

import (
	"strings"

	"github.com/conneroisu/deckgen/internal/errors"
)

// validateConfig rejects configurations the rest of the tool cannot act on.
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Template.Archive) == "" {
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			"template.archive must not be empty",
		)
	}

	if strings.TrimSpace(config.Output.Dir) == "" {
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			"output.dir must not be empty",
		)
	}

	if config.Watch.DebounceMS < 0 {
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			"watch.debounce_ms must not be negative",
		)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			"log.level must be one of debug, info, warn, error: "+config.Log.Level,
		)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			"log.format must be text or json: "+config.Log.Format,
		)
	}

	return nil
}
