package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// settings that are valid but have no effect.
func Validate(cfg *Config) (warnings []string, err error) {
	switch cfg.Reporter {
	case ReporterConsole, ReporterJSON:
	default:
		return nil, &ValidationError{Field: "reporter", Message: `must be "console" or "json"`}
	}

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, &ValidationError{Field: "color", Message: `must be "auto", "always" or "never"`}
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil || cfg.LogLevel == "" {
		return nil, &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)}
	}

	if cfg.Output == "" {
		return nil, &ValidationError{Field: "output", Message: "is required"}
	}

	if cfg.Reporter == ReporterJSON && cfg.Color == ColorAlways {
		warnings = append(warnings, `color "always" has no effect with the json reporter`)
	}
	if cfg.Schema != nil && cfg.Schema.FailFast && !cfg.Schema.Enabled {
		warnings = append(warnings, "schema.fail_fast has no effect unless schema.enabled is set")
	}

	return warnings, nil
}
