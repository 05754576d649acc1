// Package config provides configuration loading and validation for
// .testrelay.{yaml,yml,toml,json} files.
package config

// Reporter names.
const (
	ReporterConsole = "console"
	ReporterJSON    = "json"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents a complete testrelay configuration file. The same
// keys are used in every supported format.
type Config struct {
	Reporter    string        `json:"reporter,omitempty" yaml:"reporter,omitempty" toml:"reporter,omitempty"`
	Color       string        `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Output      string        `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"` // "-" is stdout
	LogLevel    string        `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	Follow      bool          `json:"follow,omitempty" yaml:"follow,omitempty" toml:"follow,omitempty"`
	MetricsFile string        `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" toml:"metrics_file,omitempty"`
	Schema      *SchemaConfig `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
}

// SchemaConfig controls validation of projected events before they are
// written.
type SchemaConfig struct {
	Enabled  bool `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	FailFast bool `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty" toml:"fail_fast,omitempty"`
}

// ColorEnabled resolves the color mode. terminal reports whether the
// output is an interactive terminal.
func (c *Config) ColorEnabled(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
