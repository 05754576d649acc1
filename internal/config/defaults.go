package config

// Default configuration values.
const (
	DefaultReporter = ReporterJSON
	DefaultColor    = ColorAuto
	DefaultOutput   = "-"
	DefaultLogLevel = "warn"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Reporter == "" {
		cfg.Reporter = DefaultReporter
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Schema == nil {
		cfg.Schema = &SchemaConfig{}
	}
}
