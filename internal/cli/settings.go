package cli

import (
	stderrors "errors"
	"io"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/config"
	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/metrics"
	"github.com/AndreyAkinshin/testrelay/internal/output"
)

// settings is everything a command needs once flags and the config file
// have been merged.
type settings struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	out      *output.Writer // user-facing messages on stdout
	color    bool

	sink   io.Writer // primary output: stdout or the --output file
	closer io.Closer
}

// loadSettings resolves the configuration for one command. Flags that
// were set explicitly win over the config file.
func loadSettings(c *cli.Context, e env) (*settings, error) {
	cfg, reported, err := resolveConfig(c, e)
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(c, cfg)
	warnings, err := config.Validate(cfg)
	if err != nil {
		return nil, configError("invalid settings", err)
	}

	s := &settings{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		color:    cfg.ColorEnabled(e.terminal),
		sink:     e.stdout,
	}
	s.metrics = metrics.New(s.registry)
	s.out = output.NewWithWriters(e.stdout, e.stderr, s.color)
	s.out.SetQuiet(c.Bool(QuietFlag.Name))
	for _, w := range warnings {
		if !slices.Contains(reported, w) {
			s.out.Warning("%s", w)
		}
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	s.log = zerolog.New(zerolog.ConsoleWriter{Out: e.stderr, NoColor: !s.color}).
		Level(level).
		With().Timestamp().Logger()

	return s, nil
}

// resolveConfig loads the config file, if any, and prints its warnings.
// The printed warnings are returned so they are not repeated.
func resolveConfig(c *cli.Context, e env) (*config.Config, []string, error) {
	path := c.String(ConfigFlag.Name)
	if path == "" {
		found, err := config.FindFrom(e.dir)
		if stderrors.Is(err, config.ErrNoConfig) {
			return config.Default(), nil, nil
		}
		if err != nil {
			return nil, nil, configError("locate config", err)
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	w := output.NewWithWriters(e.stdout, e.stderr, false)
	for _, warning := range warnings {
		w.Warning("%s: %s", path, warning)
	}
	if err != nil {
		return nil, nil, configError("load config "+path, err)
	}
	return cfg, warnings, nil
}

func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet(LogLevelFlag.Name) {
		cfg.LogLevel = c.String(LogLevelFlag.Name)
	}
	if c.IsSet(ColorFlag.Name) {
		cfg.Color = c.String(ColorFlag.Name)
	}
	if c.IsSet(OutputFlag.Name) {
		cfg.Output = c.String(OutputFlag.Name)
	}
	if c.IsSet(MetricsFileFlag.Name) {
		cfg.MetricsFile = c.String(MetricsFileFlag.Name)
	}
	if c.IsSet(FollowFlag.Name) {
		cfg.Follow = c.Bool(FollowFlag.Name)
	}
	if c.IsSet(ReporterFlag.Name) {
		cfg.Reporter = c.String(ReporterFlag.Name)
	}
	if c.IsSet(ValidateFlag.Name) {
		cfg.Schema.Enabled = c.Bool(ValidateFlag.Name)
	}
	if c.IsSet(FailFastFlag.Name) {
		cfg.Schema.FailFast = c.Bool(FailFastFlag.Name)
	}
}

// openOutput points the primary sink at cfg.Output.
func (s *settings) openOutput() error {
	if s.cfg.Output == "" || s.cfg.Output == "-" {
		return nil
	}
	f, err := os.Create(s.cfg.Output)
	if err != nil {
		return errors.IO("", err)
	}
	s.sink = f
	s.closer = f
	return nil
}

// lineWriter returns an output.Writer on the primary sink.
func (s *settings) lineWriter() *output.Writer {
	return output.NewWithWriters(s.sink, io.Discard, s.color)
}

// close releases the output file and writes the metrics file. The first
// error wins.
func (s *settings) close() error {
	var first error
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			first = errors.IO("", err)
		}
	}
	if s.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(s.cfg.MetricsFile, s.registry); err != nil && first == nil {
			first = errors.Wrap(err, "write metrics file")
		}
	}
	return first
}

func configError(message string, cause error) error {
	err := errors.Config(message)
	err.Cause = cause
	return err
}
