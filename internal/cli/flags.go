package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/config"
)

// EnvVarPrefix prefixes the environment variable of every flag.
const EnvVarPrefix = "TESTRELAY"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to a config file (default: nearest .testrelay.{yaml,yml,toml,json})",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   config.DefaultLogLevel,
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Diagnostic log level: trace, debug, info, warn, error, disabled",
	}
	ColorFlag = &cli.StringFlag{
		Name:    "color",
		Value:   config.DefaultColor,
		EnvVars: prefixEnvVar("COLOR"),
		Usage:   "Colorize output: auto, always, never",
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   config.DefaultOutput,
		EnvVars: prefixEnvVar("OUTPUT"),
		Usage:   "Where render and project write their output ('-' for stdout)",
	}
	MetricsFileFlag = &cli.StringFlag{
		Name:    "metrics-file",
		EnvVars: prefixEnvVar("METRICS_FILE"),
		Usage:   "Write Prometheus text-format metrics to this file on exit",
	}
	QuietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		EnvVars: prefixEnvVar("QUIET"),
		Usage:   "Suppress informational messages",
	}

	FollowFlag = &cli.BoolFlag{
		Name:    "follow",
		Aliases: []string{"f"},
		EnvVars: prefixEnvVar("FOLLOW"),
		Usage:   "Keep reading as the input file grows, until interrupted",
	}
	ReporterFlag = &cli.StringFlag{
		Name:    "reporter",
		Aliases: []string{"r"},
		Value:   config.DefaultReporter,
		EnvVars: prefixEnvVar("REPORTER"),
		Usage:   "Sink for projected events: json (NDJSON) or console",
	}
	ValidateFlag = &cli.BoolFlag{
		Name:    "validate",
		EnvVars: prefixEnvVar("VALIDATE"),
		Usage:   "Check every projected event against the embedded schema",
	}
	FailFastFlag = &cli.BoolFlag{
		Name:    "fail-fast",
		EnvVars: prefixEnvVar("FAIL_FAST"),
		Usage:   "Stop at the first projected event that fails validation",
	}
)

// GlobalFlags are accepted before any command.
var GlobalFlags = []cli.Flag{
	ConfigFlag,
	LogLevelFlag,
	ColorFlag,
	OutputFlag,
	MetricsFileFlag,
	QuietFlag,
}
