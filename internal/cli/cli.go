// Package cli provides the testrelay command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/output"
)

// Version is set at build time.
var Version = "dev"

// env is the process surface a command runs against.
type env struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	dir      string // where config discovery starts
	terminal bool   // stdout is an interactive terminal
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, _ := os.Getwd()
	return run(ctx, args, env{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		dir:      dir,
		terminal: isTerminal() && os.Getenv("NO_COLOR") == "",
	})
}

func run(ctx context.Context, args []string, e env) int {
	app := newApp(e)
	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	if err == nil {
		return errors.ExitSuccess
	}
	output.NewWithWriters(e.stdout, e.stderr, false).ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}

func newApp(e env) *cli.App {
	app := &cli.App{
		Name:                 "testrelay",
		Usage:                "Relay test-runner events to JSON consumers and the console",
		Version:              Version,
		Reader:               e.stdin,
		Writer:               e.stdout,
		ErrWriter:            e.stderr,
		Flags:                GlobalFlags,
		EnableBashCompletion: true,
		OnUsageError:         usageError,
		// Exit codes are computed by run from the returned error.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			renderCommand(e),
			projectCommand(e),
			validateCommand(e),
			summaryCommand(e),
		},
	}
	for _, cmd := range app.Commands {
		cmd.OnUsageError = usageError
	}
	return app
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return errors.Config(err.Error())
}

// withSettings loads settings, runs fn and releases them.
func withSettings(e env, fn func(c *cli.Context, s *settings) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := loadSettings(c, e)
		if err != nil {
			return err
		}
		err = fn(c, s)
		if cerr := s.close(); err == nil {
			err = cerr
		}
		return err
	}
}

// openInput returns the command's input: the named file, or stdin for
// "-" or no argument.
func openInput(c *cli.Context, e env) (io.Reader, func(), error) {
	path := c.Args().First()
	if path == "" || path == "-" {
		return e.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}
	return f, func() { _ = f.Close() }, nil
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
