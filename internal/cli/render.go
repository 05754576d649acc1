package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/console"
	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/stream"
)

func renderCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render an NDJSON event stream as a console trace",
		ArgsUsage: "[file|-]",
		Flags:     []cli.Flag{FollowFlag},
		Action:    withSettings(e, func(c *cli.Context, s *settings) error { return cmdRender(c, e, s) }),
	}
}

func cmdRender(c *cli.Context, e env, s *settings) error {
	if err := s.openOutput(); err != nil {
		return err
	}

	runner := event.NewRunner()
	console.New(console.Options{
		Out:     s.lineWriter(),
		Color:   s.color,
		Logger:  &s.log,
		Metrics: s.metrics,
	}).Attach(runner)

	reader := stream.NewReader(stream.ReaderOptions{Logger: &s.log, Metrics: s.metrics})

	if s.cfg.Follow {
		path := c.Args().First()
		if path == "" || path == "-" {
			return errors.Config("--follow needs a file argument")
		}
		return reader.Follow(c.Context, path, runner)
	}

	in, done, err := openInput(c, e)
	if err != nil {
		return err
	}
	defer done()
	if err := reader.Replay(in, runner); err != nil {
		return err
	}
	if n := reader.Skipped(); n > 0 {
		s.out.Warning("skipped %d of %d lines that were not testrelay events", n, reader.Lines())
	}
	return nil
}
