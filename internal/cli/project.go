package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/config"
	"github.com/AndreyAkinshin/testrelay/internal/console"
	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/projector"
	"github.com/AndreyAkinshin/testrelay/internal/schema"
	"github.com/AndreyAkinshin/testrelay/internal/stream"
)

func projectCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "project",
		Usage:     "Reduce a raw runner event stream to its serializable projection",
		ArgsUsage: "[file|-]",
		Flags:     []cli.Flag{ReporterFlag, ValidateFlag, FailFastFlag},
		Action:    withSettings(e, func(c *cli.Context, s *settings) error { return cmdProject(c, e, s) }),
	}
}

func cmdProject(c *cli.Context, e env, s *settings) error {
	if err := s.openOutput(); err != nil {
		return err
	}

	runner := event.NewRunner()
	proj := projector.New(projector.Options{Logger: &s.log, Metrics: s.metrics}).Attach(runner)

	var sink event.Bus = event.NewEmitter()
	switch s.cfg.Reporter {
	case config.ReporterConsole:
		console.New(console.Options{
			Out:     s.lineWriter(),
			Color:   s.color,
			Logger:  &s.log,
			Metrics: s.metrics,
		}).Attach(sink)
	default:
		stream.NewWriter(s.sink, stream.WriterOptions{Logger: &s.log, Metrics: s.metrics}).Attach(sink)
	}

	check := &validation{enabled: s.cfg.Schema.Enabled, failFast: s.cfg.Schema.FailFast, s: s}
	for _, kind := range event.Kinds() {
		proj.On(kind, func(p event.Payload) error {
			if err := check.event(kind, p); err != nil {
				return err
			}
			return sink.Emit(kind, p)
		})
	}

	in, done, err := openInput(c, e)
	if err != nil {
		return err
	}
	defer done()
	reader := stream.NewReader(stream.ReaderOptions{Logger: &s.log, Metrics: s.metrics})
	if err := reader.Replay(in, runner); err != nil {
		return err
	}
	return check.result()
}

// validation checks projected events against the embedded schema before
// they reach the sink. Invalid events are still written unless failFast
// is set.
type validation struct {
	enabled  bool
	failFast bool
	s        *settings

	checked int
	invalid int
}

func (v *validation) event(kind event.Kind, p event.Payload) error {
	if !v.enabled {
		return nil
	}
	v.checked++
	err := schema.ValidateEvent(kind, p)
	if err == nil {
		return nil
	}
	v.invalid++
	if v.failFast {
		return err
	}
	v.s.log.Warn().Err(err).Str("event", kind.String()).Msg("projected event does not match schema")
	return nil
}

func (v *validation) result() error {
	if v.invalid == 0 {
		return nil
	}
	return errors.Validation("", fmt.Errorf("%d of %d projected events do not match the schema", v.invalid, v.checked))
}
