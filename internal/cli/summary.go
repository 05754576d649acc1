package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/stream"
)

var statsLabels = []struct {
	key   string
	label string
}{
	{"contexts", "Contexts"},
	{"tests", "Tests"},
	{"assertions", "Assertions"},
	{"failures", "Failures"},
	{"errors", "Errors"},
	{"timeouts", "Timeouts"},
	{"deferred", "Deferred"},
}

func summaryCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Count the events in an NDJSON stream and print the relayed suite stats",
		ArgsUsage: "[file|-]",
		Action:    withSettings(e, func(c *cli.Context, s *settings) error { return cmdSummary(c, e, s) }),
	}
}

func cmdSummary(c *cli.Context, e env, s *settings) error {
	in, done, err := openInput(c, e)
	if err != nil {
		return err
	}
	defer done()

	rec := event.NewRecorder()
	reader := stream.NewReader(stream.ReaderOptions{Logger: &s.log, Metrics: s.metrics})
	if err := reader.Replay(in, rec); err != nil {
		return err
	}

	if len(rec.Records()) == 0 {
		s.out.Hint("hint: record a stream with 'testrelay project' or a runner's JSON reporter")
		return errors.New("no events found in input")
	}

	s.out.Section("Events")
	counts := rec.Counts()
	var rows [][]string
	for _, kind := range event.Kinds() {
		if n := counts[kind]; n > 0 {
			rows = append(rows, []string{kind.String(), fmt.Sprintf("%d", n)})
		}
	}
	s.out.Table([]string{"Event", "Count"}, rows)
	if n := reader.Skipped(); n > 0 {
		s.out.SummaryItem("Skipped lines", fmt.Sprintf("%d", n))
	}

	stats, ok := rec.Last(event.SuiteEnd)
	if !ok {
		s.out.FinalFailure("No suite:end event: the run did not finish.")
		return errors.New("suite did not finish")
	}

	s.out.Section("Suite")
	for _, l := range statsLabels {
		if n, ok := stats.Int(l.key); ok {
			s.out.SummaryItem(l.label, fmt.Sprintf("%d", n))
		}
	}
	if passed, _ := stats.Bool("ok"); !passed {
		s.out.FinalFailure("FAILURE")
		return errors.New("suite reported failure")
	}
	s.out.FinalSuccess("OK")
	return nil
}
