// Package console renders a runner's event stream as an indented,
// human-readable BDD trace.
package console

import (
	"github.com/acarl005/stripansi"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	"github.com/AndreyAkinshin/testrelay/internal/metrics"
	"github.com/AndreyAkinshin/testrelay/internal/output"
)

// LineWriter receives rendered lines. *output.Writer satisfies it.
type LineWriter interface {
	WriteLine(line string) error
}

// Options configures a Renderer.
type Options struct {
	// Out receives rendered lines. Defaults to stdout.
	Out LineWriter
	// Color wraps outcome lines and error text in ANSI color codes. When
	// false no escape sequence reaches Out, including any supplied by the
	// runner in names or messages.
	Color bool
	// Logger receives debug diagnostics and protocol warnings.
	Logger *zerolog.Logger
	// Metrics counts rendered events, write failures and protocol errors.
	Metrics *metrics.Metrics
}

type frame struct {
	name string
}

type logEntry struct {
	level   string
	message string
}

// Renderer holds the open-context stack and the logs waiting for the next
// test outcome. It is not safe for concurrent use; attach it to a single
// runner.
type Renderer struct {
	out     LineWriter
	color   bool
	log     zerolog.Logger
	metrics *metrics.Metrics
	upper   cases.Caser

	contexts []frame
	pending  []logEntry
	handlers map[event.Kind]event.Handler
}

// New creates a Renderer with an empty context stack.
func New(opts Options) *Renderer {
	r := &Renderer{
		out:     opts.Out,
		color:   opts.Color,
		log:     zerolog.Nop(),
		metrics: opts.Metrics,
		upper:   cases.Upper(language.Und),
	}
	if r.out == nil {
		r.out = output.New()
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", metrics.ComponentConsole).Logger()
	}
	r.handlers = map[event.Kind]event.Handler{
		event.ContextStart: r.ContextStart,
		event.ContextEnd:   r.ContextEnd,
		event.TestSuccess:  r.TestSuccess,
		event.TestFailure:  r.TestFailure,
		event.TestError:    r.TestError,
		event.TestTimeout:  r.TestTimeout,
		event.TestDeferred: r.TestDeferred,
		event.Log:          r.Log,
		event.SuiteEnd:     r.PrintStats,
	}
	return r
}

// Attach subscribes the renderer's operations to src and returns the
// renderer. When src exposes a console sub-bus, log events on it are
// rendered as well.
func (r *Renderer) Attach(src event.Bus) *Renderer {
	for kind, h := range r.handlers {
		src.On(kind, r.observe(kind, h))
	}
	if cs, ok := src.(event.ConsoleSource); ok {
		if c := cs.Console(); c != nil {
			c.On(event.Log, r.observe(event.Log, r.Log))
		}
	}
	return r
}

// Depth returns the number of open contexts.
func (r *Renderer) Depth() int {
	return len(r.contexts)
}

func (r *Renderer) observe(kind event.Kind, h event.Handler) event.Handler {
	return func(p event.Payload) error {
		r.metrics.ObserveEvent(metrics.ComponentConsole, kind)
		r.log.Debug().Str("event", kind.String()).Int("depth", len(r.contexts)).Msg("render")
		err := h(p)
		if errors.IsKind(err, errors.KindProtocol) {
			r.metrics.ObserveProtocolError()
			r.log.Warn().Err(err).Msg("runner protocol violation")
		}
		return err
	}
}

func (r *Renderer) write(kind event.Kind, line string) error {
	if !r.color {
		line = stripansi.Strip(line)
	}
	if err := r.out.WriteLine(line); err != nil {
		r.metrics.ObserveWriteError(metrics.ComponentConsole)
		return errors.IO(kind.String(), err)
	}
	return nil
}

func (r *Renderer) paint(color, s string) string {
	if !r.color {
		return s
	}
	return color + s + reset
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Outcome symbols.
const (
	tick     = "✓"
	cross    = "✖"
	ellipsis = "…"
	dash     = "-"
)
