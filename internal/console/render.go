package console

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
)

const assertionError = "AssertionError"

// ContextStart opens a context. A top-level context prints its name once,
// unindented.
func (r *Renderer) ContextStart(ctx event.Payload) error {
	name, _ := ctx.String("name")
	r.contexts = append(r.contexts, frame{name: name})
	if len(r.contexts) == 1 {
		return r.write(event.ContextStart, name)
	}
	return nil
}

// ContextEnd closes the innermost context. An end without an open context,
// or whose name differs from the innermost one, is a protocol error and
// leaves the stack unchanged. An end that carries no name closes the
// innermost context.
func (r *Renderer) ContextEnd(ctx event.Payload) error {
	name, named := ctx.String("name")
	if len(r.contexts) == 0 {
		return errors.Protocolf(event.ContextEnd.String(), "no open context to end (got %q)", name)
	}
	top := r.contexts[len(r.contexts)-1]
	if named && name != top.name {
		return errors.Protocolf(event.ContextEnd.String(), "context %q ended while %q is open", name, top.name)
	}
	r.contexts = r.contexts[:len(r.contexts)-1]
	return nil
}

// TestSuccess renders a passing test.
func (r *Renderer) TestSuccess(test event.Payload) error {
	return r.outcome(event.TestSuccess, tick, green, test, false)
}

// TestFailure renders a failed test and its error, if any.
func (r *Renderer) TestFailure(test event.Payload) error {
	return r.outcome(event.TestFailure, cross, red, test, true)
}

// TestError renders a test that raised an unexpected error.
func (r *Renderer) TestError(test event.Payload) error {
	return r.outcome(event.TestError, cross, yellow, test, true)
}

// TestTimeout renders a test that did not finish in time.
func (r *Renderer) TestTimeout(test event.Payload) error {
	return r.outcome(event.TestTimeout, ellipsis, red, test, false)
}

// TestDeferred renders a test that was skipped.
func (r *Renderer) TestDeferred(test event.Payload) error {
	return r.outcome(event.TestDeferred, dash, cyan, test, false)
}

// Log buffers a log entry until the next test outcome.
func (r *Renderer) Log(entry event.Payload) error {
	level, ok := entry.String("level")
	if !ok {
		level = "log"
	}
	var message string
	if v, ok := entry.Get("message"); ok && v != nil {
		if s, ok := v.(string); ok {
			message = s
		} else {
			message = fmt.Sprint(v)
		}
	}
	r.pending = append(r.pending, logEntry{level: level, message: message})
	return nil
}

// PrintStats renders the suite summary relayed with suite:end. Counts are
// printed as received.
func (r *Renderer) PrintStats(stats event.Payload) error {
	count := func(key string) int {
		n, _ := stats.Int(key)
		return n
	}
	line := fmt.Sprintf("%d contexts, %d tests, %d assertions, %d failures, %d errors, %d timeouts",
		count("contexts"), count("tests"), count("assertions"),
		count("failures"), count("errors"), count("timeouts"))
	if n := count("deferred"); n > 0 {
		line += fmt.Sprintf(", %d deferred", n)
	}

	ok, hasOK := stats.Bool("ok")
	color := red
	if ok {
		color = green
	}
	if err := r.write(event.SuiteEnd, ""); err != nil {
		return err
	}
	if err := r.write(event.SuiteEnd, r.paint(color, line)); err != nil {
		return err
	}
	if !hasOK {
		return nil
	}
	verdict := "FAILURE"
	if ok {
		verdict = "OK"
	}
	return r.write(event.SuiteEnd, r.paint(color, verdict))
}

func (r *Renderer) outcome(kind event.Kind, symbol, color string, test event.Payload, withError bool) error {
	name, _ := test.String("name")
	line := "  " + symbol + " " + r.contextualName(name)
	if err := r.write(kind, r.paint(color, line)); err != nil {
		return err
	}
	if withError {
		if info, ok := test.ErrorFields("error"); ok {
			if err := r.writeError(kind, info); err != nil {
				return err
			}
		}
	}
	return r.flush(kind)
}

func (r *Renderer) writeError(kind event.Kind, info event.Payload) error {
	name, _ := info.String("name")
	message, _ := info.String("message")

	header := message
	color := red
	if name != assertionError {
		color = yellow
		if name != "" {
			header = name + ": " + message
		}
	}
	if err := r.write(kind, "    "+r.paint(color, header)); err != nil {
		return err
	}

	stack, _ := info.String("stack")
	for i, l := range strings.Split(stack, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || (i == 0 && isStackHeader(l, name, message)) {
			continue
		}
		if err := r.write(kind, "      "+l); err != nil {
			return err
		}
	}
	return nil
}

// isStackHeader reports whether the first stack line repeats the error
// itself rather than naming a frame.
func isStackHeader(line, name, message string) bool {
	return line == message || line == name+": "+message || line == name
}

func (r *Renderer) flush(kind event.Kind) error {
	pending := r.pending
	r.pending = nil
	for _, e := range pending {
		if err := r.write(kind, "    ["+r.upper.String(e.level)+"] "+e.message); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) contextualName(test string) string {
	parts := make([]string, 0, len(r.contexts)+1)
	for _, f := range r.contexts {
		parts = append(parts, f.name)
	}
	parts = append(parts, test)
	return strings.TrimSpace(strings.Join(parts, " "))
}
