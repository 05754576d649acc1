package event

import (
	"errors"
	"fmt"
)

// Handler reacts to a single event. A returned error is reported back to
// whoever called Emit.
type Handler func(Payload) error

// Bus is the named-event surface shared by runners, projectors and sinks.
type Bus interface {
	On(kind Kind, h Handler)
	Emit(kind Kind, p Payload) error
}

// ConsoleSource is implemented by runners that expose a secondary bus for
// log events captured from the code under test.
type ConsoleSource interface {
	Console() Bus
}

// Emitter is a synchronous Bus. Handlers run on the caller's goroutine in
// registration order; every handler runs even if an earlier one fails.
// An Emitter is not safe for concurrent use.
type Emitter struct {
	handlers [numKinds][]Handler
	any      []func(Kind, Payload) error
	console  *Emitter
}

// NewEmitter creates an Emitter without a console sub-bus.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// NewRunner creates an Emitter shaped like a runner: its Console method
// returns a second, independent Emitter.
func NewRunner() *Emitter {
	return &Emitter{console: NewEmitter()}
}

// On registers h for kind.
func (e *Emitter) On(kind Kind, h Handler) {
	if !kind.Valid() || h == nil {
		return
	}
	e.handlers[kind] = append(e.handlers[kind], h)
}

// OnAny registers h for every kind. Catch-all handlers run after the
// kind-specific ones.
func (e *Emitter) OnAny(h func(Kind, Payload) error) {
	if h == nil {
		return
	}
	e.any = append(e.any, h)
}

// Emit delivers p to every handler registered for kind and returns their
// errors joined.
func (e *Emitter) Emit(kind Kind, p Payload) error {
	if !kind.Valid() {
		return fmt.Errorf("emit: unknown event kind %d", int(kind))
	}
	var errs []error
	for _, h := range e.handlers[kind] {
		if err := h(p); err != nil {
			errs = append(errs, err)
		}
	}
	for _, h := range e.any {
		if err := h(kind, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Console returns the console sub-bus, or nil when there is none.
func (e *Emitter) Console() Bus {
	if e.console == nil {
		return nil
	}
	return e.console
}

// ConsoleEmitter returns the console sub-bus as a concrete Emitter.
func (e *Emitter) ConsoleEmitter() *Emitter {
	return e.console
}
