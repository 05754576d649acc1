package mocks

import (
	"sync"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

// Sink implements event.Bus for testing. It records every emission and
// never dispatches to handlers registered with On.
type Sink struct {
	// EmitFunc is called by Emit after the event is recorded. If nil,
	// Emit returns nil.
	EmitFunc func(kind event.Kind, p event.Payload) error

	mu      sync.Mutex
	emitted []event.Record
	subs    map[event.Kind]int
}

// NewSink creates an empty recording sink.
func NewSink() *Sink {
	return &Sink{subs: make(map[event.Kind]int)}
}

// WithEmitFunc sets the function called by Emit.
func (m *Sink) WithEmitFunc(fn func(kind event.Kind, p event.Payload) error) *Sink {
	m.EmitFunc = fn
	return m
}

// On counts the subscription and otherwise ignores h.
func (m *Sink) On(kind event.Kind, _ event.Handler) {
	m.mu.Lock()
	m.subs[kind]++
	m.mu.Unlock()
}

// Emit records the event.
func (m *Sink) Emit(kind event.Kind, p event.Payload) error {
	m.mu.Lock()
	m.emitted = append(m.emitted, event.Record{Kind: kind, Payload: p})
	m.mu.Unlock()
	if m.EmitFunc != nil {
		return m.EmitFunc(kind, p)
	}
	return nil
}

// Emitted returns a copy of the recorded events.
func (m *Sink) Emitted() []event.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]event.Record, len(m.emitted))
	copy(result, m.emitted)
	return result
}

// Subscriptions returns how many handlers were registered for kind.
func (m *Sink) Subscriptions(kind event.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[kind]
}
