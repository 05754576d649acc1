package mocks

import (
	"errors"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/testrelay/internal/event"
)

func TestLines_RecordsWrites(t *testing.T) {
	t.Parallel()
	m := NewLines()

	_ = m.WriteLine("a")
	_ = m.WriteLine("b")

	if got := m.String(); got != "a\nb\n" {
		t.Errorf("String() = %q, want %q", got, "a\nb\n")
	}
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}
}

func TestLines_EmptyString(t *testing.T) {
	t.Parallel()
	if got := NewLines().String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestLines_WithFailAfter(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	m := NewLines().WithFailAfter(1, boom)

	if err := m.WriteLine("first"); err != nil {
		t.Fatalf("first write error = %v", err)
	}
	if err := m.WriteLine("second"); !errors.Is(err, boom) {
		t.Errorf("second write error = %v, want %v", err, boom)
	}
	if got := m.Lines(); len(got) != 1 || got[0] != "first" {
		t.Errorf("Lines() = %v, want [first]", got)
	}
	if m.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", m.Calls())
	}
}

func TestLines_Reset(t *testing.T) {
	t.Parallel()
	m := NewLines()
	_ = m.WriteLine("x")

	m.Reset()

	if m.Calls() != 0 || len(m.Lines()) != 0 {
		t.Errorf("after Reset: Calls() = %d, Lines() = %v", m.Calls(), m.Lines())
	}
}

func TestLines_ConcurrentWrites(t *testing.T) {
	t.Parallel()
	m := NewLines()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WriteLine("line")
		}()
	}
	wg.Wait()

	if m.Calls() != 10 {
		t.Errorf("Calls() = %d, want 10", m.Calls())
	}
}

func TestSink_RecordsAndReturnsError(t *testing.T) {
	t.Parallel()
	boom := errors.New("closed")
	m := NewSink().WithEmitFunc(func(kind event.Kind, _ event.Payload) error {
		if kind == event.TestError {
			return boom
		}
		return nil
	})

	if err := m.Emit(event.TestStart, event.Payload{"name": "t"}); err != nil {
		t.Fatalf("Emit(test:start) error = %v", err)
	}
	if err := m.Emit(event.TestError, event.Payload{}); !errors.Is(err, boom) {
		t.Errorf("Emit(test:error) error = %v, want %v", err, boom)
	}

	got := m.Emitted()
	if len(got) != 2 {
		t.Fatalf("Emitted() len = %d, want 2", len(got))
	}
	if got[0].Kind != event.TestStart || got[0].Payload["name"] != "t" {
		t.Errorf("Emitted()[0] = %+v", got[0])
	}
}

func TestSink_Subscriptions(t *testing.T) {
	t.Parallel()
	m := NewSink()
	m.On(event.Log, func(event.Payload) error { return nil })
	m.On(event.Log, func(event.Payload) error { return nil })

	if n := m.Subscriptions(event.Log); n != 2 {
		t.Errorf("Subscriptions(log) = %d, want 2", n)
	}
	if n := m.Subscriptions(event.TestStart); n != 0 {
		t.Errorf("Subscriptions(test:start) = %d, want 0", n)
	}
}
