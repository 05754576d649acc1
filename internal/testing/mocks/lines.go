// Package mocks provides shared test doubles for testrelay packages.
package mocks

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Lines implements console.LineWriter for testing.
// Use NewLines() to create instances with a fluent builder API.
type Lines struct {
	// WriteFunc is called by WriteLine before the line is recorded. If it
	// returns an error the line is dropped.
	WriteFunc func(line string) error

	failAfter int32
	calls     int32
	mu        sync.Mutex
	lines     []string
}

// NewLines creates a line sink that accepts every write.
func NewLines() *Lines {
	return &Lines{failAfter: -1}
}

// WithWriteFunc sets the function called by WriteLine.
func (m *Lines) WithWriteFunc(fn func(line string) error) *Lines {
	m.WriteFunc = fn
	return m
}

// WithFailAfter makes every write after the first n fail with err.
func (m *Lines) WithFailAfter(n int, err error) *Lines {
	m.failAfter = int32(n)
	return m.WithWriteFunc(func(string) error {
		if atomic.LoadInt32(&m.calls) > m.failAfter {
			return err
		}
		return nil
	})
}

// WriteLine records line.
func (m *Lines) WriteLine(line string) error {
	atomic.AddInt32(&m.calls, 1)
	if m.WriteFunc != nil {
		if err := m.WriteFunc(line); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.lines = append(m.lines, line)
	m.mu.Unlock()
	return nil
}

// Test inspection methods

// Calls returns the number of times WriteLine was called, including
// failed writes.
func (m *Lines) Calls() int32 {
	return atomic.LoadInt32(&m.calls)
}

// Lines returns a copy of the recorded lines.
func (m *Lines) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.lines))
	copy(result, m.lines)
	return result
}

// String returns the recorded lines joined the way a terminal shows them.
func (m *Lines) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lines) == 0 {
		return ""
	}
	return strings.Join(m.lines, "\n") + "\n"
}

// Reset clears recorded state.
func (m *Lines) Reset() {
	atomic.StoreInt32(&m.calls, 0)
	m.mu.Lock()
	m.lines = nil
	m.mu.Unlock()
}
