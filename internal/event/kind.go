// Package event defines the test runner's lifecycle events and a small
// synchronous named-event bus to carry them.
package event

// Kind identifies a runner lifecycle event.
type Kind int

const (
	SuiteConfiguration Kind = iota
	SuiteStart
	SuiteEnd
	ContextStart
	ContextEnd
	ContextUnsupported
	TestSetUp
	TestTearDown
	TestStart
	TestAsync
	TestSuccess
	TestFailure
	TestError
	TestTimeout
	TestDeferred
	RunnerFocus
	UncaughtException
	Log

	numKinds
)

// names holds the wire names; they are case-sensitive.
var names = [numKinds]string{
	SuiteConfiguration: "suite:configuration",
	SuiteStart:         "suite:start",
	SuiteEnd:           "suite:end",
	ContextStart:       "context:start",
	ContextEnd:         "context:end",
	ContextUnsupported: "context:unsupported",
	TestSetUp:          "test:setUp",
	TestTearDown:       "test:tearDown",
	TestStart:          "test:start",
	TestAsync:          "test:async",
	TestSuccess:        "test:success",
	TestFailure:        "test:failure",
	TestError:          "test:error",
	TestTimeout:        "test:timeout",
	TestDeferred:       "test:deferred",
	RunnerFocus:        "runner:focus",
	UncaughtException:  "uncaughtException",
	Log:                "log",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k, n := range names {
		m[n] = Kind(k)
	}
	return m
}()

// String returns the wire name of the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return names[k]
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// IsOutcome reports whether k ends a single test
// (success, failure, error, timeout or deferred).
func (k Kind) IsOutcome() bool {
	switch k {
	case TestSuccess, TestFailure, TestError, TestTimeout, TestDeferred:
		return true
	}
	return false
}

// ParseKind maps a wire name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Kinds returns every recognized kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
