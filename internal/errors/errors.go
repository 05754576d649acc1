// Package errors provides structured error types and exit codes for testrelay.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the testrelay CLI.
const (
	ExitSuccess       = 0 // Success
	ExitRuntimeError  = 1 // Runtime error (write failed, reported suite failed, etc.)
	ExitConfigError   = 2 // Configuration error (invalid config, schema violation, etc.)
	ExitProtocolError = 3 // Runner broke the event ordering contract
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindProtocol
	KindValidation
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindProtocol:
		return "protocol"
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	default:
		return "runtime"
	}
}

// TestrelayError is the base error type for testrelay.
type TestrelayError struct {
	Kind    ErrorKind
	Message string
	Event   string // Event name if applicable
	Cause   error  // Underlying error
}

func (e *TestrelayError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Event != "" {
		return fmt.Sprintf("[%s] %s", e.Event, msg)
	}
	return msg
}

func (e *TestrelayError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *TestrelayError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindProtocol:
		return ExitProtocolError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *TestrelayError {
	return &TestrelayError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *TestrelayError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *TestrelayError {
	return &TestrelayError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *TestrelayError {
	return Config(fmt.Sprintf(format, args...))
}

// Protocol creates an error for an event that violates the runner's
// ordering contract (e.g. a context:end with no matching context:start).
func Protocol(event, message string) *TestrelayError {
	return &TestrelayError{
		Kind:    KindProtocol,
		Event:   event,
		Message: message,
	}
}

// Protocolf creates a protocol error with formatting.
func Protocolf(event, format string, args ...interface{}) *TestrelayError {
	return Protocol(event, fmt.Sprintf(format, args...))
}

// Validation creates a schema validation error.
func Validation(event string, cause error) *TestrelayError {
	return &TestrelayError{
		Kind:    KindValidation,
		Event:   event,
		Message: "validation failed",
		Cause:   cause,
	}
}

// IO wraps a sink write failure.
func IO(event string, cause error) *TestrelayError {
	return &TestrelayError{
		Kind:    KindIO,
		Event:   event,
		Message: "write failed",
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *TestrelayError {
	return &TestrelayError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// IsKind reports whether any error in err's chain is a TestrelayError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var te *TestrelayError
	if stderrors.As(err, &te) {
		return te.Kind == k
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var te *TestrelayError
	if stderrors.As(err, &te) {
		return te.ExitCode()
	}
	return ExitRuntimeError
}
