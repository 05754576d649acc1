// Package testrelay provides public constants for external tools that
// invoke the testrelay CLI.
package testrelay

// Exit codes returned by the testrelay CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (write failed, the relayed
	// suite reported failure, etc.).
	ExitFailure = 1

	// ExitConfigError indicates a configuration or validation error
	// (invalid config, unknown flag, event not matching its schema, etc.).
	ExitConfigError = 2

	// ExitProtocolError indicates the runner broke the event ordering
	// contract, e.g. a context:end with no matching context:start.
	ExitProtocolError = 3
)
