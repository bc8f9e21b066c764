package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error (rendering, I/O).
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorData      = 5   // Indicates a malformed input table.
	ExitErrorExhausted = 6   // Indicates the fetch retry policy ran out of attempts.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// DataShapeError reports an input table that cannot be enriched: a score
// column is missing, or one of its values is non-numeric, non-finite or
// non-integral. Row is the zero-based data row, or -1 when the problem
// concerns the whole column.
type DataShapeError struct {
	// Column is the offending column name.
	Column string
	// Row is the zero-based data row index, -1 for column-level problems.
	Row int
	// Reason explains what is wrong with the column or value.
	Reason string
}

// Error returns a formatted message describing the shape problem.
func (e DataShapeError) Error() string {
	if e.Column == "" {
		return "data shape error: " + e.Reason
	}
	if e.Row < 0 {
		return fmt.Sprintf("data shape error in column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("data shape error in column %q, row %d: %s", e.Column, e.Row, e.Reason)
}

// RetryExhaustedError is returned by a bounded fetch policy once every
// attempt has failed. Last carries the cause of the final attempt.
type RetryExhaustedError struct {
	// Attempts is the number of attempts that were made.
	Attempts int
	// Last is the error returned by the final attempt.
	Last error
}

// Error returns a formatted message including the last cause.
func (e RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the cause of the final attempt.
func (e RetryExhaustedError) Unwrap() error { return e.Last }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by the pipeline to a process exit code.
// A nil error maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr       ConfigError
		validErr     ValidationError
		shapeErr     DataShapeError
		exhaustedErr RetryExhaustedError
	)
	// Typed errors win over a context error they wrap: attempts that all
	// time out still exhaust the retry budget.
	switch {
	case errors.As(err, &exhaustedErr):
		return ExitErrorExhausted
	case errors.As(err, &cfgErr), errors.As(err, &validErr):
		return ExitErrorConfig
	case errors.As(err, &shapeErr):
		return ExitErrorData
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
