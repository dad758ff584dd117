// Package generation implements the GenerateRandomNumber activity, the first
// state of every execution. It draws a number uniformly from [1, maxNumber]
// and hands the caller's comparison target forward as an integer.
package generation

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is returned when no random source can be created.
var ErrSourceUnavailable = errors.New("random source unavailable")

// ErrorType classifies generation failures.
type ErrorType string

const (
	// ErrorValidation signals input that cannot be processed. Never retried.
	ErrorValidation ErrorType = "validation"

	// ErrorSource signals a failure to seed the random source.
	ErrorSource ErrorType = "source"

	// ErrorInternal represents unexpected failures, such as a draw outside
	// the requested range.
	ErrorInternal ErrorType = "internal"
)

// Error carries a classified generation failure.
type Error struct {
	// Type classifies the error for routing and retry decisions.
	Type ErrorType
	// Message provides human-readable error context.
	Message string
	// Cause wraps the underlying error.
	Cause error
	// Retryable indicates whether the operation might succeed if retried.
	Retryable bool
}

// Error formats the error as "<type> error: <message> (<retry-status>)[: <cause>]".
func (e *Error) Error() string {
	retryStr := "non-retryable"
	if e.Retryable {
		retryStr = "retryable"
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s (%s): %v", e.Type, e.Message, retryStr, e.Cause)
	}
	return fmt.Sprintf("%s error: %s (%s)", e.Type, e.Message, retryStr)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
