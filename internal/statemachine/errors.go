package statemachine

import (
	"errors"
	"fmt"
)

// Errors returned while building or interpreting a definition.
var (
	// ErrInvalidDefinition wraps every structural problem found by Validate.
	ErrInvalidDefinition = errors.New("invalid state machine definition")

	// ErrUnknownState is returned when a transition names a missing state.
	ErrUnknownState = errors.New("unknown state")

	// ErrUnknownResource is returned by executors asked to invoke an
	// unregistered task resource.
	ErrUnknownResource = errors.New("unknown task resource")

	// ErrNoChoiceMatched is returned when no rule matches and no default exists.
	ErrNoChoiceMatched = errors.New("no choice rule matched")

	// ErrNotNumeric is returned when a numeric comparison reads a value
	// that is missing or not a number.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrTransitionLimit is returned when an execution exceeds maxTransitions.
	ErrTransitionLimit = errors.New("transition limit exceeded")
)

// TaskError reports a failed task invocation. Err is the executor's error
// unchanged, so callers can inspect orchestration-specific error types.
type TaskError struct {
	State    string
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task state %s (%s): %v", e.State, e.Resource, e.Err)
}

// Unwrap returns the executor error.
func (e *TaskError) Unwrap() error { return e.Err }
