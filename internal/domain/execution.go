// Package domain defines the data carried through one random-number execution:
// the caller's input, the record produced by the generator, and the payload
// produced by whichever branch handler the workflow selects.
//
// Values in this package are plain JSON-tagged structs so they travel through
// Temporal payload converters, HTTP bodies and the in-process state machine
// without adapters.
package domain

import (
	"fmt"
	"strconv"
)

// Default execution input used when a trigger supplies no overrides.
const (
	DefaultMaxNumber     = 10
	DefaultNumberToCheck = "5"
)

// ExecutionInput is the caller-supplied input for a single execution.
// It is immutable once the execution starts.
type ExecutionInput struct {
	// MaxNumber is the inclusive upper bound of the generated number.
	MaxNumber int `json:"maxNumber" validate:"gt=0"`

	// NumberToCheck is the comparison target as a decimal integer string.
	NumberToCheck string `json:"numberToCheck" validate:"required"`
}

// DefaultExecutionInput returns the input used by triggers without overrides.
func DefaultExecutionInput() ExecutionInput {
	return ExecutionInput{
		MaxNumber:     DefaultMaxNumber,
		NumberToCheck: DefaultNumberToCheck,
	}
}

// Validate checks the struct constraints and that NumberToCheck parses.
func (in ExecutionInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := in.ParseNumberToCheck(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// ParseNumberToCheck converts NumberToCheck to an int using strict base-10
// parsing. Surrounding whitespace, fractions and trailing garbage are errors.
func (in ExecutionInput) ParseNumberToCheck() (int, error) {
	n, err := strconv.Atoi(in.NumberToCheck)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, in.NumberToCheck)
	}
	return n, nil
}

// GeneratedNumberRecord is the generator output. It flows unmodified through
// the wait state into the branch decision.
type GeneratedNumberRecord struct {
	GeneratedRandomNumber int `json:"generatedRandomNumber" validate:"gte=1,ltefield=MaxNumber"`
	MaxNumber             int `json:"maxNumber" validate:"gt=0"`
	NumberToCheck         int `json:"numberToCheck"`
}

// Validate enforces 1 <= GeneratedRandomNumber <= MaxNumber.
func (r GeneratedNumberRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// Greater reports whether the generated number exceeds the comparison target.
func (r GeneratedNumberRecord) Greater() bool {
	return r.GeneratedRandomNumber > r.NumberToCheck
}

// ExecutionAck is the synchronous acknowledgement returned by the trigger.
type ExecutionAck struct {
	Done bool `json:"done"`
}

// Ack returns the literal {"done": true} acknowledgement.
func Ack() ExecutionAck { return ExecutionAck{Done: true} }

// ExecutionRef identifies a started execution.
type ExecutionRef struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}
