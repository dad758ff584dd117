// Package events provides the event infrastructure used by activities to
// publish what happened during an execution. It defines the Envelope wrapping
// every event and the EventSink interface that stores or transmits envelopes.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidEnvelope is returned by sinks for envelopes missing routing fields.
var ErrInvalidEnvelope = errors.New("invalid event envelope")

// Envelope wraps a domain event with the metadata needed for routing and
// deduplication.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event, e.g. "generation.number_generated".
	Type string `json:"type"`

	// Source names the emitting component, e.g. "generation-activity".
	Source string `json:"source"`

	// Version of the payload schema.
	Version string `json:"version"`

	// Timestamp is the wall clock time of emission.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey is identical across retries of the same logical event.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID and RunID identify the execution that produced the event.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload holds the event body; its schema depends on Type and Version.
	Payload json.RawMessage `json:"payload"`
}

// Validate checks the fields every sink relies on.
func (e Envelope) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if e.Type == "" {
		errs = append(errs, errors.New("type is required"))
	}
	if e.IdempotencyKey == "" {
		errs = append(errs, errors.New("idempotency_key is required"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidEnvelope}, errs...)...)
	}
	return nil
}

// EventSink emits events to downstream consumers.
type EventSink interface {
	// Append adds an event with best-effort delivery. Implementations treat a
	// repeated IdempotencyKey as a no-op. Callers must not fail their primary
	// operation because Append failed.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event.
type NoOpEventSink struct{}

// Append implements EventSink.Append with no-op behavior.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error {
	return nil
}

// NewNoOpEventSink creates a new no-op event sink.
func NewNoOpEventSink() EventSink {
	return &NoOpEventSink{}
}
