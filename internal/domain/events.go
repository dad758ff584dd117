package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// EventType identifies a domain event for routing and processing.
type EventType string

const (
	// EventNumberGenerated is emitted once the generator draws a number.
	EventNumberGenerated EventType = "generation.number_generated"

	// EventBranchSelected is emitted by whichever branch handler runs.
	EventBranchSelected EventType = "branch.selected"
)

// String returns the wire name of the event type.
func (t EventType) String() string { return string(t) }

// NumberGeneratedEvent is the payload of EventNumberGenerated.
type NumberGeneratedEvent struct {
	GeneratedRandomNumber int `json:"generated_random_number"`
	MaxNumber             int `json:"max_number"`
	NumberToCheck         int `json:"number_to_check"`
}

// BranchSelectedEvent is the payload of EventBranchSelected.
type BranchSelectedEvent struct {
	Branch                Branch `json:"branch"`
	GeneratedRandomNumber int    `json:"generated_random_number"`
	NumberToCheck         int    `json:"number_to_check"`
}

// EventIdempotencyKey derives a deterministic deduplication key for an event
// emitted by the given workflow run. Activity retries within a run produce
// the same key; a new run produces a new one.
//
//	H(workflow_id || ":" || run_id || ":" || event_type)
func EventIdempotencyKey(workflowID, runID string, eventType EventType) string {
	sum := sha256.Sum256([]byte(workflowID + ":" + runID + ":" + string(eventType)))
	return hex.EncodeToString(sum[:])
}
