package branch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/pkg/activity"
	"github.com/ahrav/go-numflow/pkg/events"
)

// EventEmitter publishes branch events.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates a new EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitBranchSelected publishes which handler ran for the execution.
func (e *EventEmitter) EmitBranchSelected(
	ctx context.Context,
	result domain.BranchResult,
	info activity.ExecutionInfo,
) {
	payload, err := json.Marshal(domain.BranchSelectedEvent{
		Branch:                result.Branch,
		GeneratedRandomNumber: result.GeneratedRandomNumber,
		NumberToCheck:         result.NumberToCheck,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal branch event", "error", err)
		return
	}

	envelope := events.Envelope{
		ID:             uuid.New().String(),
		Type:           domain.EventBranchSelected.String(),
		Source:         "branch-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: domain.EventIdempotencyKey(info.WorkflowID, info.RunID, domain.EventBranchSelected),
		WorkflowID:     info.WorkflowID,
		RunID:          info.RunID,
		Payload:        payload,
	}

	e.base.EmitEventSafe(ctx, envelope, "BranchSelected["+result.Branch.String()+"]")
}
