package generation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/pkg/activity"
	"github.com/ahrav/go-numflow/pkg/events"
)

const (
	eventSource  = "generation-activity"
	eventVersion = "1.0.0"
)

// EventEmitter publishes generation events.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates a new EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitNumberGenerated publishes the drawn number. Retries of the same
// activity within a run share one idempotency key.
func (e *EventEmitter) EmitNumberGenerated(
	ctx context.Context,
	record domain.GeneratedNumberRecord,
	info activity.ExecutionInfo,
) {
	payload, err := json.Marshal(domain.NumberGeneratedEvent{
		GeneratedRandomNumber: record.GeneratedRandomNumber,
		MaxNumber:             record.MaxNumber,
		NumberToCheck:         record.NumberToCheck,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal number generated event", "error", err)
		return
	}

	envelope := events.Envelope{
		ID:             uuid.New().String(),
		Type:           domain.EventNumberGenerated.String(),
		Source:         eventSource,
		Version:        eventVersion,
		Timestamp:      time.Now(),
		IdempotencyKey: domain.EventIdempotencyKey(info.WorkflowID, info.RunID, domain.EventNumberGenerated),
		WorkflowID:     info.WorkflowID,
		RunID:          info.RunID,
		Payload:        payload,
	}

	e.base.EmitEventSafe(ctx, envelope, "NumberGenerated")
}
