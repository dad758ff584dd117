// Package activity provides the infrastructure shared by every Temporal
// activity implementation: execution metadata, safe logging and best-effort
// event emission. All helpers work outside a Temporal activity context so the
// same activity code runs in-process for local simulation and plain unit
// tests.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/ahrav/go-numflow/pkg/events"
)

// LocalWorkflowID is reported by ExecutionInfo outside Temporal.
const LocalWorkflowID = "local"

// ExecutionInfo describes the execution an activity runs in.
type ExecutionInfo struct {
	WorkflowID   string
	RunID        string
	ActivityID   string
	ActivityType string
	Attempt      int32
}

// BaseActivities is embedded by every activity set.
type BaseActivities struct {
	eventSink events.EventSink
}

// NewBaseActivities creates a BaseActivities emitting to sink. A nil sink
// disables event emission.
func NewBaseActivities(sink events.EventSink) BaseActivities {
	return BaseActivities{eventSink: sink}
}

type localRunKey struct{}

// WithLocalRun tags ctx with a run ID reported by ExecutionInfo when the
// activity runs outside Temporal. Local executions use it so their events
// get distinct idempotency keys.
func WithLocalRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, localRunKey{}, runID)
}

// ExecutionInfo extracts execution metadata from ctx. Outside a Temporal
// activity context it reports LocalWorkflowID and the run ID set by
// WithLocalRun, or a fresh one.
func (b *BaseActivities) ExecutionInfo(ctx context.Context) ExecutionInfo {
	var info ExecutionInfo

	func() {
		defer func() {
			if r := recover(); r != nil {
				runID, _ := ctx.Value(localRunKey{}).(string)
				if runID == "" {
					runID = uuid.NewString()
				}
				info = ExecutionInfo{
					WorkflowID: LocalWorkflowID,
					RunID:      runID,
					ActivityID: "local",
					Attempt:    1,
				}
			}
		}()

		ai := activity.GetInfo(ctx)
		info = ExecutionInfo{
			WorkflowID:   ai.WorkflowExecution.ID,
			RunID:        ai.WorkflowExecution.RunID,
			ActivityID:   ai.ActivityID,
			ActivityType: ai.ActivityType.Name,
			Attempt:      ai.Attempt,
		}
	}()

	return info
}

// EmitEventSafe emits envelope without ever failing the caller. It makes up
// to 2 attempts 200ms apart and logs the outcome.
func (b *BaseActivities) EmitEventSafe(ctx context.Context, envelope events.Envelope, description string) {
	if b.eventSink == nil {
		return
	}

	const maxAttempts = 2
	const retryDelay = 200 * time.Millisecond

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				SafeLogError(ctx, fmt.Sprintf("Event emission cancelled: %s", description),
					"event_type", envelope.Type)
				return
			}
		}

		if err := b.eventSink.Append(ctx, envelope); err != nil {
			lastErr = err
			continue
		}

		SafeLog(ctx, fmt.Sprintf("Event emitted: %s", description),
			"event_type", envelope.Type,
			"idempotency_key", envelope.IdempotencyKey)
		return
	}

	SafeLogError(ctx, fmt.Sprintf("Failed to emit %s after %d attempts", description, maxAttempts),
		"event_type", envelope.Type,
		"error", lastErr)
}

// SafeLog logs at INFO through the activity logger. Outside an activity
// context the call is ignored.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError is SafeLog at ERROR level.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}
