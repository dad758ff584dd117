// Package branch implements the two terminal handlers of an execution.
// Exactly one of NumberGreaterThan and NumberLessOrEqual runs, chosen by the
// branch decision, and its result becomes the execution output.
package branch

import (
	"context"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/pkg/activity"
)

// Recorder observes branch selections.
type Recorder interface {
	BranchSelected(branch string)
}

type noopRecorder struct{}

func (noopRecorder) BranchSelected(string) {}

// Activities holds both branch handlers.
type Activities struct {
	activity.BaseActivities
	recorder Recorder
	events   *EventEmitter
}

// NewActivities creates branch activities. A nil recorder disables metrics.
func NewActivities(base activity.BaseActivities, recorder Recorder) *Activities {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Activities{
		BaseActivities: base,
		recorder:       recorder,
		events:         NewEventEmitter(base),
	}
}

// NumberGreaterThan handles records whose number exceeds the target.
func (a *Activities) NumberGreaterThan(
	ctx context.Context,
	record domain.GeneratedNumberRecord,
) (*domain.BranchResult, error) {
	return a.handle(ctx, domain.BranchGreater, record)
}

// NumberLessOrEqual handles records whose number is at most the target.
func (a *Activities) NumberLessOrEqual(
	ctx context.Context,
	record domain.GeneratedNumberRecord,
) (*domain.BranchResult, error) {
	return a.handle(ctx, domain.BranchLessOrEqual, record)
}

func (a *Activities) handle(
	ctx context.Context,
	b domain.Branch,
	record domain.GeneratedNumberRecord,
) (*domain.BranchResult, error) {
	if err := record.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid generated record", "Validation", err)
	}

	info := a.ExecutionInfo(ctx)
	result := domain.NewBranchResult(b, record)

	activity.SafeLog(ctx, result.Message,
		"workflow_id", info.WorkflowID,
		"branch", b.String(),
		"generated_random_number", record.GeneratedRandomNumber,
		"number_to_check", record.NumberToCheck)

	a.recorder.BranchSelected(b.String())
	a.events.EmitBranchSelected(ctx, result, info)

	return &result, nil
}
