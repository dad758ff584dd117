// Package worker wires the random-number workflow and its activities into a
// Temporal worker, or into an in-process task table for local runs.
package worker

import (
	"go.temporal.io/sdk/activity"
	sdkworkflow "go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-numflow/internal/branch"
	"github.com/ahrav/go-numflow/internal/generation"
	"github.com/ahrav/go-numflow/internal/statemachine"
	"github.com/ahrav/go-numflow/internal/workflow"
	pkgactivity "github.com/ahrav/go-numflow/pkg/activity"
	"github.com/ahrav/go-numflow/pkg/events"
)

// Registrar is the registration subset of a Temporal worker.
type Registrar interface {
	RegisterWorkflowWithOptions(w any, options sdkworkflow.RegisterOptions)
	RegisterActivityWithOptions(a any, options activity.RegisterOptions)
}

// Recorder receives activity metrics.
type Recorder interface {
	generation.Recorder
	branch.Recorder
}

// Deps are the shared dependencies of every activity.
type Deps struct {
	EventSink events.EventSink
	Recorder  Recorder
	Source    generation.SourceFactory
	Workflow  workflow.Options
}

// Activities groups the activity implementations built from Deps.
type Activities struct {
	Generation *generation.Activities
	Branch     *branch.Activities
}

// NewActivities builds the activity sets.
func NewActivities(deps Deps) Activities {
	sink := deps.EventSink
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}
	base := pkgactivity.NewBaseActivities(sink)

	genOpts := []generation.Option{}
	if deps.Source != nil {
		genOpts = append(genOpts, generation.WithSourceFactory(deps.Source))
	}
	var branchRecorder branch.Recorder
	if deps.Recorder != nil {
		genOpts = append(genOpts, generation.WithRecorder(deps.Recorder))
		branchRecorder = deps.Recorder
	}

	return Activities{
		Generation: generation.NewActivities(base, genOpts...),
		Branch:     branch.NewActivities(base, branchRecorder),
	}
}

// RegisterAll registers the workflow and every activity under the names the
// definition refers to. Call once during worker startup.
func RegisterAll(r Registrar, deps Deps) {
	acts := NewActivities(deps)
	sm := workflow.New(deps.Workflow)

	r.RegisterWorkflowWithOptions(sm.Run, sdkworkflow.RegisterOptions{Name: workflow.Name})

	r.RegisterActivityWithOptions(acts.Generation.GenerateRandomNumber,
		activity.RegisterOptions{Name: workflow.ActivityGenerateRandomNumber})
	r.RegisterActivityWithOptions(acts.Branch.NumberGreaterThan,
		activity.RegisterOptions{Name: workflow.ActivityNumberGreaterThan})
	r.RegisterActivityWithOptions(acts.Branch.NumberLessOrEqual,
		activity.RegisterOptions{Name: workflow.ActivityNumberLessOrEqual})
}

// Tasks returns the same activities as in-process tasks keyed by resource
// name, for statemachine.Definition.RunLocal.
func Tasks(deps Deps) map[string]statemachine.TaskFunc {
	acts := NewActivities(deps)
	return map[string]statemachine.TaskFunc{
		workflow.ActivityGenerateRandomNumber: statemachine.Typed(acts.Generation.GenerateRandomNumber),
		workflow.ActivityNumberGreaterThan:    statemachine.Typed(acts.Branch.NumberGreaterThan),
		workflow.ActivityNumberLessOrEqual:    statemachine.Typed(acts.Branch.NumberLessOrEqual),
	}
}
