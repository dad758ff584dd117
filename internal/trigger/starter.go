package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/workflow"
)

// Starter starts one execution. It is the only capability the trigger holds.
type Starter interface {
	StartExecution(ctx context.Context, in domain.ExecutionInput) (domain.ExecutionRef, error)
}

// WorkflowStarter is the subset of client.Client the TemporalStarter uses.
type WorkflowStarter interface {
	ExecuteWorkflow(
		ctx context.Context,
		options client.StartWorkflowOptions,
		workflow any,
		args ...any,
	) (client.WorkflowRun, error)
}

// TemporalOptions binds a TemporalStarter to a task queue.
type TemporalOptions struct {
	TaskQueue        string
	IDPrefix         string
	ExecutionTimeout time.Duration
}

// TemporalStarter starts randomNumberStateMachine executions and nothing else.
type TemporalStarter struct {
	client WorkflowStarter
	opts   TemporalOptions
}

// NewTemporalStarter creates a starter; empty options take package defaults.
func NewTemporalStarter(c WorkflowStarter, opts TemporalOptions) *TemporalStarter {
	if opts.TaskQueue == "" {
		opts.TaskQueue = workflow.DefaultTaskQueue
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = "random-number"
	}
	if opts.ExecutionTimeout <= 0 {
		opts.ExecutionTimeout = workflow.ExecutionTimeout
	}
	return &TemporalStarter{client: c, opts: opts}
}

// StartExecution starts a new execution with a unique workflow ID. It returns
// once Temporal has accepted the start request.
func (s *TemporalStarter) StartExecution(ctx context.Context, in domain.ExecutionInput) (domain.ExecutionRef, error) {
	opts := client.StartWorkflowOptions{
		ID:                       s.opts.IDPrefix + "-" + uuid.NewString(),
		TaskQueue:                s.opts.TaskQueue,
		WorkflowExecutionTimeout: s.opts.ExecutionTimeout,
	}

	run, err := s.client.ExecuteWorkflow(ctx, opts, workflow.Name, in)
	if err != nil {
		return domain.ExecutionRef{}, fmt.Errorf("start %s: %w", workflow.Name, err)
	}
	return domain.ExecutionRef{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}
