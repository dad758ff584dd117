package trigger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/statemachine"
	"github.com/ahrav/go-numflow/pkg/activity"
)

// LocalResult is reported for every finished local execution.
type LocalResult struct {
	Ref       domain.ExecutionRef
	Execution *statemachine.Execution
	Err       error
}

// LocalStarter runs executions in-process on background goroutines.
// StartExecution returns as soon as the goroutine is scheduled.
type LocalStarter struct {
	def    *statemachine.Definition
	tasks  map[string]statemachine.TaskFunc
	base   context.Context
	logger *slog.Logger
	done   func(LocalResult)
	wg     sync.WaitGroup
}

// NewLocalStarter creates a LocalStarter. Executions inherit base, so
// cancelling it stops in-flight waits. done may be nil.
func NewLocalStarter(
	base context.Context,
	def *statemachine.Definition,
	tasks map[string]statemachine.TaskFunc,
	logger *slog.Logger,
	done func(LocalResult),
) *LocalStarter {
	if done == nil {
		done = func(LocalResult) {}
	}
	return &LocalStarter{def: def, tasks: tasks, base: base, logger: logger, done: done}
}

// StartExecution schedules one execution and returns its reference.
func (s *LocalStarter) StartExecution(_ context.Context, in domain.ExecutionInput) (domain.ExecutionRef, error) {
	input, err := statemachine.DataFrom(in)
	if err != nil {
		return domain.ExecutionRef{}, err
	}

	ref := domain.ExecutionRef{
		WorkflowID: "local-" + uuid.NewString(),
		RunID:      uuid.NewString(),
	}
	logger := s.logger.With("workflow_id", ref.WorkflowID)

	s.wg.Go(func() {
		ctx := activity.WithLocalRun(s.base, ref.RunID)
		exec, err := s.def.RunLocal(ctx, s.tasks, input, statemachine.WithStateHook(
			func(st statemachine.State, _ statemachine.Data) {
				logger.Debug("entering state", "state", st.Name, "type", string(st.Type))
			},
		))
		if err != nil {
			logger.Error("local execution failed", "error", err)
		} else {
			logger.Info("local execution completed", "path", exec.Path, "output", exec.Output)
		}
		s.done(LocalResult{Ref: ref, Execution: exec, Err: err})
	})

	return ref, nil
}

// Wait blocks until every started execution has finished.
func (s *LocalStarter) Wait() {
	s.wg.Wait()
}
