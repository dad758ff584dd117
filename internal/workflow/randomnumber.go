package workflow

import (
	"encoding/json"
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/internal/statemachine"
)

// QueryCurrentState returns the execution's Status.
const QueryCurrentState = "current_state"

// Default activity settings. Each activity gets a single attempt; failures
// surface as execution failures.
const (
	DefaultActivityTimeout = 3 * time.Second
	DefaultMaxAttempts     = 1
)

// Options configures the activity calls made by the workflow.
type Options struct {
	ActivityTimeout time.Duration
	MaxAttempts     int32
}

// DefaultOptions returns the settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		ActivityTimeout: DefaultActivityTimeout,
		MaxAttempts:     DefaultMaxAttempts,
	}
}

// Status is the answer to QueryCurrentState.
type Status struct {
	CurrentState string   `json:"currentState"`
	Path         []string `json:"path"`
	Completed    bool     `json:"completed"`
}

// StateMachine runs the random-number Definition on Temporal.
type StateMachine struct {
	opts Options
	def  *statemachine.Definition
}

// New returns a StateMachine using opts; zero fields fall back to defaults.
func New(opts Options) *StateMachine {
	defaults := DefaultOptions()
	if opts.ActivityTimeout <= 0 {
		opts.ActivityTimeout = defaults.ActivityTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	return &StateMachine{opts: opts, def: Definition()}
}

// RandomNumberStateMachine runs the workflow with default options.
func RandomNumberStateMachine(ctx workflow.Context, in domain.ExecutionInput) (*domain.BranchResult, error) {
	return New(DefaultOptions()).Run(ctx, in)
}

// Run generates a number, waits, and returns the output of exactly one branch
// handler. Input validation happens in the GenerateNumber activity so that
// bad input fails that state rather than the workflow start.
func (m *StateMachine) Run(ctx workflow.Context, in domain.ExecutionInput) (*domain.BranchResult, error) {
	// Bump currentVersion and branch on it whenever the topology changes.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "random-number.v", workflow.DefaultVersion, currentVersion)

	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: m.opts.ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: m.opts.MaxAttempts,
		},
	})

	status := Status{CurrentState: m.def.StartAt}
	if err := workflow.SetQueryHandler(ctx, QueryCurrentState, func() (Status, error) {
		return status, nil
	}); err != nil {
		return nil, err
	}

	input, err := statemachine.DataFrom(in)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid execution input", "Validation", err)
	}

	exec, err := m.def.Run(&executor{ctx: ctx}, input, statemachine.WithStateHook(
		func(s statemachine.State, _ statemachine.Data) {
			status.CurrentState = s.Name
			status.Path = append(status.Path, s.Name)
			logger.Info("Entering state", "state", s.Name, "type", string(s.Type))
		},
	))
	if err != nil {
		logger.Error("State machine failed", "state", status.CurrentState, "error", err)
		return nil, surfaceError(err)
	}

	var result domain.BranchResult
	if err := exec.Output.Decode(&result); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid branch output", "Output", err)
	}
	if err := result.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid branch output", "Output", err)
	}

	status.Completed = true
	logger.Info("State machine completed", "branch", result.Branch.String(), "path", exec.Path)
	return &result, nil
}

// surfaceError returns Temporal errors (activity failures, cancellation,
// timeouts) unchanged and classifies anything else as a non-retryable
// state machine failure.
func surfaceError(err error) error {
	var taskErr *statemachine.TaskError
	if errors.As(err, &taskErr) {
		return taskErr.Err
	}
	var canceled *temporal.CanceledError
	if errors.As(err, &canceled) {
		return canceled
	}
	return temporal.NewNonRetryableApplicationError("state machine failed", "StateMachine", err)
}

// executor maps task states to activities and wait states to timers.
type executor struct {
	ctx workflow.Context
}

func (e *executor) Invoke(resource string, input statemachine.Data) (statemachine.Data, error) {
	var raw json.RawMessage
	if err := workflow.ExecuteActivity(e.ctx, resource, input).Get(e.ctx, &raw); err != nil {
		return nil, err
	}
	return statemachine.DataFromJSON(raw)
}

func (e *executor) Wait(d time.Duration) error {
	return workflow.Sleep(e.ctx, d)
}
