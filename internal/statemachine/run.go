package statemachine

import (
	"fmt"
	"time"
)

// maxTransitions bounds a single execution so a looping definition fails
// instead of running forever.
const maxTransitions = 1000

// Executor performs the side effects of task and wait states. It is the single
// invocable-task contract every task resource is reached through.
type Executor interface {
	// Invoke runs the task resource with input and returns its output.
	Invoke(resource string, input Data) (Data, error)

	// Wait suspends the execution for d.
	Wait(d time.Duration) error
}

// Execution is the outcome of a completed run.
type Execution struct {
	// Output is the working data after the terminal state.
	Output Data

	// Path lists the states entered, in order.
	Path []string
}

// StateHook observes each state as it is entered.
type StateHook func(s State, data Data)

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	hooks []StateHook
}

// WithStateHook registers fn to be called on every state entry.
func WithStateHook(fn StateHook) RunOption {
	return func(c *runConfig) { c.hooks = append(c.hooks, fn) }
}

// Run interprets the definition from StartAt until a terminal state
// completes. Task outputs replace the working data; wait and choice states
// pass it through unchanged. The partial path is returned with any error.
func (d *Definition) Run(exec Executor, input Data, opts ...RunOption) (*Execution, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &Execution{}
	data := input.Clone()
	if data == nil {
		data = Data{}
	}
	name := d.StartAt

	for range maxTransitions {
		st, ok := d.State(name)
		if !ok {
			return result, fmt.Errorf("%w %q", ErrUnknownState, name)
		}
		result.Path = append(result.Path, st.Name)
		for _, hook := range cfg.hooks {
			hook(st, data)
		}

		switch st.Type {
		case StateTask:
			out, err := exec.Invoke(st.Resource, data)
			if err != nil {
				return result, &TaskError{State: st.Name, Resource: st.Resource, Err: err}
			}
			data = out
		case StateWait:
			if err := exec.Wait(st.Duration); err != nil {
				return result, fmt.Errorf("wait state %s: %w", st.Name, err)
			}
		case StateChoice:
			next, err := EvaluateChoice(st, data)
			if err != nil {
				return result, err
			}
			name = next
			continue
		default:
			return result, fmt.Errorf("state %q has unknown type %q", st.Name, st.Type)
		}

		if st.Terminal() {
			result.Output = data
			return result, nil
		}
		name = st.Next
	}

	return result, fmt.Errorf("%w after %d transitions", ErrTransitionLimit, maxTransitions)
}
