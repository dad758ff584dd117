package statemachine

import (
	"context"
	"fmt"
	"time"
)

// TaskFunc is an in-process task implementation.
type TaskFunc func(ctx context.Context, input Data) (Data, error)

// Typed adapts a function over JSON-tagged structs into a TaskFunc.
func Typed[I, O any](fn func(context.Context, I) (O, error)) TaskFunc {
	return func(ctx context.Context, input Data) (Data, error) {
		var in I
		if err := input.Decode(&in); err != nil {
			return nil, err
		}
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return DataFrom(out)
	}
}

// LocalExecutor runs tasks in the calling goroutine and sleeps on real timers.
// Every operation observes ctx.
type LocalExecutor struct {
	ctx   context.Context
	tasks map[string]TaskFunc
}

// NewLocalExecutor returns an executor resolving resources from tasks.
func NewLocalExecutor(ctx context.Context, tasks map[string]TaskFunc) *LocalExecutor {
	return &LocalExecutor{ctx: ctx, tasks: tasks}
}

// Invoke implements Executor.
func (e *LocalExecutor) Invoke(resource string, input Data) (Data, error) {
	if err := e.ctx.Err(); err != nil {
		return nil, err
	}
	fn, ok := e.tasks[resource]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownResource, resource)
	}
	return fn(e.ctx, input.Clone())
}

// Wait implements Executor.
func (e *LocalExecutor) Wait(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-e.ctx.Done():
		return e.ctx.Err()
	}
}

// RunLocal interprets the definition in-process, bounded by its timeout.
func (d *Definition) RunLocal(
	ctx context.Context,
	tasks map[string]TaskFunc,
	input Data,
	opts ...RunOption,
) (*Execution, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	return d.Run(NewLocalExecutor(ctx, tasks), input, opts...)
}
