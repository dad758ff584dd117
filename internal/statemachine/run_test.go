package statemachine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGreaterPath(t *testing.T) {
	def := branchingDefinition(t)
	exec := newStubExecutor().
		on("generate", constant(Data{"value": 8, "target": 5})).
		on("high", echo("high")).
		on("low", echo("low"))

	result, err := def.Run(exec, Data{"seed": "ignored"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Generate", "Pause", "Decide", "High"}, result.Path)
	assert.Equal(t, []string{"generate", "high"}, exec.invoked)
	assert.Equal(t, []time.Duration{time.Second}, exec.waits)
	assert.Equal(t, Data{"value": 8, "target": 5, "handledBy": "high"}, result.Output)
}

func TestRunTieTakesLowerBranch(t *testing.T) {
	def := branchingDefinition(t)
	exec := newStubExecutor().
		on("generate", constant(Data{"value": 5, "target": 5})).
		on("high", echo("high")).
		on("low", echo("low"))

	result, err := def.Run(exec, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Generate", "Pause", "Decide", "Low"}, result.Path)
	assert.Equal(t, "low", result.Output["handledBy"])
}

func TestRunExactlyOneHandler(t *testing.T) {
	def := branchingDefinition(t)

	for value := 1; value <= 10; value++ {
		exec := newStubExecutor().
			on("generate", constant(Data{"value": value, "target": 5})).
			on("high", echo("high")).
			on("low", echo("low"))

		_, err := def.Run(exec, nil)
		require.NoError(t, err)

		handlers := 0
		for _, r := range exec.invoked {
			if r == "high" || r == "low" {
				handlers++
			}
		}
		assert.Equal(t, 1, handlers, "value=%d", value)
	}
}

func TestRunTaskOutputReplacesData(t *testing.T) {
	def := branchingDefinition(t)
	var seen Data
	exec := newStubExecutor().
		on("generate", constant(Data{"value": 2, "target": 5})).
		on("low", func(in Data) (Data, error) {
			seen = in
			return Data{"done": true}, nil
		})

	result, err := def.Run(exec, Data{"maxNumber": 10})
	require.NoError(t, err)

	assert.NotContains(t, seen, "maxNumber")
	assert.Equal(t, Data{"value": 2, "target": 5}, seen)
	assert.Equal(t, Data{"done": true}, result.Output)
}

func TestRunTaskErrorStopsExecution(t *testing.T) {
	def := branchingDefinition(t)
	boom := errors.New("boom")
	exec := newStubExecutor().on("generate", func(Data) (Data, error) { return nil, boom })

	result, err := def.Run(exec, nil)
	require.Error(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "Generate", taskErr.State)
	assert.Equal(t, "generate", taskErr.Resource)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Generate"}, result.Path)
	assert.Empty(t, exec.waits)
}

func TestRunWaitError(t *testing.T) {
	def := branchingDefinition(t)
	exec := newStubExecutor().on("generate", constant(Data{"value": 1, "target": 1}))
	exec.waitErr = context.Canceled

	_, err := def.Run(exec, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"generate"}, exec.invoked)
}

func TestRunChoiceErrorStopsExecution(t *testing.T) {
	def := branchingDefinition(t)
	exec := newStubExecutor().on("generate", constant(Data{"value": "eight", "target": 5}))

	result, err := def.Run(exec, nil)
	assert.ErrorIs(t, err, ErrNotNumeric)
	assert.Equal(t, []string{"Generate", "Pause", "Decide"}, result.Path)
}

func TestRunStateHook(t *testing.T) {
	def := branchingDefinition(t)
	exec := newStubExecutor().
		on("generate", constant(Data{"value": 9, "target": 5})).
		on("high", echo("high"))

	var entered []string
	var types []StateType
	_, err := def.Run(exec, nil, WithStateHook(func(s State, _ Data) {
		entered = append(entered, s.Name)
		types = append(types, s.Type)
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Generate", "Pause", "Decide", "High"}, entered)
	assert.Equal(t, []StateType{StateTask, StateWait, StateChoice, StateTask}, types)
}

func TestRunTransitionLimit(t *testing.T) {
	def := &Definition{
		Name:    "loop",
		StartAt: "Spin",
		Timeout: time.Minute,
		States: []State{
			{Name: "Spin", Type: StateChoice, Choices: []ChoiceRule{{Variable: "$.a", Operator: NumericEqualsPath, Path: "$.a", Next: "Spin"}}, Default: "Done"},
			{Name: "Done", Type: StateTask, Resource: "done", End: true},
		},
	}
	require.NoError(t, def.Validate())

	_, err := def.Run(newStubExecutor(), Data{"a": 1})
	assert.ErrorIs(t, err, ErrTransitionLimit)
}

func TestRunIndependentExecutions(t *testing.T) {
	def := branchingDefinition(t)
	var generated atomic.Int64

	outcomes := make(chan string, 20)
	for i := range 20 {
		go func() {
			exec := newStubExecutor().
				on("generate", func(Data) (Data, error) {
					generated.Add(1)
					return Data{"value": i % 10, "target": 5}, nil
				}).
				on("high", echo("high")).
				on("low", echo("low"))
			res, err := def.Run(exec, nil)
			if err != nil {
				outcomes <- "error"
				return
			}
			outcomes <- res.Output["handledBy"].(string)
		}()
	}

	counts := map[string]int{}
	for range 20 {
		counts[<-outcomes]++
	}
	assert.Equal(t, int64(20), generated.Load())
	assert.Equal(t, 8, counts["high"])
	assert.Equal(t, 12, counts["low"])
	assert.Zero(t, counts["error"])
}
