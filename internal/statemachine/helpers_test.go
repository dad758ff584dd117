package statemachine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// branchingDefinition mirrors a generate, wait, decide, handle topology.
func branchingDefinition(t *testing.T) *Definition {
	t.Helper()
	def, err := NewBuilder("branching").
		Timeout(time.Minute).
		Task("Generate", "generate").Next("Pause").
		Wait("Pause", time.Second).Next("Decide").
		Choice("Decide").
		When(NumberGreaterThanPath("$.value", "$.target"), "High").
		When(NumberLessThanEqualsPath("$.value", "$.target"), "Low").
		Otherwise("Low").
		Task("High", "high").End().
		Task("Low", "low").End().
		Build()
	require.NoError(t, err)
	return def
}

// stubExecutor records invocations and waits without touching real time.
type stubExecutor struct {
	mu      sync.Mutex
	tasks   map[string]func(Data) (Data, error)
	invoked []string
	waits   []time.Duration
	waitErr error
}

func newStubExecutor() *stubExecutor {
	return &stubExecutor{tasks: make(map[string]func(Data) (Data, error))}
}

func (s *stubExecutor) on(resource string, fn func(Data) (Data, error)) *stubExecutor {
	s.tasks[resource] = fn
	return s
}

func (s *stubExecutor) Invoke(resource string, input Data) (Data, error) {
	s.mu.Lock()
	s.invoked = append(s.invoked, resource)
	fn, ok := s.tasks[resource]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New("no stub for " + resource)
	}
	return fn(input)
}

func (s *stubExecutor) Wait(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return s.waitErr
}

// echo tags the data with the handler name.
func echo(name string) func(Data) (Data, error) {
	return func(in Data) (Data, error) {
		out := in.Clone()
		out["handledBy"] = name
		return out, nil
	}
}

func constant(out Data) func(Data) (Data, error) {
	return func(Data) (Data, error) { return out.Clone(), nil }
}
