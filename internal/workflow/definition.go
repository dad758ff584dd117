package workflow

import (
	"sync"
	"time"

	"github.com/ahrav/go-numflow/internal/statemachine"
)

// Registered names shared by the worker, the starters and the definition.
const (
	// Name is the workflow type name executions are started with.
	Name = "randomNumberStateMachine"

	// DefaultTaskQueue is the task queue workers poll.
	DefaultTaskQueue = "random-number-queue"

	// ActivityGenerateRandomNumber draws the random number.
	ActivityGenerateRandomNumber = "GenerateRandomNumber"

	// ActivityNumberGreaterThan handles the greater-than branch.
	ActivityNumberGreaterThan = "NumberGreaterThan"

	// ActivityNumberLessOrEqual handles the less-than-or-equal branch.
	ActivityNumberLessOrEqual = "NumberLessOrEqual"
)

// State names of the random-number topology.
const (
	StateGenerateNumber = "GenerateNumber"
	StateWait1Second    = "Wait1Second"
	StateBranchDecision = "BranchDecision"
	StateGreaterThan    = "NumberGreaterThan"
	StateLessOrEqual    = "NumberLessOrEqual"
)

// Timing of the random-number topology.
const (
	// WaitDuration is the fixed pause between generating and deciding.
	WaitDuration = time.Second

	// ExecutionTimeout bounds a whole execution.
	ExecutionTimeout = 5 * time.Minute
)

var definition = sync.OnceValues(buildDefinition)

// Definition returns the validated random-number topology:
//
//	GenerateNumber -> Wait1Second -> BranchDecision -> NumberGreaterThan | NumberLessOrEqual
//
// The "<=" rule and the default both target NumberLessOrEqual, so ties and
// any input the rules do not match resolve to that handler.
func Definition() *statemachine.Definition {
	def, err := definition()
	if err != nil {
		panic(err)
	}
	return def
}

func buildDefinition() (*statemachine.Definition, error) {
	return statemachine.NewBuilder(Name).
		StartAt(StateGenerateNumber).
		Timeout(ExecutionTimeout).
		Task(StateGenerateNumber, ActivityGenerateRandomNumber).Next(StateWait1Second).
		Wait(StateWait1Second, WaitDuration).Next(StateBranchDecision).
		Choice(StateBranchDecision).
		When(statemachine.NumberGreaterThanPath("$.generatedRandomNumber", "$.numberToCheck"), StateGreaterThan).
		When(statemachine.NumberLessThanEqualsPath("$.generatedRandomNumber", "$.numberToCheck"), StateLessOrEqual).
		Otherwise(StateLessOrEqual).
		Task(StateGreaterThan, ActivityNumberGreaterThan).End().
		Task(StateLessOrEqual, ActivityNumberLessOrEqual).End().
		Build()
}
