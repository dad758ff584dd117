package statemachine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderProducesTopology(t *testing.T) {
	def := branchingDefinition(t)

	assert.Equal(t, "branching", def.Name)
	assert.Equal(t, "Generate", def.StartAt)
	assert.Equal(t, time.Minute, def.Timeout)
	require.Len(t, def.States, 5)

	decide, ok := def.State("Decide")
	require.True(t, ok)
	assert.Equal(t, StateChoice, decide.Type)
	require.Len(t, decide.Choices, 2)
	assert.Equal(t, NumericGreaterThanPath, decide.Choices[0].Operator)
	assert.Equal(t, "High", decide.Choices[0].Next)
	assert.Equal(t, NumericLessThanEqualsPath, decide.Choices[1].Operator)
	assert.Equal(t, "Low", decide.Choices[1].Next)
	assert.Equal(t, "Low", decide.Default)

	pause, ok := def.State("Pause")
	require.True(t, ok)
	assert.Equal(t, time.Second, pause.Duration)
	assert.Equal(t, "Decide", pause.Next)
}

func TestBuilderDuplicateState(t *testing.T) {
	_, err := NewBuilder("dup").
		Timeout(time.Minute).
		Task("A", "a").Next("A").
		Task("A", "a").End().
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Contains(t, err.Error(), `duplicate state "A"`)
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantMsg string
	}{
		{
			name:    "missing start",
			def:     Definition{Name: "x", Timeout: time.Second, StartAt: "Nope", States: []State{{Name: "A", Type: StateTask, Resource: "a", End: true}}},
			wantMsg: "startAt",
		},
		{
			name:    "no timeout",
			def:     Definition{Name: "x", StartAt: "A", States: []State{{Name: "A", Type: StateTask, Resource: "a", End: true}}},
			wantMsg: "timeout must be positive",
		},
		{
			name:    "dangling next",
			def:     Definition{Name: "x", Timeout: time.Second, StartAt: "A", States: []State{{Name: "A", Type: StateTask, Resource: "a", Next: "B"}}},
			wantMsg: `next: unknown state "B"`,
		},
		{
			name: "choice without default",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "C", States: []State{
				{Name: "C", Type: StateChoice, Choices: []ChoiceRule{{Variable: "$.a", Operator: NumericEqualsPath, Path: "$.b", Next: "A"}}},
				{Name: "A", Type: StateTask, Resource: "a", End: true},
			}},
			wantMsg: "requires a default",
		},
		{
			name: "bad operator",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "C", States: []State{
				{Name: "C", Type: StateChoice, Default: "A", Choices: []ChoiceRule{{Variable: "$.a", Operator: "Roughly", Path: "$.b", Next: "A"}}},
				{Name: "A", Type: StateTask, Resource: "a", End: true},
			}},
			wantMsg: `unknown operator "Roughly"`,
		},
		{
			name: "bad path",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "C", States: []State{
				{Name: "C", Type: StateChoice, Default: "A", Choices: []ChoiceRule{{Variable: "a", Operator: NumericEqualsPath, Path: "$.b", Next: "A"}}},
				{Name: "A", Type: StateTask, Resource: "a", End: true},
			}},
			wantMsg: `invalid variable path "a"`,
		},
		{
			name: "unreachable state",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "A", States: []State{
				{Name: "A", Type: StateTask, Resource: "a", End: true},
				{Name: "B", Type: StateTask, Resource: "b", End: true},
			}},
			wantMsg: `state "B" is unreachable`,
		},
		{
			name: "no terminal",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "A", States: []State{
				{Name: "A", Type: StateWait, Duration: time.Second, Next: "A"},
			}},
			wantMsg: "at least one terminal state",
		},
		{
			name:    "task without resource",
			def:     Definition{Name: "x", Timeout: time.Second, StartAt: "A", States: []State{{Name: "A", Type: StateTask, End: true}}},
			wantMsg: "requires a resource",
		},
		{
			name: "terminal wait",
			def: Definition{Name: "x", Timeout: time.Second, StartAt: "W", States: []State{
				{Name: "W", Type: StateWait, Duration: time.Second, End: true},
			}},
			wantMsg: "cannot be terminal",
		},
		{
			name:    "unknown type",
			def:     Definition{Name: "x", Timeout: time.Second, StartAt: "A", States: []State{{Name: "A", Type: "Parallel", End: true}}},
			wantMsg: `unknown type "Parallel"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDefinitionValidateReportsAllProblems(t *testing.T) {
	def := Definition{StartAt: "A", States: []State{{Name: "A", Type: StateTask, Next: "B"}}}
	err := def.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "timeout must be positive")
	assert.Contains(t, msg, "requires a resource")
	assert.Contains(t, msg, `unknown state "B"`)
}

func TestYAMLRoundTrip(t *testing.T) {
	def := branchingDefinition(t)

	raw, err := def.EncodeYAML()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "duration: 1s")
	assert.Contains(t, string(raw), "operator: NumericGreaterThanPath")

	decoded, err := DecodeYAML(raw)
	require.NoError(t, err)
	assert.Equal(t, def, decoded)
}

func TestDecodeYAMLRejectsInvalid(t *testing.T) {
	_, err := DecodeYAML([]byte("name: broken\nstartAt: A\ntimeout: 1m\nstates: []\n"))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestMermaid(t *testing.T) {
	out := branchingDefinition(t).Mermaid()

	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "start((start)) --> Generate")
	assert.Contains(t, out, `Generate[["Generate <br/> generate"]]`)
	assert.Contains(t, out, `Pause(["Pause <br/> 1s"])`)
	assert.Contains(t, out, `Decide{"Decide"}`)
	assert.Contains(t, out, `Decide -- "$.value > $.target" --> High`)
	assert.Contains(t, out, `Decide -- "$.value <= $.target" --> Low`)
	assert.Contains(t, out, `Decide -. "default" .-> Low`)
	assert.Contains(t, out, "High --> finish((end))")
}
