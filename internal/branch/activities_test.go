package branch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/pkg/activity"
	"github.com/ahrav/go-numflow/pkg/events"
)

type countingRecorder map[string]int

func (c countingRecorder) BranchSelected(b string) { c[b]++ }

func TestBranchHandlers(t *testing.T) {
	tests := []struct {
		name    string
		record  domain.GeneratedNumberRecord
		greater bool
		want    domain.BranchResult
	}{
		{
			name:    "greater",
			record:  domain.GeneratedNumberRecord{GeneratedRandomNumber: 8, MaxNumber: 10, NumberToCheck: 5},
			greater: true,
			want: domain.BranchResult{
				Branch:                domain.BranchGreater,
				Message:               "8 is greater than 5",
				GeneratedRandomNumber: 8,
				MaxNumber:             10,
				NumberToCheck:         5,
			},
		},
		{
			name:   "tie",
			record: domain.GeneratedNumberRecord{GeneratedRandomNumber: 5, MaxNumber: 10, NumberToCheck: 5},
			want: domain.BranchResult{
				Branch:                domain.BranchLessOrEqual,
				Message:               "5 is less than or equal to 5",
				GeneratedRandomNumber: 5,
				MaxNumber:             10,
				NumberToCheck:         5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts testsuite.WorkflowTestSuite
			env := ts.NewTestActivityEnvironment()

			sink := events.NewMemorySink()
			rec := countingRecorder{}
			a := NewActivities(activity.NewBaseActivities(sink), rec)
			env.RegisterActivity(a.NumberGreaterThan)
			env.RegisterActivity(a.NumberLessOrEqual)

			handler := a.NumberLessOrEqual
			if tt.greater {
				handler = a.NumberGreaterThan
			}

			val, err := env.ExecuteActivity(handler, tt.record)
			require.NoError(t, err)

			var got domain.BranchResult
			require.NoError(t, val.Get(&got))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, countingRecorder{tt.want.Branch.String(): 1}, rec)

			emitted := sink.EventsOfType(domain.EventBranchSelected.String())
			require.Len(t, emitted, 1)
			var payload domain.BranchSelectedEvent
			require.NoError(t, json.Unmarshal(emitted[0].Payload, &payload))
			assert.Equal(t, tt.want.Branch, payload.Branch)
		})
	}
}

func TestBranchHandlersRejectInvalidRecord(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	a := NewActivities(activity.NewBaseActivities(nil), nil)
	env.RegisterActivity(a.NumberGreaterThan)

	_, err := env.ExecuteActivity(a.NumberGreaterThan,
		domain.GeneratedNumberRecord{GeneratedRandomNumber: 11, MaxNumber: 10, NumberToCheck: 5})
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Validation", appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestBranchHandlersArePure(t *testing.T) {
	a := NewActivities(activity.NewBaseActivities(nil), nil)
	record := domain.GeneratedNumberRecord{GeneratedRandomNumber: 3, MaxNumber: 10, NumberToCheck: 5}

	first, err := a.NumberLessOrEqual(context.Background(), record)
	require.NoError(t, err)
	second, err := a.NumberLessOrEqual(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "3 is less than or equal to 5", first.Message)
}
