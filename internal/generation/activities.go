package generation

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-numflow/internal/domain"
	"github.com/ahrav/go-numflow/pkg/activity"
)

// Source draws integers in [0, n).
type Source interface {
	IntN(n int) int
}

// SourceFactory returns a fresh Source for one invocation.
type SourceFactory func() (Source, error)

// NewSeededSource returns a ChaCha8 generator seeded from crypto/rand, so
// concurrent invocations never share generator state.
func NewSeededSource() (Source, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return rand.New(rand.NewChaCha8(seed)), nil
}

// FixedSource always draws the same value, clamped to n-1 when out of
// range. Draw(FixedSource(v), max) yields v+1.
type FixedSource int

// IntN implements Source.
func (f FixedSource) IntN(n int) int {
	v := int(f)
	if v < 0 || v >= n {
		return n - 1
	}
	return v
}

// Recorder observes generated numbers.
type Recorder interface {
	NumberGenerated(maxNumber, value int)
}

type noopRecorder struct{}

func (noopRecorder) NumberGenerated(int, int) {}

// Option configures Activities.
type Option func(*Activities)

// WithSourceFactory replaces the crypto-seeded source.
func WithSourceFactory(f SourceFactory) Option {
	return func(a *Activities) { a.newSource = f }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Activities) { a.recorder = r }
}

// Activities holds the GenerateRandomNumber activity and its dependencies.
type Activities struct {
	activity.BaseActivities
	newSource SourceFactory
	recorder  Recorder
	events    *EventEmitter
}

// NewActivities creates generation activities.
func NewActivities(base activity.BaseActivities, opts ...Option) *Activities {
	a := &Activities{
		BaseActivities: base,
		newSource:      NewSeededSource,
		recorder:       noopRecorder{},
		events:         NewEventEmitter(base),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Draw returns a number in [1, maxNumber] from src.
func Draw(src Source, maxNumber int) (int, error) {
	if maxNumber <= 0 {
		return 0, &Error{
			Type:    ErrorValidation,
			Message: fmt.Sprintf("maxNumber must be positive, got %d", maxNumber),
			Cause:   domain.ErrInvalidInput,
		}
	}
	n := src.IntN(maxNumber) + 1
	if n < 1 || n > maxNumber {
		return 0, &Error{
			Type:    ErrorInternal,
			Message: fmt.Sprintf("draw %d outside [1, %d]", n, maxNumber),
		}
	}
	return n, nil
}

// GenerateRandomNumber draws a number uniformly from [1, maxNumber] and
// returns it with maxNumber and the parsed comparison target.
//
// Invalid input (non-positive maxNumber, non-decimal numberToCheck) fails
// with a non-retryable application error of type "Validation".
func (a *Activities) GenerateRandomNumber(
	ctx context.Context,
	input domain.ExecutionInput,
) (*domain.GeneratedNumberRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("Validation", err, "invalid execution input")
	}
	target, err := input.ParseNumberToCheck()
	if err != nil {
		return nil, nonRetryable("Validation", err, "invalid numberToCheck")
	}

	info := a.ExecutionInfo(ctx)
	activity.SafeLog(ctx, "Generating random number",
		"workflow_id", info.WorkflowID,
		"max_number", input.MaxNumber,
		"number_to_check", input.NumberToCheck)

	src, err := a.newSource()
	if err != nil {
		return nil, retryable("Source", &Error{
			Type:      ErrorSource,
			Message:   "seed random source",
			Cause:     err,
			Retryable: true,
		}, "random source unavailable")
	}

	n, err := Draw(src, input.MaxNumber)
	if err != nil {
		return nil, nonRetryable("Internal", err, "draw failed")
	}

	record := &domain.GeneratedNumberRecord{
		GeneratedRandomNumber: n,
		MaxNumber:             input.MaxNumber,
		NumberToCheck:         target,
	}
	if err := record.Validate(); err != nil {
		return nil, nonRetryable("Internal", err, "invalid generated record")
	}

	a.recorder.NumberGenerated(record.MaxNumber, record.GeneratedRandomNumber)
	a.events.EmitNumberGenerated(ctx, *record, info)

	activity.SafeLog(ctx, "Generated random number",
		"generated_random_number", record.GeneratedRandomNumber,
		"number_to_check", record.NumberToCheck)

	return record, nil
}

// nonRetryable wraps an error as a Temporal non-retryable application error.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// retryable wraps an error as a Temporal retryable application error.
func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
