package events

import (
	"context"
	"errors"
)

// FanOutSink appends every event to each of its sinks in order. A failing
// sink does not stop the others; the failures are joined.
type FanOutSink struct {
	sinks []EventSink
}

// NewFanOutSink combines sinks. Nil sinks are skipped.
func NewFanOutSink(sinks ...EventSink) *FanOutSink {
	f := &FanOutSink{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Append implements EventSink.
func (f *FanOutSink) Append(ctx context.Context, envelope Envelope) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Append(ctx, envelope); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
