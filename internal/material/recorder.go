package material

import (
	"context"

	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

// Recorder saves every successful generation it observes.
type Recorder struct {
	service *Service
	onSaved func(*Material, error)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// OnSaved is called after each save attempt.
func OnSaved(fn func(*Material, error)) RecorderOption {
	return func(r *Recorder) {
		r.onSaved = fn
	}
}

// NewRecorder creates a recorder writing through service.
func NewRecorder(service *Service, opts ...RecorderOption) *Recorder {
	r := &Recorder{service: service}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes generation events until sub is closed. Buffered events are
// drained, so cancelling the subscription after a session's Wait returns
// still records its result.
func (r *Recorder) Run(ctx context.Context, sub <-chan pubsub.Event[events.GenerationEvent]) {
	for ev := range sub {
		if ev.Type != pubsub.EventCompleted || ev.Payload.Result == nil {
			continue
		}

		p := ev.Payload
		// Saving must outlive the subscription context.
		m, err := r.service.Record(context.WithoutCancel(ctx), p.SessionID, p.ThreadID, p.Scope, p.Result)
		if err != nil {
			debug.Error("material", err, "recording "+p.ThreadID)
		}
		if r.onSaved != nil {
			r.onSaved(m, err)
		}
	}
}
