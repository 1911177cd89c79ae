package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
	"github.com/sahayak-app/sahayak/internal/sse"
)

// Callbacks receive the outcome of a single Start. All callbacks run on the
// stream reader goroutine, in event order, never while the session lock is
// held, so they may call back into the session. They must not call Wait,
// which returns only after the terminal callback does.
type Callbacks struct {
	OnProgress func(message string)
	OnResult   func(result artifact.Artifact)
	OnError    func(err error)
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier used in published events.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithPublisher publishes every transition to p.
func WithPublisher(p pubsub.Publisher[events.GenerationEvent]) Option {
	return func(s *Session) {
		s.publisher = p
	}
}

// WithTimeout bounds each attempt. Zero disables the watchdog.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// attempt is the cancel token issued by Start. A stream whose attempt is no
// longer current cannot mutate the session. done is closed once the
// terminal transition has been delivered to callbacks and the publisher.
type attempt struct {
	cancel context.CancelFunc
	cb     Callbacks
	done   chan struct{}
	final  State
}

// Session manages at most one in-flight generation request.
type Session struct { //nolint:govet // fieldalignment: preserving logical field order
	id        string
	transport Transport
	publisher pubsub.Publisher[events.GenerationEvent]
	timeout   time.Duration

	mu      sync.Mutex
	state   State
	current *attempt // in flight, nil unless Generating
	last    *attempt // most recent start, for Wait
	lastReq Request
	closed  bool
}

// NewSession creates an idle session that opens streams through transport.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New().String(),
		transport: transport,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start opens a stream for req and returns without waiting for it. A call
// while Generating is dropped with ErrBusy and changes nothing.
func (s *Session) Start(ctx context.Context, req Request, cb Callbacks) error {
	if err := req.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state.Status == StatusGenerating {
		s.mu.Unlock()
		debug.Event("generation", "start-dropped", fmt.Sprintf("session=%s busy", s.id))
		return ErrBusy
	}

	var (
		streamCtx context.Context
		cancel    context.CancelFunc
	)
	if s.timeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		streamCtx, cancel = context.WithCancel(ctx)
	}

	a := &attempt{cancel: cancel, cb: cb, done: make(chan struct{})}
	s.current = a
	s.last = a
	s.lastReq = req
	s.state = State{
		Status:    StatusGenerating,
		Kind:      req.Kind(),
		Scope:     req.Scope(),
		ThreadID:  req.Thread(),
		StartedAt: time.Now(),
	}
	s.mu.Unlock()

	debug.Event("generation", "start", fmt.Sprintf("session=%s kind=%s thread=%s", s.id, req.Kind(), req.Thread()))
	started := events.NewGenerationStartedEvent(s.id, req.Thread(), req.Kind())
	started.Scope = req.Scope()
	s.publish(pubsub.EventStarted, started)

	go s.run(streamCtx, a, req)
	return nil
}

// Refine starts a follow-up request on the same thread, echoing the last
// successful result with new teacher requirements.
func (s *Session) Refine(ctx context.Context, requirements string, cb Callbacks) error {
	s.mu.Lock()
	st, last := s.state, s.lastReq
	s.mu.Unlock()

	if last == nil {
		return ErrNotStarted
	}
	if st.Status != StatusSucceeded {
		return fmt.Errorf("%w: refine needs a succeeded result, session is %s", ErrInvalidRequest, st.Status)
	}

	next, err := last.Refine(st.Result, requirements)
	if err != nil {
		return err
	}
	return s.Start(ctx, next, cb)
}

// Cancel aborts the current stream. Generating becomes Cancelled; in any
// other state Cancel does nothing. It is safe to call repeatedly.
func (s *Session) Cancel() {
	s.mu.Lock()
	a, st := s.abort()
	s.mu.Unlock()

	s.finishAbort(a, st)
}

// Reset cancels any stream and returns the session to Idle, discarding
// progress, result, and error. An attempt it aborts is reported as
// cancelled before the reset.
func (s *Session) Reset() {
	s.mu.Lock()
	a, st := s.abort()
	s.state = State{}
	s.last = nil
	s.lastReq = nil
	s.mu.Unlock()

	s.finishAbort(a, st)
	debug.Event("generation", "reset", "session="+s.id)
	s.publish(pubsub.EventUpdated, events.NewGenerationResetEvent(s.id))
}

// finishAbort publishes the cancellation of an attempt detached by abort
// and releases its waiters. A nil attempt is a no-op.
func (s *Session) finishAbort(a *attempt, st State) {
	if a == nil {
		return
	}
	debug.Event("generation", "cancel", fmt.Sprintf("session=%s thread=%s", s.id, st.ThreadID))
	ev := events.NewGenerationCancelledEvent(s.id, st.ThreadID, st.Kind)
	ev.Scope = st.Scope
	s.publish(pubsub.EventCancelled, ev)
	close(a.done)
}

// Close cancels any stream and rejects further starts. Owners call it when
// they go away.
func (s *Session) Close() {
	s.Cancel()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// abort moves a Generating session to Cancelled and detaches its attempt,
// which the caller must finish by closing done. Callers hold s.mu.
func (s *Session) abort() (*attempt, State) {
	a := s.current
	if a == nil {
		return nil, s.state
	}
	s.current = nil
	a.cancel()

	s.state.Status = StatusCancelled
	s.state.FinishedAt = time.Now()
	a.final = s.state
	return a, s.state
}

// Wait blocks until the most recent attempt reaches a terminal state and
// its callbacks have returned, then reports the state with its Outcome.
func (s *Session) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	a := s.last
	s.mu.Unlock()

	if a == nil {
		return s.State(), ErrNotStarted
	}

	select {
	case <-a.done:
		return a.final, a.final.Outcome()
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

func (s *Session) run(ctx context.Context, a *attempt, req Request) {
	body, err := s.transport.Open(ctx, req)
	if err != nil {
		s.handle(a, Broken{Err: classify(ctx, err)})
		return
	}
	defer body.Close()

	dec := sse.NewDecoder(body)
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			s.handle(a, Closed{})
			return
		}
		if err != nil {
			s.handle(a, Broken{Err: classify(ctx, err)})
			return
		}
		if stop := s.handle(a, fromFrame(frame)); stop {
			return
		}
	}
}

// handle applies one event and reports whether reading should stop.
func (s *Session) handle(a *attempt, ev StreamEvent) bool {
	s.mu.Lock()
	if s.current != a {
		// Stale stream: cancelled, reset, or superseded.
		s.mu.Unlock()
		return true
	}

	next, eff := apply(s.state, ev)
	s.state = next
	terminal := next.Status.IsTerminal()
	if terminal {
		s.current = nil
		a.cancel()
		a.final = next
	}
	s.mu.Unlock()

	if u, ok := ev.(Unknown); ok {
		debug.Event("generation", "ignored", fmt.Sprintf("session=%s event=%q", s.id, u.Name))
	}

	s.deliver(a, eff, next)
	if terminal {
		close(a.done)
	}
	return terminal
}

// deliver runs the callback and publish for one transition. Progress is
// dropped once the attempt is no longer current, so nothing follows a
// Cancel or Reset that got in after the transition was applied. Terminal
// attempts are already detached and always deliver.
func (s *Session) deliver(a *attempt, eff effect, st State) {
	cb := a.cb
	switch eff {
	case effectProgress:
		if !s.isCurrent(a) {
			return
		}
		s.publishState(pubsub.EventProgress, events.NewGenerationProgressEvent(s.id, st.ThreadID, st.Kind, st.Progress), st)
		if cb.OnProgress != nil && s.isCurrent(a) {
			cb.OnProgress(st.Progress)
		}
	case effectResult:
		debug.Event("generation", "succeeded", fmt.Sprintf("session=%s kind=%s", s.id, st.Kind))
		s.publishState(pubsub.EventCompleted, events.NewGenerationSucceededEvent(s.id, st.ThreadID, st.Result), st)
		if cb.OnResult != nil {
			cb.OnResult(st.Result)
		}
	case effectError:
		debug.Error("generation", st.Err, "session "+s.id)
		s.publishState(pubsub.EventFailed, events.NewGenerationFailedEvent(s.id, st.ThreadID, st.Kind, st.Err), st)
		if cb.OnError != nil {
			cb.OnError(st.Err)
		}
	case effectNone:
	}
}

func (s *Session) isCurrent(a *attempt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == a
}

func (s *Session) publishState(t pubsub.EventType, ev events.GenerationEvent, st State) {
	ev.Scope = st.Scope
	s.publish(t, ev)
}

func (s *Session) publish(t pubsub.EventType, ev events.GenerationEvent) {
	if s.publisher != nil {
		s.publisher.Publish(t, ev)
	}
}

// classify turns a context deadline into ErrTimeout and wraps bare
// network errors as *TransportError.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var statusErr *StatusError
	var transportErr *TransportError
	if errors.As(err, &statusErr) || errors.As(err, &transportErr) {
		return err
	}
	return &TransportError{Err: err}
}
