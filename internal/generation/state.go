package generation

import (
	"errors"
	"fmt"
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// State is a snapshot of a Session. Result and Err are never both set.
type State struct { //nolint:govet // fieldalignment: preserving logical field order
	Status     Status
	Kind       artifact.Kind
	Scope      artifact.Scope
	ThreadID   string
	Progress   string
	Result     artifact.Artifact
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// ErrorMessage returns the failure text, or "" unless the status is Failed.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Outcome maps a terminal state to the error Wait reports for it.
func (s State) Outcome() error {
	switch s.Status {
	case StatusSucceeded:
		return nil
	case StatusFailed:
		return s.Err
	case StatusCancelled:
		return ErrCancelled
	case StatusIdle:
		return ErrNotStarted
	default:
		return nil
	}
}

// effect tells the session which callback a transition triggers.
type effect int

const (
	effectNone effect = iota
	effectProgress
	effectResult
	effectError
)

// apply is the session's transition function. It only acts on a
// Generating state; every event yields at most one transition.
func apply(st State, ev StreamEvent) (State, effect) {
	if st.Status != StatusGenerating {
		return st, effectNone
	}

	switch ev := ev.(type) {
	case Progress:
		st.Progress = ev.Message
		return st, effectProgress

	case Data:
		result, err := artifact.Decode(st.Kind, ev.Payload)
		if err != nil {
			return fail(st, decodeError(err)), effectError
		}
		st.Status = StatusSucceeded
		st.Result = result
		st.FinishedAt = time.Now()
		return st, effectResult

	case ServerFailure:
		return fail(st, &ServerError{Message: ev.Message}), effectError

	case Closed:
		return fail(st, ErrStreamClosed), effectError

	case Broken:
		return fail(st, ev.Err), effectError

	default:
		// Unknown event names are ignored for forward compatibility.
		return st, effectNone
	}
}

func fail(st State, err error) State {
	st.Status = StatusFailed
	st.Result = nil
	st.Err = err
	st.FinishedAt = time.Now()
	return st
}

// decodeError keeps schema violations visible but hides syntax errors that
// would echo malformed payload bytes. Schema messages name fields, never
// values.
func decodeError(err error) error {
	if errors.Is(err, artifact.ErrInvalid) {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ErrDecode
}
