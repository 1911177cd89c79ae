package generation

import "github.com/sahayak-app/sahayak/internal/sse"

// Wire event names.
const (
	eventProgress = "progress"
	eventData     = "data"
	eventError    = "error"
)

// StreamEvent is one input to the session state machine. It is a closed
// set: Progress, Data, ServerFailure, Unknown, Closed, Broken.
type StreamEvent interface {
	streamEvent()
}

// Progress carries a human-readable progress message.
type Progress struct{ Message string }

// Data carries the raw JSON result payload.
type Data struct{ Payload []byte }

// ServerFailure carries the text of an error event.
type ServerFailure struct{ Message string }

// Unknown is any event name the client does not understand.
type Unknown struct{ Name string }

// Closed means the stream ended cleanly.
type Closed struct{}

// Broken means the transport failed; Err is already classified.
type Broken struct{ Err error }

func (Progress) streamEvent()      {}
func (Data) streamEvent()          {}
func (ServerFailure) streamEvent() {}
func (Unknown) streamEvent()       {}
func (Closed) streamEvent()        {}
func (Broken) streamEvent()        {}

// fromFrame maps a decoded SSE frame onto a StreamEvent.
func fromFrame(frame sse.Event) StreamEvent {
	switch frame.Name {
	case eventProgress:
		return Progress{Message: frame.Data}
	case eventData:
		return Data{Payload: []byte(frame.Data)}
	case eventError:
		return ServerFailure{Message: frame.Data}
	default:
		return Unknown{Name: frame.Name}
	}
}
