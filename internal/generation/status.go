// Package generation drives streaming AI-content generation requests
// against the Sahayak API and exposes their progress and outcome.
package generation

// Status is the lifecycle state of a Session.
type Status int

// Session statuses.
const (
	StatusIdle Status = iota
	StatusGenerating
	StatusSucceeded
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusGenerating:
		return "generating"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further stream events are expected.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}
