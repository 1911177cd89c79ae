// Package artifact defines the typed results produced by generation
// endpoints and validates them at the decode boundary.
package artifact

import (
	"errors"
	"fmt"
)

// Kind identifies an artifact type.
type Kind string

// Artifact kinds.
const (
	KindAnswer          Kind = "answer"
	KindActivities      Kind = "activities"
	KindQuestionPrompts Kind = "question_prompts"
	KindVideo           Kind = "video"
)

// Kinds lists every known artifact kind.
var Kinds = []Kind{KindAnswer, KindActivities, KindQuestionPrompts, KindVideo}

// ErrInvalid is returned when a payload parses but violates its schema.
var ErrInvalid = errors.New("invalid artifact")

// ErrUnknownKind is returned for a kind outside Kinds.
var ErrUnknownKind = errors.New("unknown artifact kind")

// Artifact is a decoded generation result.
type Artifact interface {
	Kind() Kind
	// Validate reports schema violations wrapped in ErrInvalid.
	Validate() error
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	return string(k)
}

// PreviousField is the request field that echoes a prior result of this
// kind back to the server when regenerating.
func (k Kind) PreviousField() string {
	switch k {
	case KindAnswer:
		return "previous_answer"
	case KindActivities:
		return "previous_activities"
	case KindQuestionPrompts:
		return "previous_question_prompts"
	case KindVideo:
		return "previous_video"
	default:
		return "previous_result"
	}
}

// Slug is the path segment used by the class-materials endpoints.
func (k Kind) Slug() string {
	switch k {
	case KindQuestionPrompts:
		return "question-prompts"
	default:
		return string(k)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
