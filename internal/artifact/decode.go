package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// New returns an empty artifact of the given kind.
func New(kind Kind) (Artifact, error) {
	switch kind {
	case KindAnswer:
		return &Answer{}, nil
	case KindActivities:
		return &Activities{}, nil
	case KindQuestionPrompts:
		return &QuestionPrompts{}, nil
	case KindVideo:
		return &Video{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Decode parses and validates a payload of the given kind.
func Decode(kind Kind, data []byte) (Artifact, error) {
	a, err := New(kind)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)

	// Answers are sometimes sent as a bare JSON string.
	if ans, ok := a.(*Answer); ok && len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &ans.Text); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", kind, err)
		}
	} else if err := json.Unmarshal(trimmed, a); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Encode serializes an artifact to its canonical JSON form.
func Encode(a Artifact) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", a.Kind(), err)
	}
	return data, nil
}
