package events

import (
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// MaterialEventType represents stored-material event types.
type MaterialEventType string

// Material event type constants.
const (
	MaterialEventSaved     MaterialEventType = "saved"
	MaterialEventPublished MaterialEventType = "published"
	MaterialEventDeleted   MaterialEventType = "deleted"
)

// MaterialEvent is published when a generated artifact is stored locally
// or handed to the server's class-materials endpoint.
type MaterialEvent struct {
	MaterialID string
	ThreadID   string
	Kind       artifact.Kind
	Type       MaterialEventType
	Timestamp  time.Time
}

// NewMaterialSavedEvent creates a saved event.
func NewMaterialSavedEvent(id, threadID string, kind artifact.Kind) MaterialEvent {
	return MaterialEvent{
		MaterialID: id,
		ThreadID:   threadID,
		Kind:       kind,
		Type:       MaterialEventSaved,
		Timestamp:  time.Now(),
	}
}

// NewMaterialPublishedEvent creates a published event.
func NewMaterialPublishedEvent(id string, kind artifact.Kind) MaterialEvent {
	return MaterialEvent{
		MaterialID: id,
		Kind:       kind,
		Type:       MaterialEventPublished,
		Timestamp:  time.Now(),
	}
}

// NewMaterialDeletedEvent creates a deleted event.
func NewMaterialDeletedEvent(id string) MaterialEvent {
	return MaterialEvent{
		MaterialID: id,
		Type:       MaterialEventDeleted,
		Timestamp:  time.Now(),
	}
}
