// Package events defines domain-specific event types for the pub/sub system.
package events

import (
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// GenerationEventType represents generation session event types.
type GenerationEventType string

// Generation event type constants.
const (
	GenerationEventStarted   GenerationEventType = "started"
	GenerationEventProgress  GenerationEventType = "progress"
	GenerationEventSucceeded GenerationEventType = "succeeded"
	GenerationEventFailed    GenerationEventType = "failed"
	GenerationEventCancelled GenerationEventType = "cancelled"
	GenerationEventReset     GenerationEventType = "reset"
)

// GenerationEvent is published on every session state transition.
type GenerationEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	SessionID string
	ThreadID  string
	Kind      artifact.Kind
	Scope     artifact.Scope
	Type      GenerationEventType
	Timestamp time.Time

	// Payload fields (only one populated per event type)
	Progress string            // For Progress
	Result   artifact.Artifact // For Succeeded
	Error    error             // For Failed
}

// IsTerminal reports whether the event ends a generation attempt.
func (e GenerationEvent) IsTerminal() bool {
	switch e.Type {
	case GenerationEventSucceeded, GenerationEventFailed, GenerationEventCancelled:
		return true
	default:
		return false
	}
}

// NewGenerationStartedEvent creates a started event.
func NewGenerationStartedEvent(sessionID, threadID string, kind artifact.Kind) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		ThreadID:  threadID,
		Kind:      kind,
		Type:      GenerationEventStarted,
		Timestamp: time.Now(),
	}
}

// NewGenerationProgressEvent creates a progress event.
func NewGenerationProgressEvent(sessionID, threadID string, kind artifact.Kind, progress string) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		ThreadID:  threadID,
		Kind:      kind,
		Type:      GenerationEventProgress,
		Progress:  progress,
		Timestamp: time.Now(),
	}
}

// NewGenerationSucceededEvent creates a succeeded event.
func NewGenerationSucceededEvent(sessionID, threadID string, result artifact.Artifact) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		ThreadID:  threadID,
		Kind:      result.Kind(),
		Type:      GenerationEventSucceeded,
		Result:    result,
		Timestamp: time.Now(),
	}
}

// NewGenerationFailedEvent creates a failed event.
func NewGenerationFailedEvent(sessionID, threadID string, kind artifact.Kind, err error) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		ThreadID:  threadID,
		Kind:      kind,
		Type:      GenerationEventFailed,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// NewGenerationCancelledEvent creates a cancelled event.
func NewGenerationCancelledEvent(sessionID, threadID string, kind artifact.Kind) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		ThreadID:  threadID,
		Kind:      kind,
		Type:      GenerationEventCancelled,
		Timestamp: time.Now(),
	}
}

// NewGenerationResetEvent creates a reset event.
func NewGenerationResetEvent(sessionID string) GenerationEvent {
	return GenerationEvent{
		SessionID: sessionID,
		Type:      GenerationEventReset,
		Timestamp: time.Now(),
	}
}
