// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

// GenerationEventMsg wraps a generation event for the TUI.
type GenerationEventMsg struct {
	Event pubsub.Event[events.GenerationEvent]
}

// MaterialEventMsg wraps a material event for the TUI.
type MaterialEventMsg struct {
	Event pubsub.Event[events.MaterialEvent]
}
