package pubsub

import (
	"github.com/sahayak-app/sahayak/internal/events"
)

// Hub is the central container for all domain brokers.
type Hub struct { //nolint:govet // fieldalignment: preserving logical field order
	Generation *Broker[events.GenerationEvent]
	Material   *Broker[events.MaterialEvent]

	registry *Registry
}

// NewHub creates a new Hub with all domain brokers initialized. The
// generation broker blocks instead of dropping so that terminal events
// always reach the history recorder.
func NewHub() *Hub {
	h := &Hub{
		Generation: NewBroker("generation", WithBlockingPublish[events.GenerationEvent]()),
		Material:   NewBroker[events.MaterialEvent]("material"),
		registry:   NewRegistry(),
	}

	h.registry.Register(h.Generation)
	h.registry.Register(h.Material)

	return h
}

// Shutdown shuts down all brokers.
func (h *Hub) Shutdown() {
	h.Generation.Shutdown()
	h.Material.Shutdown()
}

// IsShutdown returns true once every broker has been shut down.
func (h *Hub) IsShutdown() bool {
	return h.Generation.IsShutdown() && h.Material.IsShutdown()
}

// Registry returns the debug registry for introspection.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}
