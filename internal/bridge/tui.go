package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

// Sender receives Bubble Tea messages. *tea.Program satisfies it.
type Sender interface {
	Send(tea.Msg)
}

// TUIBridge subscribes to the Hub brokers and forwards events to a program.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.RWMutex
	sessionFilter string // Only forward generation events for this session
}

// TUIBridgeOption configures the TUIBridge.
type TUIBridgeOption func(*TUIBridge)

// WithSessionFilter only forwards generation events for the specified session.
func WithSessionFilter(sessionID string) TUIBridgeOption {
	return func(b *TUIBridge) {
		b.sessionFilter = sessionID
	}
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender, opts ...TUIBridgeOption) *TUIBridge {
	b := &TUIBridge{
		hub:     hub,
		program: program,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	// Subscribe before returning so no event published after Start is missed.
	generation := b.hub.Generation.Subscribe(b.ctx)
	material := b.hub.Material.Subscribe(b.ctx)

	b.wg.Add(2)
	go b.forwardGeneration(generation)
	go b.forwardMaterial(material)

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

func (b *TUIBridge) forwardGeneration(sub <-chan pubsub.Event[events.GenerationEvent]) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}

			if filter := b.filter(); filter != "" && event.Payload.SessionID != filter {
				continue
			}

			b.program.Send(GenerationEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) forwardMaterial(sub <-chan pubsub.Event[events.MaterialEvent]) {
	defer b.wg.Done()

	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}

			b.program.Send(MaterialEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) filter() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessionFilter
}

// SetSessionFilter updates the session filter at runtime.
func (b *TUIBridge) SetSessionFilter(sessionID string) {
	b.mu.Lock()
	b.sessionFilter = sessionID
	b.mu.Unlock()
}

// ClearSessionFilter removes the session filter.
func (b *TUIBridge) ClearSessionFilter() {
	b.SetSessionFilter("")
}
