package material

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/debug"
	"github.com/sahayak-app/sahayak/internal/events"
	"github.com/sahayak-app/sahayak/internal/pubsub"
)

// Saver stores a class material on the server. *api.Client implements it.
type Saver interface {
	SaveClassMaterial(ctx context.Context, topicID, dayID string, a artifact.Artifact) error
}

// Service manages stored materials with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.MaterialEvent]
}

// NewService creates a material service. broker may be nil.
func NewService(store Store, broker *pubsub.Broker[events.MaterialEvent]) *Service {
	return &Service{store: store, broker: broker}
}

// Record stores a new generation result.
func (s *Service) Record(ctx context.Context, sessionID, threadID string, scope artifact.Scope, result artifact.Artifact) (*Material, error) {
	m := &Material{
		ID:        uuid.New().String(),
		Kind:      result.Kind(),
		ThreadID:  threadID,
		SessionID: sessionID,
		Scope:     scope,
		Payload:   result,
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, err
	}

	debug.Event("material", "saved", fmt.Sprintf("id=%s kind=%s thread=%s", m.ID, m.Kind, m.ThreadID))
	if s.broker != nil {
		s.broker.Publish(pubsub.EventCompleted, events.NewMaterialSavedEvent(m.ID, m.ThreadID, m.Kind))
	}
	return m, nil
}

// Get retrieves a material by ID or unambiguous prefix.
func (s *Service) Get(ctx context.Context, id string) (*Material, error) {
	return s.store.Get(ctx, id)
}

// List returns materials newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Material, error) {
	return s.store.List(ctx, f)
}

// Thread returns every material generated on a thread, newest first.
func (s *Service) Thread(ctx context.Context, threadID string) ([]*Material, error) {
	return s.store.List(ctx, Filter{ThreadID: threadID})
}

// Publish hands a stored material to the server's class-materials endpoint
// and marks it published.
func (s *Service) Publish(ctx context.Context, id string, saver Saver) (*Material, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Scope.HasDay() {
		return nil, fmt.Errorf("publishing %s: material has no topic and day", m.ID)
	}

	if err := saver.SaveClassMaterial(ctx, m.Scope.TopicID, m.Scope.DayID, m.Payload); err != nil {
		return nil, fmt.Errorf("publishing %s: %w", m.ID, err)
	}
	if err := s.store.MarkPublished(ctx, m.ID); err != nil {
		return nil, err
	}
	m.Published = true

	debug.Event("material", "published", "id="+m.ID)
	if s.broker != nil {
		s.broker.Publish(pubsub.EventUpdated, events.NewMaterialPublishedEvent(m.ID, m.Kind))
	}
	return m, nil
}

// Delete removes a material.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, m.ID); err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventDeleted, events.NewMaterialDeletedEvent(m.ID))
	}
	return nil
}
