// Package material keeps a local history of generated artifacts and hands
// reviewed ones to the server's class-materials endpoints.
package material

import (
	"context"
	"errors"
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// ErrNotFound is returned when a material does not exist.
var ErrNotFound = errors.New("material not found")

// Material is one stored generation result.
type Material struct { //nolint:govet // fieldalignment: preserving logical field order
	ID        string
	Kind      artifact.Kind
	ThreadID  string
	SessionID string
	Scope     artifact.Scope
	Payload   artifact.Artifact
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind     artifact.Kind
	ThreadID string
	TopicID  string
	Limit    int
}

// Store persists materials.
type Store interface {
	// Save inserts m, assigning CreatedAt and UpdatedAt.
	Save(ctx context.Context, m *Material) error

	// Get retrieves a material by ID, or an ID prefix of at least 4
	// characters when it is unambiguous.
	Get(ctx context.Context, id string) (*Material, error)

	// List returns materials newest first.
	List(ctx context.Context, f Filter) ([]*Material, error)

	// MarkPublished records that the material was saved on the server.
	MarkPublished(ctx context.Context, id string) error

	// Delete removes a material by ID.
	Delete(ctx context.Context, id string) error
}
