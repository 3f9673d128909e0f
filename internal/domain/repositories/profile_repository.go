package repositories

import (
	"context"

	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/query"
)

// ProfileRepository defines the interface for profile document operations
type ProfileRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *entities.Profile) error

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id string) (*entities.Profile, error)

	// GetBySlug retrieves a profile by its public slug
	GetBySlug(ctx context.Context, slug string) (*entities.Profile, error)

	// Update updates a profile
	Update(ctx context.Context, profile *entities.Profile) error

	// Delete deletes a profile
	Delete(ctx context.Context, id string) error

	// List retrieves profiles with filters
	List(ctx context.Context, filter ProfileFilter) ([]*entities.Profile, error)

	// Sample returns a uniform random sample of size profiles. The ordering
	// is deterministic for a given seed and varies across seeds.
	Sample(ctx context.Context, seed int64, size int, activeOnly bool) ([]*entities.Profile, error)
}

// ProfileSearchRepository is the injected search capability: a single
// composed-query operation against an external full-text/geo engine, plus
// the indexing side that keeps the engine's collection in sync. The engine's
// tokenization and ranking model are its own concern.
type ProfileSearchRepository interface {
	// Execute runs one composed query and returns the ranked page together
	// with the matched total count.
	Execute(ctx context.Context, q *query.Query) (*query.Result, error)

	// Index upserts a profile into the search collection
	Index(ctx context.Context, profile *entities.Profile) error

	// Delete removes a profile from the search collection
	Delete(ctx context.Context, id string) error

	// InitSchema ensures the search collection exists
	InitSchema(ctx context.Context) error
}

// ProfileFilter defines filters for listing profiles
type ProfileFilter struct {
	County   string
	Category string
	Active   *bool
	Limit    int
	Offset   int
}
