package campaign

import (
	"context"

	"github.com/juiceai/juice-server/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use and must return
// store.ErrNotFound for absent ids.
type Repository interface {
	// Add persists a new campaign and returns the stored record with
	// its assigned id. An empty status is stored as draft.
	Add(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)

	// GetAll returns an unordered snapshot of the collection.
	GetAll(ctx context.Context) ([]domain.Campaign, error)

	// GetByID returns one campaign or store.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)

	// Update replaces the stored record and stamps a modification
	// timestamp. Strict: absent ids are an error, not an upsert.
	Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)

	// Delete removes a campaign. Deleting an absent id succeeds.
	Delete(ctx context.Context, id int64) error
}
