package contact

import (
	"context"

	"github.com/juiceai/juice-server/internal/domain"
)

// ContactRepository defines the data access contract for contacts.
// Implementations must be safe for concurrent use and must return
// store.ErrNotFound for absent ids.
type ContactRepository interface {
	// Add persists one contact and returns the stored record with its
	// assigned id and creation timestamp.
	Add(ctx context.Context, c *domain.Contact) (*domain.Contact, error)

	// AddBatch persists the given contacts atomically: either all
	// records are stored or none. Input order is preserved.
	AddBatch(ctx context.Context, contacts []domain.Contact) ([]domain.Contact, error)

	// GetAll returns an unordered snapshot of the collection.
	GetAll(ctx context.Context) ([]domain.Contact, error)

	// GetByID returns one contact or store.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Contact, error)

	// Update replaces the stored record and stamps a modification
	// timestamp. Strict: absent ids are an error, not an upsert.
	Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error)

	// Delete removes a contact. Deleting an absent id succeeds.
	Delete(ctx context.Context, id int64) error
}

// ListRepository defines the data access contract for contact lists.
type ListRepository interface {
	Add(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error)
	GetAll(ctx context.Context) ([]domain.ContactList, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactList, error)
	Update(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error)
	Delete(ctx context.Context, id int64) error
}
