package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juiceai/juice-server/internal/domain"
)

// ListRepo implements contact-list persistence against Redis.
type ListRepo struct{ col collection }

// NewListRepo creates a Redis-backed contact-list repository.
func NewListRepo(client *redis.Client) *ListRepo {
	return &ListRepo{col: collection{client: client, name: "contactLists"}}
}

// Add persists a new list and returns the stored record with its id.
func (r *ListRepo) Add(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error) {
	id, err := r.col.nextID(ctx)
	if err != nil {
		return nil, err
	}
	stored := *l
	if stored.Contacts == nil {
		stored.Contacts = []int64{}
	}
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil
	if err := r.col.set(ctx, id, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetAll returns an unordered snapshot of every list.
func (r *ListRepo) GetAll(ctx context.Context) ([]domain.ContactList, error) {
	raw, err := r.col.getAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContactList, 0, len(raw))
	for _, v := range raw {
		var l domain.ContactList
		if err := json.Unmarshal([]byte(v), &l); err != nil {
			return nil, fmt.Errorf("decode contact list: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

// GetByID returns one list or store.ErrNotFound.
func (r *ListRepo) GetByID(ctx context.Context, id int64) (*domain.ContactList, error) {
	var l domain.ContactList
	if err := r.col.get(ctx, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update replaces the stored list and stamps UpdatedAt. Strict: the id
// must exist.
func (r *ListRepo) Update(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error) {
	var existing domain.ContactList
	if err := r.col.get(ctx, l.ID, &existing); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	stored := *l
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = &now
	if err := r.col.set(ctx, stored.ID, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a list. Idempotent.
func (r *ListRepo) Delete(ctx context.Context, id int64) error {
	return r.col.delete(ctx, id)
}
