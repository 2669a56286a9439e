package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juiceai/juice-server/internal/domain"
)

// ContactRepo implements contact persistence against Redis.
type ContactRepo struct{ col collection }

// NewContactRepo creates a Redis-backed contact repository.
func NewContactRepo(client *redis.Client) *ContactRepo {
	return &ContactRepo{col: collection{client: client, name: "contacts"}}
}

// Add persists one contact and returns the stored record with its id.
func (r *ContactRepo) Add(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	id, err := r.col.nextID(ctx)
	if err != nil {
		return nil, err
	}
	stored := *c
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil
	if err := r.col.set(ctx, id, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// AddBatch persists the given contacts with consecutive ids, writing
// them in a single pipelined transaction so either all records land or
// none do.
func (r *ContactRepo) AddBatch(ctx context.Context, contacts []domain.Contact) ([]domain.Contact, error) {
	if len(contacts) == 0 {
		return nil, nil
	}
	first, err := r.col.reserveIDs(ctx, int64(len(contacts)))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := make([]domain.Contact, len(contacts))
	pipe := r.col.client.TxPipeline()
	for i := range contacts {
		stored[i] = contacts[i]
		stored[i].ID = first + int64(i)
		stored[i].CreatedAt = now
		stored[i].UpdatedAt = nil
		b, err := json.Marshal(&stored[i])
		if err != nil {
			return nil, fmt.Errorf("encode contact: %w", err)
		}
		pipe.HSet(ctx, r.col.key(), field(stored[i].ID), b)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("write contact batch: %w", err)
	}
	return stored, nil
}

// GetAll returns an unordered snapshot of every contact.
func (r *ContactRepo) GetAll(ctx context.Context) ([]domain.Contact, error) {
	raw, err := r.col.getAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(raw))
	for _, v := range raw {
		var c domain.Contact
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// GetByID returns one contact or store.ErrNotFound.
func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	var c domain.Contact
	if err := r.col.get(ctx, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the stored record and stamps UpdatedAt. Returns
// store.ErrNotFound if the id was never assigned.
func (r *ContactRepo) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	var existing domain.Contact
	if err := r.col.get(ctx, c.ID, &existing); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	stored := *c
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = &now
	if err := r.col.set(ctx, stored.ID, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a contact. Idempotent.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	return r.col.delete(ctx, id)
}
