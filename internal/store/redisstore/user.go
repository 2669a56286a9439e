package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juiceai/juice-server/internal/domain"
)

// UserRepo implements persistence for the single user record. The
// record always lives at the fixed user id, so the collection never
// grows past one entry and no counter is needed.
type UserRepo struct{ col collection }

// NewUserRepo creates a Redis-backed user repository.
func NewUserRepo(client *redis.Client) *UserRepo {
	return &UserRepo{col: collection{client: client, name: "user"}}
}

// Get returns the user record, or store.ErrNotFound if none was saved yet.
func (r *UserRepo) Get(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := r.col.get(ctx, domain.UserID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Save upserts the user record at its fixed id and stamps UpdatedAt.
func (r *UserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	stored := *u
	stored.ID = domain.UserID
	stored.UpdatedAt = &now
	if err := r.col.set(ctx, domain.UserID, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes the user record. Idempotent.
func (r *UserRepo) Delete(ctx context.Context) error {
	return r.col.delete(ctx, domain.UserID)
}
