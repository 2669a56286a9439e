package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/store"
)

// UserRepo implements persistence for the single user record. The table
// accepts only id 1, so the collection can never hold more than one row.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a SQLite-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Get returns the user record, or store.ErrNotFound if none was saved yet.
func (r *UserRepo) Get(ctx context.Context) (*domain.User, error) {
	var (
		u       domain.User
		updated sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, company, updated_at FROM user WHERE id = ?`,
		domain.UserID).Scan(&u.ID, &u.Name, &u.Email, &u.Company, &updated)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.UpdatedAt = parseTimePtr(updated)
	return &u, nil
}

// Save upserts the user record at its fixed id and stamps updated_at.
func (r *UserRepo) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user (id, name, email, company, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company = excluded.company,
			updated_at = excluded.updated_at
	`, domain.UserID, u.Name, u.Email, u.Company, fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	stored := *u
	stored.ID = domain.UserID
	stored.UpdatedAt = &now
	return &stored, nil
}

// Delete removes the user record. Idempotent.
func (r *UserRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, domain.UserID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
