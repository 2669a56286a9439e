package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/store"
)

// ListRepo implements contact-list persistence against SQLite.
// A list's contact ids are stored as a JSON array; the list does not own
// its contacts and no foreign key constrains the references.
type ListRepo struct{ db *sql.DB }

// NewListRepo creates a SQLite-backed contact-list repository.
func NewListRepo(db *sql.DB) *ListRepo { return &ListRepo{db: db} }

// Add persists a new list and returns the stored record with its id.
func (r *ListRepo) Add(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error) {
	stored := *l
	if stored.Contacts == nil {
		stored.Contacts = []int64{}
	}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil

	ids, err := marshalJSON(stored.Contacts)
	if err != nil {
		return nil, fmt.Errorf("encode contact ids: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_lists (name, contact_ids, created_at)
		VALUES (?, ?, ?)
	`, stored.Name, ids, fmtTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("add contact list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add contact list id: %w", err)
	}
	stored.ID = id
	return &stored, nil
}

func scanList(scan func(...any) error) (*domain.ContactList, error) {
	var (
		l       domain.ContactList
		ids     string
		created string
		updated sql.NullString
	)
	if err := scan(&l.ID, &l.Name, &ids, &created, &updated); err != nil {
		return nil, err
	}
	l.Contacts = []int64{}
	if err := unmarshalJSON(sql.NullString{String: ids, Valid: true}, &l.Contacts); err != nil {
		return nil, fmt.Errorf("decode contact ids: %w", err)
	}
	l.CreatedAt = parseTime(created)
	l.UpdatedAt = parseTimePtr(updated)
	return &l, nil
}

// GetAll returns an unordered snapshot of every list.
func (r *ListRepo) GetAll(ctx context.Context) ([]domain.ContactList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, contact_ids, created_at, updated_at FROM contact_lists`)
	if err != nil {
		return nil, fmt.Errorf("list contact lists: %w", err)
	}
	defer rows.Close()

	var out []domain.ContactList
	for rows.Next() {
		l, err := scanList(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan contact list: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetByID returns one list or store.ErrNotFound.
func (r *ListRepo) GetByID(ctx context.Context, id int64) (*domain.ContactList, error) {
	l, err := scanList(r.db.QueryRowContext(ctx,
		`SELECT id, name, contact_ids, created_at, updated_at FROM contact_lists WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact list: %w", err)
	}
	return l, nil
}

// Update replaces the stored list and stamps updated_at. Returns
// store.ErrNotFound if the id does not exist.
func (r *ListRepo) Update(ctx context.Context, l *domain.ContactList) (*domain.ContactList, error) {
	ids, err := marshalJSON(l.Contacts)
	if err != nil {
		return nil, fmt.Errorf("encode contact ids: %w", err)
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE contact_lists SET name = ?, contact_ids = ?, updated_at = ? WHERE id = ?
	`, l.Name, ids, fmtTime(now), l.ID)
	if err != nil {
		return nil, fmt.Errorf("update contact list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	stored := *l
	stored.UpdatedAt = &now
	return &stored, nil
}

// Delete removes a list. Idempotent.
func (r *ListRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contact_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete contact list: %w", err)
	}
	return nil
}
