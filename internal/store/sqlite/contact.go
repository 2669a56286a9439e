package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/store"
)

// ContactRepo implements contact persistence against SQLite.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a SQLite-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

func insertContact(ctx context.Context, ex execCtx, c *domain.Contact) (*domain.Contact, error) {
	meta, err := marshalJSON(c.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	tags, err := marshalJSON(c.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	stored := *c
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil

	res, err := ex.ExecContext(ctx, `
		INSERT INTO contacts (type, value, source, metadata, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, stored.Type, stored.Value, stored.Source, meta, tags, fmtTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add contact id: %w", err)
	}
	stored.ID = id
	return &stored, nil
}

// Add persists one contact and returns the stored record with its
// assigned id and creation timestamp.
func (r *ContactRepo) Add(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	return insertContact(ctx, r.db, c)
}

// AddBatch persists the given contacts in one transaction. Either every
// record is stored or none is; a failure rolls the whole batch back.
// Insertion order of the input is preserved.
func (r *ContactRepo) AddBatch(ctx context.Context, contacts []domain.Contact) ([]domain.Contact, error) {
	if len(contacts) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stored := make([]domain.Contact, 0, len(contacts))
	for i := range contacts {
		c, err := insertContact(ctx, tx, &contacts[i])
		if err != nil {
			return nil, err
		}
		stored = append(stored, *c)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return stored, nil
}

const contactCols = `id, type, value, COALESCE(source,''), metadata, tags, created_at, updated_at`

func scanContact(scan func(...any) error) (*domain.Contact, error) {
	var (
		c          domain.Contact
		meta, tags sql.NullString
		created    string
		updated    sql.NullString
	)
	if err := scan(&c.ID, &c.Type, &c.Value, &c.Source, &meta, &tags, &created, &updated); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(meta, &c.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if err := unmarshalJSON(tags, &c.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTimePtr(updated)
	return &c, nil
}

// GetAll returns an unordered snapshot of every contact.
func (r *ContactRepo) GetAll(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactCols+` FROM contacts`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetByID returns one contact or store.ErrNotFound.
func (r *ContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactCols+` FROM contacts WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// Update replaces the stored record and stamps updated_at. Returns
// store.ErrNotFound if the id does not exist — no silent upsert.
func (r *ContactRepo) Update(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	meta, err := marshalJSON(c.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	tags, err := marshalJSON(c.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET type = ?, value = ?, source = ?, metadata = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, c.Type, c.Value, c.Source, meta, tags, fmtTime(now), c.ID)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	stored := *c
	stored.UpdatedAt = &now
	return &stored, nil
}

// Delete removes a contact. Deleting an id that does not exist is a no-op.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
