package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/store"
)

// CampaignRepo implements campaign persistence against SQLite.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a SQLite-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

// Add persists a new campaign and returns the stored record with its id.
// Callers are expected to have set the status; an empty status defaults
// to draft.
func (r *CampaignRepo) Add(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	stored := *c
	if stored.Status == "" {
		stored.Status = domain.CampaignDraft
	}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil

	stats, err := marshalJSON(stored.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	var scheduled sql.NullString
	if stored.ScheduledDate != nil {
		scheduled = sql.NullString{String: fmtTime(*stored.ScheduledDate), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (name, subject, body, contact_list_id, status, scheduled_date, stats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, stored.Name, stored.Subject, stored.Body, stored.ContactListID,
		stored.Status, scheduled, stats, fmtTime(stored.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("add campaign: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add campaign id: %w", err)
	}
	stored.ID = id
	return &stored, nil
}

const campaignCols = `id, name, subject, body, contact_list_id, status, scheduled_date, stats, created_at, updated_at`

func scanCampaign(scan func(...any) error) (*domain.Campaign, error) {
	var (
		c                domain.Campaign
		stats, scheduled sql.NullString
		created          string
		updated          sql.NullString
	)
	if err := scan(&c.ID, &c.Name, &c.Subject, &c.Body, &c.ContactListID,
		&c.Status, &scheduled, &stats, &created, &updated); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(stats, &c.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	c.ScheduledDate = parseTimePtr(scheduled)
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTimePtr(updated)
	return &c, nil
}

// GetAll returns an unordered snapshot of every campaign.
func (r *CampaignRepo) GetAll(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+campaignCols+` FROM campaigns`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetByID returns one campaign or store.ErrNotFound.
func (r *CampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`SELECT `+campaignCols+` FROM campaigns WHERE id = ?`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// Update replaces the stored campaign and stamps updated_at. Returns
// store.ErrNotFound if the id does not exist.
func (r *CampaignRepo) Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	stats, err := marshalJSON(c.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	var scheduled sql.NullString
	if c.ScheduledDate != nil {
		scheduled = sql.NullString{String: fmtTime(*c.ScheduledDate), Valid: true}
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET name = ?, subject = ?, body = ?, contact_list_id = ?,
		    status = ?, scheduled_date = ?, stats = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Subject, c.Body, c.ContactListID,
		c.Status, scheduled, stats, fmtTime(now), c.ID)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	stored := *c
	stored.UpdatedAt = &now
	return &stored, nil
}

// Delete removes a campaign. Idempotent.
func (r *CampaignRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}
