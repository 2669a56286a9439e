package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juiceai/juice-server/internal/domain"
)

// CampaignRepo implements campaign persistence against Redis.
type CampaignRepo struct{ col collection }

// NewCampaignRepo creates a Redis-backed campaign repository.
func NewCampaignRepo(client *redis.Client) *CampaignRepo {
	return &CampaignRepo{col: collection{client: client, name: "campaigns"}}
}

// Add persists a new campaign and returns the stored record with its id.
func (r *CampaignRepo) Add(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	id, err := r.col.nextID(ctx)
	if err != nil {
		return nil, err
	}
	stored := *c
	if stored.Status == "" {
		stored.Status = domain.CampaignDraft
	}
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = nil
	if err := r.col.set(ctx, id, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetAll returns an unordered snapshot of every campaign.
func (r *CampaignRepo) GetAll(ctx context.Context) ([]domain.Campaign, error) {
	raw, err := r.col.getAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(raw))
	for _, v := range raw {
		var c domain.Campaign
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("decode campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// GetByID returns one campaign or store.ErrNotFound.
func (r *CampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := r.col.get(ctx, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the stored campaign and stamps UpdatedAt. Strict: the
// id must exist.
func (r *CampaignRepo) Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	var existing domain.Campaign
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

// Delete removes a campaign. Idempotent.
func (r *CampaignRepo) Delete(ctx context.Context, id int64) error {
	return r.col.delete(ctx, id)
}
