// Package worker runs the campaign scheduler: a polling loop that
// advances scheduled campaigns whose date has arrived through sending
// to sent, rendering the campaign body once per recipient.
package worker

import (
	"context"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/logger"
	"github.com/juiceai/juice-server/internal/render"
	"github.com/juiceai/juice-server/internal/service/campaign"
	"github.com/juiceai/juice-server/internal/service/contact"
)

// Scheduler polls the campaign collection and executes due campaigns.
type Scheduler struct {
	campaigns *campaign.Service
	contacts  *contact.Service
	renderer  *render.TemplateService
	interval  time.Duration
}

// NewScheduler creates a scheduler polling at the given interval.
func NewScheduler(campaigns *campaign.Service, contacts *contact.Service, renderer *render.TemplateService, interval time.Duration) *Scheduler {
	return &Scheduler{
		campaigns: campaigns,
		contacts:  contacts,
		renderer:  renderer,
		interval:  interval,
	}
}

// Run polls until the context is cancelled. One campaign failing does
// not stop the loop or block other due campaigns.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("campaign scheduler started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("campaign scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx, time.Now())
		}
	}
}

// tick runs one scheduling pass: every scheduled campaign whose date is
// at or before now is sent.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	campaigns, err := s.campaigns.FetchCampaigns(ctx)
	if err != nil {
		logger.Error("scheduler fetch failed", "error", err.Error())
		return
	}

	for i := range campaigns {
		c := campaigns[i]
		if !c.Due(now) {
			continue
		}
		if err := s.execute(ctx, c.ID); err != nil {
			logger.Error("campaign send failed", "campaign_id", c.ID, "error", err.Error())
		}
	}
}

// execute drives one due campaign through sending to sent and records
// how many recipients were rendered.
func (s *Scheduler) execute(ctx context.Context, id int64) error {
	c, err := s.campaigns.StartSending(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("campaign sending", "campaign_id", c.ID, "name", c.Name)

	sent := 0
	list, err := s.contacts.GetList(ctx, c.ContactListID)
	if err != nil {
		logger.Error("campaign list unavailable, completing with zero sends",
			"campaign_id", c.ID, "list_id", c.ContactListID, "error", err.Error())
	} else {
		for _, contactID := range list.Contacts {
			recipient, err := s.contacts.GetContact(ctx, contactID)
			if err != nil {
				logger.Error("recipient lookup failed", "campaign_id", c.ID, "contact_id", contactID, "error", err.Error())
				continue
			}
			if _, err := s.renderer.RenderForContact(c, recipient); err != nil {
				logger.Error("render failed for recipient", "campaign_id", c.ID, "contact_id", contactID, "error", err.Error())
				continue
			}
			sent++
		}
	}

	stats := domain.CampaignStats{TotalSent: sent}
	if c.Stats != nil {
		stats.Opens = c.Stats.Opens
		stats.Clicks = c.Stats.Clicks
		stats.Bounces = c.Stats.Bounces
	}
	if _, err := s.campaigns.CompleteSend(ctx, c.ID, stats); err != nil {
		return err
	}
	logger.Info("campaign sent", "campaign_id", c.ID, "total_sent", sent)
	return nil
}
