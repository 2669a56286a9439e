package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
)

// nextStatus maps each state to the only state it may advance to.
// The lifecycle is strictly forward: draft → scheduled → sending → sent.
var nextStatus = map[CampaignStatus]CampaignStatus{
	CampaignDraft:     CampaignScheduled,
	CampaignScheduled: CampaignSending,
	CampaignSending:   CampaignSent,
}

// CanTransitionTo reports whether moving from s to target is a legal
// status change. Staying in the same state is always allowed.
func (s CampaignStatus) CanTransitionTo(target CampaignStatus) bool {
	if s == target {
		return true
	}
	return nextStatus[s] == target
}

// IsTerminal returns true once a campaign has finished sending.
func (s CampaignStatus) IsTerminal() bool { return s == CampaignSent }

// CampaignStats holds delivery counters for a sent campaign.
type CampaignStats struct {
	TotalSent int `json:"totalSent"`
	Opens     int `json:"opens"`
	Clicks    int `json:"clicks"`
	Bounces   int `json:"bounces"`
}

// Campaign is an email campaign targeting one contact list. The list
// reference is not enforced to exist; a campaign with a dangling
// contactListId simply sends to nobody.
type Campaign struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Subject       string         `json:"subject"`
	Body          string         `json:"body"`
	ContactListID int64          `json:"contactListId"`
	Status        CampaignStatus `json:"status"`
	ScheduledDate *time.Time     `json:"scheduledDate,omitempty"`
	Stats         *CampaignStats `json:"stats,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
}

// Due reports whether a scheduled campaign should go out at the given time.
func (c *Campaign) Due(now time.Time) bool {
	return c.Status == CampaignScheduled && c.ScheduledDate != nil && !c.ScheduledDate.After(now)
}
