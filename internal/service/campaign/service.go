// Package campaign implements the campaign store controller. It mirrors
// the contact controller's contract: an injectable service owning the
// in-memory campaign view plus shared loading/error state, with every
// write funneled through the persistent store.
package campaign

import (
	"context"
	"sync"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/logger"
)

// State is the controller's shared view of the campaign collection.
type State struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
}

// CreateInput holds the fields for creating a new campaign. Status is
// not accepted: new campaigns always start as drafts.
type CreateInput struct {
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ContactListID int64  `json:"contactListId"`
}

// Service mediates between consumers and the persistent store for the
// campaign collection and enforces the forward-only status machine.
type Service struct {
	repo Repository

	mu    sync.RWMutex
	state State
}

// NewService creates a campaign controller backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot returns a copy of the controller state.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Campaigns = append([]domain.Campaign(nil), s.state.Campaigns...)
	return st
}

// ErrorMessage returns the last recorded error, empty when the previous
// operation succeeded.
func (s *Service) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

func (s *Service) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Service) fail(op string, err error) {
	logger.Error("campaign controller operation failed", "op", op, "error", err.Error())
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = err.Error()
	s.mu.Unlock()
}

func (s *Service) replaceInState(c *domain.Campaign) {
	s.mu.Lock()
	s.state.Loading = false
	for i := range s.state.Campaigns {
		if s.state.Campaigns[i].ID == c.ID {
			s.state.Campaigns[i] = *c
			break
		}
	}
	s.mu.Unlock()
}

// FetchCampaigns reloads the full campaign collection from storage and
// replaces the in-memory view.
func (s *Service) FetchCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	s.begin()
	campaigns, err := s.repo.GetAll(ctx)
	if err != nil {
		s.fail("fetchCampaigns", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.Campaigns = campaigns
	s.mu.Unlock()
	return campaigns, nil
}

// GetByID reads a single campaign straight from storage without
// touching the in-memory view.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new draft campaign and appends it to the in-memory view.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Campaign, error) {
	s.begin()
	saved, err := s.repo.Add(ctx, &domain.Campaign{
		Name:          input.Name,
		Subject:       input.Subject,
		Body:          input.Body,
		ContactListID: input.ContactListID,
		Status:        domain.CampaignDraft,
		Stats:         &domain.CampaignStats{},
	})
	if err != nil {
		s.fail("createCampaign", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.Campaigns = append(s.state.Campaigns, *saved)
	s.mu.Unlock()
	return saved, nil
}

// Update persists a full replacement of the campaign and updates the
// matching in-memory entry. A status change that would move the
// campaign backward is rejected with ErrInvalidTransition.
func (s *Service) Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	s.begin()
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		s.fail("updateCampaign", err)
		return nil, err
	}
	if !existing.Status.CanTransitionTo(c.Status) {
		s.fail("updateCampaign", ErrInvalidTransition)
		return nil, ErrInvalidTransition
	}
	saved, err := s.repo.Update(ctx, &c)
	if err != nil {
		s.fail("updateCampaign", err)
		return nil, err
	}
	s.replaceInState(saved)
	return saved, nil
}

// Schedule moves a draft campaign to scheduled at the given date.
func (s *Service) Schedule(ctx context.Context, id int64, date time.Time) (*domain.Campaign, error) {
	return s.transition(ctx, "scheduleCampaign", id, domain.CampaignScheduled, func(c *domain.Campaign) {
		c.ScheduledDate = &date
	})
}

// StartSending moves a scheduled campaign into the sending state. Used
// by the scheduler when a campaign's date arrives.
func (s *Service) StartSending(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.transition(ctx, "startSending", id, domain.CampaignSending, nil)
}

// CompleteSend marks a sending campaign as sent and records its stats.
func (s *Service) CompleteSend(ctx context.Context, id int64, stats domain.CampaignStats) (*domain.Campaign, error) {
	return s.transition(ctx, "completeSend", id, domain.CampaignSent, func(c *domain.Campaign) {
		c.Stats = &stats
	})
}

func (s *Service) transition(ctx context.Context, op string, id int64, target domain.CampaignStatus, mutate func(*domain.Campaign)) (*domain.Campaign, error) {
	s.begin()
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.fail(op, err)
		return nil, err
	}
	if !c.Status.CanTransitionTo(target) {
		s.fail(op, ErrInvalidTransition)
		return nil, ErrInvalidTransition
	}
	c.Status = target
	if mutate != nil {
		mutate(c)
	}
	saved, err := s.repo.Update(ctx, c)
	if err != nil {
		s.fail(op, err)
		return nil, err
	}
	s.replaceInState(saved)
	return saved, nil
}
