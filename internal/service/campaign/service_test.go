package campaign

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/store"
)

// fakeRepo is an in-memory Repository for controller tests.
type fakeRepo struct {
	mu        sync.Mutex
	campaigns map[int64]domain.Campaign
	nextID    int64
	failWith  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{campaigns: make(map[int64]domain.Campaign)}
}

func (f *fakeRepo) Add(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	stored := *c
	stored.ID = f.nextID
	if stored.Status == "" {
		stored.Status = domain.CampaignDraft
	}
	stored.CreatedAt = time.Now().UTC()
	f.campaigns[stored.ID] = stored
	return &stored, nil
}

func (f *fakeRepo) GetAll(context.Context) ([]domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepo) Update(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.campaigns[c.ID]; !ok {
		return nil, store.ErrNotFound
	}
	f.campaigns[c.ID] = *c
	return c, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.campaigns, id)
	return nil
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc := NewService(newFakeRepo())

	saved, err := svc.Create(context.Background(), CreateInput{
		Name:          "Launch",
		Subject:       "Hello",
		Body:          "Hi {{ contact.value }}",
		ContactListID: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.Status != domain.CampaignDraft {
		t.Errorf("Status = %s, want draft", saved.Status)
	}
	if saved.Stats == nil {
		t.Error("new campaign should carry zeroed stats")
	}
	if saved.ScheduledDate != nil {
		t.Error("new campaign should not have a scheduled date")
	}

	st := svc.Snapshot()
	if len(st.Campaigns) != 1 {
		t.Errorf("state has %d campaigns, want 1", len(st.Campaigns))
	}
}

func TestScheduleDraft(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Launch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	when := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	saved, err := svc.Schedule(ctx, created.ID, when)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if saved.Status != domain.CampaignScheduled {
		t.Errorf("Status = %s, want scheduled", saved.Status)
	}
	if saved.ScheduledDate == nil || !saved.ScheduledDate.Equal(when) {
		t.Errorf("ScheduledDate = %v, want %v", saved.ScheduledDate, when)
	}
}

func TestScheduleMissingCampaign(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Schedule(context.Background(), 404, time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFullLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Launch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Schedule(ctx, created.ID, time.Now()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.StartSending(ctx, created.ID); err != nil {
		t.Fatalf("StartSending: %v", err)
	}
	sent, err := svc.CompleteSend(ctx, created.ID, domain.CampaignStats{TotalSent: 42})
	if err != nil {
		t.Fatalf("CompleteSend: %v", err)
	}
	if sent.Status != domain.CampaignSent {
		t.Errorf("Status = %s, want sent", sent.Status)
	}
	if sent.Stats.TotalSent != 42 {
		t.Errorf("TotalSent = %d, want 42", sent.Stats.TotalSent)
	}
}

func TestBackwardTransitionRejected(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Launch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Schedule(ctx, created.ID, time.Now()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// Dragging a scheduled campaign back to draft via Update must fail.
	back := *created
	back.Status = domain.CampaignDraft
	_, err = svc.Update(ctx, back)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
	if svc.ErrorMessage() == "" {
		t.Error("state should record the rejection")
	}

	// Skipping sending is also rejected.
	skip := *created
	skip.Status = domain.CampaignSent
	if _, err := svc.Update(ctx, skip); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("skip ahead: got %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateSameStatusAllowed(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Launch", Subject: "old"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	edit := *created
	edit.Subject = "new"
	saved, err := svc.Update(ctx, edit)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved.Subject != "new" || saved.Status != domain.CampaignDraft {
		t.Errorf("got %+v", saved)
	}
}
