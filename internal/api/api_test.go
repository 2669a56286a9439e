package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/juiceai/juice-server/internal/config"
	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/extractor"
	"github.com/juiceai/juice-server/internal/render"
	"github.com/juiceai/juice-server/internal/service/campaign"
	"github.com/juiceai/juice-server/internal/service/contact"
	"github.com/juiceai/juice-server/internal/store/sqlite"
)

// fakeExtractor lets each test script the upstream service's answer.
type fakeExtractor struct {
	contacts []extractor.ExtractedContact
	err      error
	calls    int
}

func (f *fakeExtractor) Extract(context.Context, string, extractor.SourceType) ([]extractor.ExtractedContact, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func newTestServer(t *testing.T, ex Extractor) *Server {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Server.Environment = "development"

	contacts := contact.NewService(sqlite.NewContactRepo(db), sqlite.NewListRepo(db))
	campaigns := campaign.NewService(sqlite.NewCampaignRepo(db))
	return NewServer(cfg, contacts, campaigns, sqlite.NewUserRepo(db), ex, render.NewTemplateService())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["message"]
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})
	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody[map[string]string](t, rec)["status"]; got != "healthy" {
		t.Errorf("status field = %q, want healthy", got)
	}
}

func TestExtractMissingSource(t *testing.T) {
	fake := &fakeExtractor{}
	srv := newTestServer(t, fake)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/extract", map[string]string{"source": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Source is required" {
		t.Errorf("message = %q, want %q", msg, "Source is required")
	}
	if fake.calls != 0 {
		t.Error("extractor must not be called for an empty source")
	}
}

func TestExtractUpstreamFailure(t *testing.T) {
	fake := &fakeExtractor{err: &extractor.UpstreamError{StatusCode: 500, Detail: "model not loaded"}}
	srv := newTestServer(t, fake)
	router := srv.Routes()

	rec := doJSON(t, router, http.MethodPost, "/api/extract", map[string]string{"source": "some text"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "model not loaded" {
		t.Errorf("message = %q, want upstream detail", msg)
	}

	// Nothing may be persisted on upstream failure.
	rec = doJSON(t, router, http.MethodGet, "/api/contacts", nil)
	if got := decodeBody[[]domain.Contact](t, rec); len(got) != 0 {
		t.Errorf("contacts persisted on failure: %+v", got)
	}
}

func TestExtractUpstreamFailureWithoutDetail(t *testing.T) {
	fake := &fakeExtractor{err: errors.New("connection refused")}
	srv := newTestServer(t, fake)

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/extract", map[string]string{"source": "some text"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Failed to extract contacts" {
		t.Errorf("message = %q, want generic fallback", msg)
	}
}

func TestExtractPersistsContacts(t *testing.T) {
	fake := &fakeExtractor{contacts: []extractor.ExtractedContact{
		{Type: domain.ContactEmail, Value: "jane@example.com", Metadata: map[string]any{"name": "Jane"}},
		{Type: domain.ContactPhone, Value: "+15550100"},
	}}
	srv := newTestServer(t, fake)
	router := srv.Routes()

	rec := doJSON(t, router, http.MethodPost, "/api/extract", map[string]string{"source": "reach Jane"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	saved := decodeBody[[]domain.Contact](t, rec)
	if len(saved) != 2 {
		t.Fatalf("saved %d contacts, want 2", len(saved))
	}
	for _, c := range saved {
		if c.ID == 0 {
			t.Error("saved contact missing id")
		}
		if c.CreatedAt.IsZero() {
			t.Error("saved contact missing createdAt")
		}
	}

	rec = doJSON(t, router, http.MethodGet, "/api/contacts", nil)
	if got := decodeBody[[]domain.Contact](t, rec); len(got) != 2 {
		t.Errorf("store holds %d contacts, want 2", len(got))
	}
}

func TestListFlow(t *testing.T) {
	fake := &fakeExtractor{contacts: []extractor.ExtractedContact{
		{Type: domain.ContactEmail, Value: "a@example.com"},
		{Type: domain.ContactEmail, Value: "b@example.com"},
	}}
	srv := newTestServer(t, fake)
	router := srv.Routes()

	doJSON(t, router, http.MethodPost, "/api/extract", map[string]string{"source": "x"})

	rec := doJSON(t, router, http.MethodPost, "/api/lists", map[string]any{
		"name": "VIP", "contactIds": []int64{1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create list status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[domain.ContactList](t, rec)

	path := fmt.Sprintf("/api/lists/%d/contacts", created.ID)
	rec = doJSON(t, router, http.MethodPost, path, map[string]any{"contactIds": []int64{1, 2}})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to list status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[domain.ContactList](t, rec)
	if len(updated.Contacts) != 2 {
		t.Errorf("Contacts = %v, want [1 2]", updated.Contacts)
	}

	// Unknown list id is a 404.
	rec = doJSON(t, router, http.MethodPost, "/api/lists/999/contacts", map[string]any{"contactIds": []int64{1}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing list status = %d, want 404", rec.Code)
	}
}

func TestCreateListRequiresName(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/lists", map[string]string{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCampaignFlow(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})
	router := srv.Routes()

	rec := doJSON(t, router, http.MethodPost, "/api/campaigns", map[string]any{
		"name": "Launch", "subject": "Hi", "body": "Hello", "contactListId": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[domain.Campaign](t, rec)
	if created.Status != domain.CampaignDraft {
		t.Errorf("Status = %s, want draft", created.Status)
	}

	when := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	path := fmt.Sprintf("/api/campaigns/%d/schedule", created.ID)
	rec = doJSON(t, router, http.MethodPost, path, map[string]any{"scheduledDate": when})
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule status = %d: %s", rec.Code, rec.Body.String())
	}
	scheduled := decodeBody[domain.Campaign](t, rec)
	if scheduled.Status != domain.CampaignScheduled {
		t.Errorf("Status = %s, want scheduled", scheduled.Status)
	}

	// Backward status change via PUT is rejected.
	scheduled.Status = domain.CampaignDraft
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/campaigns/%d", created.ID), scheduled)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("backward update status = %d, want 400", rec.Code)
	}

	// Scheduling an unknown campaign is a 404.
	rec = doJSON(t, router, http.MethodPost, "/api/campaigns/999/schedule", map[string]any{"scheduledDate": when})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing campaign status = %d, want 404", rec.Code)
	}
}

func TestCampaignPreview(t *testing.T) {
	fake := &fakeExtractor{contacts: []extractor.ExtractedContact{
		{Type: domain.ContactEmail, Value: "jane@example.com", Metadata: map[string]any{"name": "Jane"}},
	}}
	srv := newTestServer(t, fake)
	router := srv.Routes()

	doJSON(t, router, http.MethodPost, "/api/extract", map[string]string{"source": "x"})
	rec := doJSON(t, router, http.MethodPost, "/api/campaigns", map[string]any{
		"name": "Launch", "subject": "Hi", "body": `Hello {{ contact.name | default: "there" }}!`,
	})
	created := decodeBody[domain.Campaign](t, rec)

	path := fmt.Sprintf("/api/campaigns/%d/preview", created.ID)
	rec = doJSON(t, router, http.MethodPost, path, map[string]any{"contactId": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d: %s", rec.Code, rec.Body.String())
	}
	preview := decodeBody[map[string]string](t, rec)
	if preview["body"] != "Hello Jane!" {
		t.Errorf("body = %q, want %q", preview["body"], "Hello Jane!")
	}
}

func TestUserRecord(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})
	router := srv.Routes()

	rec := doJSON(t, router, http.MethodGet, "/api/user", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get before save status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/user", map[string]string{
		"name": "Jane", "email": "jane@example.com", "company": "Acme",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	saved := decodeBody[domain.User](t, rec)
	if saved.ID != domain.UserID {
		t.Errorf("ID = %d, want %d", saved.ID, domain.UserID)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decodeBody[domain.User](t, rec); got.Name != "Jane" {
		t.Errorf("Name = %s, want Jane", got.Name)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	fake := &fakeExtractor{contacts: []extractor.ExtractedContact{
		{Type: domain.ContactEmail, Value: "a@example.com"},
	}}
	srv := newTestServer(t, fake)
	router := srv.Routes()

	doJSON(t, router, http.MethodPost, "/api/extract", map[string]string{"source": "x"})
	doJSON(t, router, http.MethodPost, "/api/campaigns", map[string]any{"name": "Draft one"})

	rec := doJSON(t, router, http.MethodGet, "/api/analytics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	summary := decodeBody[map[string]int](t, rec)
	if summary["contacts"] != 1 || summary["campaigns"] != 1 || summary["draftCampaigns"] != 1 {
		t.Errorf("summary = %v", summary)
	}
}

func TestInvalidIDParam(t *testing.T) {
	srv := newTestServer(t, &fakeExtractor{})

	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/lists/abc/contacts", map[string]any{"contactIds": []int64{1}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
