package api

import (
	"net/http"
	"time"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/httputil"
	"github.com/juiceai/juice-server/internal/service/campaign"
)

// HandleGetCampaigns returns the full campaign collection.
func (s *Server) HandleGetCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaigns.FetchCampaigns(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	httputil.OK(w, campaigns)
}

// HandleCreateCampaign creates a new draft campaign.
func (s *Server) HandleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaign.CreateInput
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		httputil.BadRequest(w, "Name is required")
		return
	}

	saved, err := s.campaigns.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, saved)
}

// HandleUpdateCampaign replaces a campaign record. Status changes that
// would move the campaign backward are rejected.
func (s *Server) HandleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var c domain.Campaign
	if !httputil.Decode(w, r, &c) {
		return
	}
	c.ID = id

	saved, err := s.campaigns.Update(r.Context(), c)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, saved)
}

type scheduleRequest struct {
	ScheduledDate time.Time `json:"scheduledDate"`
}

// HandleScheduleCampaign moves a draft campaign to scheduled at the
// requested date.
func (s *Server) HandleScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req scheduleRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.ScheduledDate.IsZero() {
		httputil.BadRequest(w, "scheduledDate is required")
		return
	}

	saved, err := s.campaigns.Schedule(r.Context(), id, req.ScheduledDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, saved)
}

type previewRequest struct {
	ContactID int64 `json:"contactId"`
}

type previewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HandlePreviewCampaign renders the campaign body for one contact
// without sending anything or touching campaign state.
func (s *Server) HandlePreviewCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req previewRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	c, err := s.campaigns.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	contact, err := s.contacts.GetContact(r.Context(), req.ContactID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body, err := s.renderer.RenderForContact(c, contact)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, previewResponse{Subject: c.Subject, Body: body})
}
