package api

import (
	"net/http"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/httputil"
)

type analyticsSummary struct {
	Contacts       int `json:"contacts"`
	ContactLists   int `json:"contactLists"`
	Campaigns      int `json:"campaigns"`
	SentCampaigns  int `json:"sentCampaigns"`
	TotalSent      int `json:"totalSent"`
	DraftCampaigns int `json:"draftCampaigns"`
}

// HandleAnalyticsSummary aggregates collection counts and send totals
// across the store.
func (s *Server) HandleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.FetchContacts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	lists, err := s.contacts.FetchContactLists(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	campaigns, err := s.campaigns.FetchCampaigns(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	summary := analyticsSummary{
		Contacts:     len(contacts),
		ContactLists: len(lists),
		Campaigns:    len(campaigns),
	}
	for _, c := range campaigns {
		switch c.Status {
		case domain.CampaignSent:
			summary.SentCampaigns++
			if c.Stats != nil {
				summary.TotalSent += c.Stats.TotalSent
			}
		case domain.CampaignDraft:
			summary.DraftCampaigns++
		}
	}
	httputil.OK(w, summary)
}
