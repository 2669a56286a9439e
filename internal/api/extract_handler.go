package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/extractor"
	"github.com/juiceai/juice-server/internal/pkg/httputil"
	"github.com/juiceai/juice-server/internal/pkg/logger"
)

type extractRequest struct {
	Source string               `json:"source"`
	Type   extractor.SourceType `json:"type"`
}

// HandleExtract relays an extraction request to the ML service and, on
// success, persists the returned contacts as one batch. Nothing is
// persisted when the upstream call fails.
func (s *Server) HandleExtract(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req extractRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Source == "" {
		httputil.BadRequest(w, "Source is required")
		return
	}
	if req.Type == "" {
		req.Type = extractor.SourceText
	}

	logger.Info("extraction request received",
		"request_id", requestID,
		"type", string(req.Type),
		"source_len", len(req.Source),
	)

	extracted, err := s.extractor.Extract(r.Context(), req.Source, req.Type)
	if err != nil {
		logger.Error("extraction failed", "request_id", requestID, "error", err.Error())
		var upstream *extractor.UpstreamError
		if errors.As(err, &upstream) && upstream.Detail != "" {
			httputil.InternalError(w, upstream.Detail)
			return
		}
		httputil.InternalError(w, "Failed to extract contacts")
		return
	}

	records := make([]domain.Contact, len(extracted))
	for i, ec := range extracted {
		records[i] = domain.Contact{
			Type:     ec.Type,
			Value:    ec.Value,
			Source:   ec.Source,
			Metadata: ec.Metadata,
			Tags:     ec.Tags,
		}
	}

	saved, err := s.contacts.AddContacts(r.Context(), records)
	if err != nil {
		logger.Error("extracted contacts not persisted", "request_id", requestID, "error", err.Error())
		httputil.InternalError(w, err.Error())
		return
	}
	if saved == nil {
		saved = []domain.Contact{}
	}

	logger.Info("extraction complete", "request_id", requestID, "count", len(saved))
	httputil.OK(w, saved)
}
