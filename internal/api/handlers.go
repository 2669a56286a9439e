package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/juiceai/juice-server/internal/pkg/httputil"
	"github.com/juiceai/juice-server/internal/service/campaign"
	"github.com/juiceai/juice-server/internal/store"
)

// writeServiceError maps controller/store errors onto the API's error
// envelope: missing records are 404, rejected status transitions are
// 400, anything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.NotFound(w, "record not found")
	case errors.Is(err, campaign.ErrInvalidTransition):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err.Error())
	}
}

// idParam parses the {id} URL parameter. Writes a 400 and returns false
// when it is not a valid integer id.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// HandleHealth reports service liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "healthy"})
}
