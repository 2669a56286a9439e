package api

import (
	"net/http"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/httputil"
)

// HandleGetUser returns the single user record.
func (s *Server) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, u)
}

// HandleSaveUser writes the single user record, creating it on first
// save and replacing it afterwards.
func (s *Server) HandleSaveUser(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if !httputil.Decode(w, r, &u) {
		return
	}

	saved, err := s.users.Save(r.Context(), &u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, saved)
}
