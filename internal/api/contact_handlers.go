package api

import (
	"net/http"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/httputil"
)

// HandleGetContacts returns the full contact collection.
func (s *Server) HandleGetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.FetchContacts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	httputil.OK(w, contacts)
}

// HandleGetContactLists returns the full contact-list collection.
func (s *Server) HandleGetContactLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.contacts.FetchContactLists(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if lists == nil {
		lists = []domain.ContactList{}
	}
	httputil.OK(w, lists)
}

type createListRequest struct {
	Name       string  `json:"name"`
	ContactIDs []int64 `json:"contactIds"`
}

// HandleCreateContactList creates a named contact list, optionally
// seeded with an initial set of contact ids.
func (s *Server) HandleCreateContactList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		httputil.BadRequest(w, "Name is required")
		return
	}

	saved, err := s.contacts.CreateContactList(r.Context(), req.Name, req.ContactIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.Created(w, saved)
}

type addToListRequest struct {
	ContactIDs []int64 `json:"contactIds"`
}

// HandleAddContactsToList merges contact ids into an existing list.
// Ids already in the list are dropped, so repeating the call is safe.
func (s *Server) HandleAddContactsToList(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req addToListRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	saved, err := s.contacts.AddContactsToList(r.Context(), id, req.ContactIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, saved)
}
