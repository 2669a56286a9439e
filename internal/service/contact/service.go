// Package contact implements the contact store controller: the
// authoritative in-memory view of contacts and contact lists, kept in
// sync with the persistent store. The controller is constructed once at
// startup and passed to its consumers; it owns its state and is the
// only writer of it.
package contact

import (
	"context"
	"sync"

	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/pkg/logger"
)

// State is the controller's shared view: the loaded records plus the
// loading flag and last error message the UI renders.
type State struct {
	Contacts     []domain.Contact     `json:"contacts"`
	ContactLists []domain.ContactList `json:"contactLists"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
}

// Service mediates between consumers and the persistent store for the
// contact and contact-list collections. Failures never propagate as
// panics: every operation returns its error and records the message in
// the shared state, so callers may check either.
type Service struct {
	contacts ContactRepository
	lists    ListRepository

	mu    sync.RWMutex
	state State
}

// NewService creates a contact controller backed by the given repositories.
func NewService(contacts ContactRepository, lists ListRepository) *Service {
	return &Service{contacts: contacts, lists: lists}
}

// Snapshot returns a copy of the controller state.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Contacts = append([]domain.Contact(nil), s.state.Contacts...)
	st.ContactLists = append([]domain.ContactList(nil), s.state.ContactLists...)
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
	logger.Error("contact controller operation failed", "op", op, "error", err.Error())
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = err.Error()
	s.mu.Unlock()
}

// FetchContacts reloads the full contact collection from storage and
// replaces the in-memory view.
func (s *Service) FetchContacts(ctx context.Context) ([]domain.Contact, error) {
	s.begin()
	contacts, err := s.contacts.GetAll(ctx)
	if err != nil {
		s.fail("fetchContacts", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.Contacts = contacts
	s.mu.Unlock()
	return contacts, nil
}

// FetchContactLists reloads the full list collection from storage and
// replaces the in-memory view.
func (s *Service) FetchContactLists(ctx context.Context) ([]domain.ContactList, error) {
	s.begin()
	lists, err := s.lists.GetAll(ctx)
	if err != nil {
		s.fail("fetchContactLists", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.ContactLists = lists
	s.mu.Unlock()
	return lists, nil
}

// GetContact reads a single contact straight from storage without
// touching the in-memory view.
func (s *Service) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

// GetList reads a single contact list straight from storage without
// touching the in-memory view.
func (s *Service) GetList(ctx context.Context, id int64) (*domain.ContactList, error) {
	return s.lists.GetByID(ctx, id)
}

// AddContacts persists the given records as one atomic batch and appends
// the stored records to the in-memory view. On failure nothing is
// persisted and nil is returned.
func (s *Service) AddContacts(ctx context.Context, records []domain.Contact) ([]domain.Contact, error) {
	s.begin()
	saved, err := s.contacts.AddBatch(ctx, records)
	if err != nil {
		s.fail("addContacts", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.Contacts = append(s.state.Contacts, saved...)
	s.mu.Unlock()
	return saved, nil
}

// CreateContactList persists a new list and appends it to the in-memory
// view. Name validation is the caller's responsibility.
func (s *Service) CreateContactList(ctx context.Context, name string, contactIDs []int64) (*domain.ContactList, error) {
	s.begin()
	l := &domain.ContactList{Name: name}
	l.Merge(contactIDs)
	saved, err := s.lists.Add(ctx, l)
	if err != nil {
		s.fail("createContactList", err)
		return nil, err
	}
	s.mu.Lock()
	s.state.Loading = false
	s.state.ContactLists = append(s.state.ContactLists, *saved)
	s.mu.Unlock()
	return saved, nil
}

// AddContactsToList merges the given contact ids into the target list
// with set semantics: ids already present are dropped, so the operation
// is idempotent. The read-merge-write sequence is not isolated against a
// concurrent writer of the same list.
func (s *Service) AddContactsToList(ctx context.Context, listID int64, contactIDs []int64) (*domain.ContactList, error) {
	s.begin()
	l, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		s.fail("addContactsToList", err)
		return nil, err
	}
	l.Merge(contactIDs)
	saved, err := s.lists.Update(ctx, l)
	if err != nil {
		s.fail("addContactsToList", err)
		return nil, err
	}

	s.mu.Lock()
	s.state.Loading = false
	for i := range s.state.ContactLists {
		if s.state.ContactLists[i].ID == saved.ID {
			s.state.ContactLists[i] = *saved
			break
		}
	}
	s.mu.Unlock()
	return saved, nil
}
