package domain

import "time"

// ContactType categorizes an extracted contact value.
type ContactType string

const (
	ContactEmail  ContactType = "email"
	ContactPhone  ContactType = "phone"
	ContactSocial ContactType = "social"
)

// Contact is a single extracted contact record. Contacts are created only
// as a side effect of a successful extraction call and are immutable once
// stored, except for metadata updates.
type Contact struct {
	ID        int64          `json:"id"`
	Type      ContactType    `json:"type"`
	Value     string         `json:"value"`
	Source    string         `json:"source,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// ContactList groups contacts by id. The list holds weak references:
// deleting a contact does not remove it from lists that mention it.
// The Contacts sequence never contains duplicate ids.
type ContactList struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Contacts  []int64    `json:"contacts"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Has reports whether the list already references the given contact id.
func (l *ContactList) Has(contactID int64) bool {
	for _, id := range l.Contacts {
		if id == contactID {
			return true
		}
	}
	return false
}

// Merge adds the given contact ids to the list, dropping duplicates.
// Existing order is preserved; new ids are appended in input order.
// Returns the number of ids actually added.
func (l *ContactList) Merge(contactIDs []int64) int {
	added := 0
	for _, id := range contactIDs {
		if l.Has(id) {
			continue
		}
		l.Contacts = append(l.Contacts, id)
		added++
	}
	return added
}
