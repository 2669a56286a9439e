package domain

import "time"

// UserID is the fixed id of the single user record. The user collection
// holds at most one record.
const UserID int64 = 1

// User holds the session/profile data persisted by the landing flow.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Company   string     `json:"company,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
