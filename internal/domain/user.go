package domain

import "time"

type Role string

const (
	RoleGuest    Role = "guest"
	RoleStandist Role = "standist"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleStandist, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// User is a registered conference attendee. The ID is assigned externally by
// the messaging platform, never generated here.
type User struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Occupation  string    `json:"occupation,omitempty"`
	Company     string    `json:"company,omitempty"`
	Role        Role      `json:"role"`
	Points      int       `json:"points"`
	IsBlocked   bool      `json:"is_blocked"`
	IsCandidate bool      `json:"is_candidate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
