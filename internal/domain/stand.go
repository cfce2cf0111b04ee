package domain

import "time"

// Stand is an exhibitor booth. Visits is a denormalized counter bumped on
// every successful visit credit.
type Stand struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	OwnerID        int64     `json:"owner_id"`
	Visits         int       `json:"visits"`
	PointsPerVisit int       `json:"points_per_visit"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VisitCredit is the outcome of a successful stand-visit accrual.
type VisitCredit struct {
	VisitorID int64  `json:"visitor_id"`
	StandID   string `json:"stand_id"`
	StandName string `json:"stand_name"`
	Points    int    `json:"points"`
}
