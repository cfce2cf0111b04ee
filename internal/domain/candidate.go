package domain

import "time"

// CandidateMark records that one HR marked one attendee. A user's global
// IsCandidate flag is true iff at least one mark exists.
type CandidateMark struct {
	CandidateID int64     `json:"candidate_id"`
	MarkerID    int64     `json:"marker_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type CandidateNote struct {
	ID          uint      `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	AuthorID    int64     `json:"author_id"`
	Text        string    `json:"text"`
	Rating      *int      `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Candidate bundles a marked user with the notes collected about them.
type Candidate struct {
	User  User            `json:"user"`
	Notes []CandidateNote `json:"notes"`
}
