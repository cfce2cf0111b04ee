package repository

import (
	"context"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

var ErrMarkExists = dao.ErrMarkExists

type CandidateDAO interface {
	InsertMark(ctx context.Context, mark dao.CandidateMark) (dao.CandidateMark, error)
	DeleteMark(ctx context.Context, candidateID, markerID int64) (bool, error)
	CountMarks(ctx context.Context, candidateID int64) (int64, error)
	FindMarksByMarker(ctx context.Context, markerID int64) ([]dao.CandidateMark, error)
	InsertNote(ctx context.Context, note dao.CandidateNote) (dao.CandidateNote, error)
	FindNotes(ctx context.Context, candidateID, authorID int64) ([]dao.CandidateNote, error)
}

type CandidateRepository struct {
	dao CandidateDAO
}

func NewCandidateRepository(dao CandidateDAO) *CandidateRepository {
	return &CandidateRepository{
		dao: dao,
	}
}

func (r *CandidateRepository) AddMark(ctx context.Context, mark domain.CandidateMark) error {
	if _, err := r.dao.InsertMark(ctx, dao.CandidateMark{
		CandidateID: mark.CandidateID,
		MarkerID:    mark.MarkerID,
	}); err != nil {
		return fmt.Errorf("r.dao.InsertMark -> %w", err)
	}

	return nil
}

// RemoveMark reports whether a mark was actually deleted so the caller can
// decide whether the candidate flag needs recomputing.
func (r *CandidateRepository) RemoveMark(ctx context.Context, candidateID, markerID int64) (bool, error) {
	removed, err := r.dao.DeleteMark(ctx, candidateID, markerID)
	if err != nil {
		return false, fmt.Errorf("r.dao.DeleteMark -> %w", err)
	}

	return removed, nil
}

func (r *CandidateRepository) CountMarks(ctx context.Context, candidateID int64) (int64, error) {
	count, err := r.dao.CountMarks(ctx, candidateID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountMarks -> %w", err)
	}

	return count, nil
}

func (r *CandidateRepository) FindMarksByMarker(ctx context.Context, markerID int64) ([]domain.CandidateMark, error) {
	found, err := r.dao.FindMarksByMarker(ctx, markerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMarksByMarker -> %w", err)
	}

	marks := make([]domain.CandidateMark, len(found))
	for i, m := range found {
		marks[i] = domain.CandidateMark{
			CandidateID: m.CandidateID,
			MarkerID:    m.MarkerID,
			CreatedAt:   m.CreatedAt,
		}
	}

	return marks, nil
}

func (r *CandidateRepository) AddNote(ctx context.Context, note domain.CandidateNote) (domain.CandidateNote, error) {
	created, err := r.dao.InsertNote(ctx, dao.CandidateNote{
		CandidateID: note.CandidateID,
		AuthorID:    note.AuthorID,
		Text:        note.Text,
		Rating:      note.Rating,
	})
	if err != nil {
		return domain.CandidateNote{}, fmt.Errorf("r.dao.InsertNote -> %w", err)
	}

	return r.noteToDomain(created), nil
}

// FindNotes returns a candidate's notes; authorID 0 means notes by anyone.
func (r *CandidateRepository) FindNotes(ctx context.Context, candidateID, authorID int64) ([]domain.CandidateNote, error) {
	found, err := r.dao.FindNotes(ctx, candidateID, authorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindNotes -> %w", err)
	}

	notes := make([]domain.CandidateNote, len(found))
	for i, n := range found {
		notes[i] = r.noteToDomain(n)
	}

	return notes, nil
}

func (r *CandidateRepository) noteToDomain(n dao.CandidateNote) domain.CandidateNote {
	return domain.CandidateNote{
		ID:          n.ID,
		CandidateID: n.CandidateID,
		AuthorID:    n.AuthorID,
		Text:        n.Text,
		Rating:      n.Rating,
		CreatedAt:   n.CreatedAt,
	}
}
