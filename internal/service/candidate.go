package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository"
)

type CandidateRepository interface {
	AddMark(ctx context.Context, mark domain.CandidateMark) error
	RemoveMark(ctx context.Context, candidateID, markerID int64) (bool, error)
	CountMarks(ctx context.Context, candidateID int64) (int64, error)
	FindMarksByMarker(ctx context.Context, markerID int64) ([]domain.CandidateMark, error)
	AddNote(ctx context.Context, note domain.CandidateNote) (domain.CandidateNote, error)
	FindNotes(ctx context.Context, candidateID, authorID int64) ([]domain.CandidateNote, error)
}

type CandidateService struct {
	repo  CandidateRepository
	users UserRepository
}

func NewCandidateService(repo CandidateRepository, users UserRepository) *CandidateService {
	return &CandidateService{
		repo:  repo,
		users: users,
	}
}

// Mark flags an attendee as a hiring candidate for one marker. Marking twice
// is a no-op, and the user's global candidate flag follows the existence of
// at least one mark.
func (s *CandidateService) Mark(ctx context.Context, candidateID, markerID int64) error {
	if _, err := s.users.FindByID(ctx, candidateID); err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	err := s.repo.AddMark(ctx, domain.CandidateMark{
		CandidateID: candidateID,
		MarkerID:    markerID,
	})
	if err != nil && !errors.Is(err, repository.ErrMarkExists) {
		return fmt.Errorf("s.repo.AddMark -> %w", err)
	}

	if err := s.users.SetCandidate(ctx, candidateID, true); err != nil {
		return fmt.Errorf("s.users.SetCandidate -> %w", err)
	}

	return nil
}

// Unmark removes this marker's mark and clears the candidate flag when no
// marks remain.
func (s *CandidateService) Unmark(ctx context.Context, candidateID, markerID int64) error {
	removed, err := s.repo.RemoveMark(ctx, candidateID, markerID)
	if err != nil {
		return fmt.Errorf("s.repo.RemoveMark -> %w", err)
	}
	if !removed {
		return nil
	}

	count, err := s.repo.CountMarks(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("s.repo.CountMarks -> %w", err)
	}

	if count == 0 {
		if err := s.users.SetCandidate(ctx, candidateID, false); err != nil {
			return fmt.Errorf("s.users.SetCandidate -> %w", err)
		}
	}

	return nil
}

// AddNote stores a note about a candidate, marking them first if the author
// had not yet.
func (s *CandidateService) AddNote(ctx context.Context, note domain.CandidateNote) (domain.CandidateNote, error) {
	if err := s.Mark(ctx, note.CandidateID, note.AuthorID); err != nil {
		return domain.CandidateNote{}, err
	}

	created, err := s.repo.AddNote(ctx, note)
	if err != nil {
		return domain.CandidateNote{}, fmt.Errorf("s.repo.AddNote -> %w", err)
	}

	return created, nil
}

// GetNotes returns a candidate's notes; authorID 0 means notes by anyone.
func (s *CandidateService) GetNotes(ctx context.Context, candidateID, authorID int64) ([]domain.CandidateNote, error) {
	if _, err := s.users.FindByID(ctx, candidateID); err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	notes, err := s.repo.FindNotes(ctx, candidateID, authorID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindNotes -> %w", err)
	}

	return notes, nil
}

func (s *CandidateService) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	users, err := s.users.FindCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindCandidates -> %w", err)
	}

	candidates := make([]domain.Candidate, len(users))
	for i, u := range users {
		notes, err := s.repo.FindNotes(ctx, u.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindNotes -> %w", err)
		}

		candidates[i] = domain.Candidate{
			User:  u,
			Notes: notes,
		}
	}

	return candidates, nil
}

func (s *CandidateService) ListMarkedBy(ctx context.Context, markerID int64) ([]domain.User, error) {
	marks, err := s.repo.FindMarksByMarker(ctx, markerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindMarksByMarker -> %w", err)
	}

	users := make([]domain.User, 0, len(marks))
	for _, m := range marks {
		user, err := s.users.FindByID(ctx, m.CandidateID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}

			return nil, fmt.Errorf("s.users.FindByID -> %w", err)
		}

		users = append(users, user)
	}

	return users, nil
}
