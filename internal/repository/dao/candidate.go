package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// CandidateMark has a composite unique index so marking is naturally
// idempotent per (candidate, marker) pair.
type CandidateMark struct {
	ID uint `gorm:"primaryKey"`

	CandidateID int64 `gorm:"not null;uniqueIndex:idx_candidate_marker"`
	MarkerID    int64 `gorm:"not null;uniqueIndex:idx_candidate_marker"`

	CreatedAt time.Time `gorm:"not null"`
}

type CandidateNote struct {
	ID uint `gorm:"primaryKey"`

	CandidateID int64  `gorm:"not null;index"`
	AuthorID    int64  `gorm:"not null;index"`
	Text        string `gorm:"not null"`
	Rating      *int

	CreatedAt time.Time `gorm:"not null"`
}

type CandidateDAO struct {
	db *gorm.DB
}

func NewCandidateDAO(db *gorm.DB) *CandidateDAO {
	return &CandidateDAO{
		db: db,
	}
}

func (d *CandidateDAO) InsertMark(ctx context.Context, mark CandidateMark) (CandidateMark, error) {
	result := d.db.WithContext(ctx).Create(&mark)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CandidateMark{}, ErrMarkExists
		}

		return CandidateMark{}, result.Error
	}

	return mark, nil
}

// DeleteMark reports whether a mark was actually removed so the caller knows
// if the candidate flag needs recomputing.
func (d *CandidateDAO) DeleteMark(ctx context.Context, candidateID, markerID int64) (bool, error) {
	result := d.db.WithContext(ctx).
		Where("candidate_id = ? AND marker_id = ?", candidateID, markerID).
		Delete(&CandidateMark{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *CandidateDAO) CountMarks(ctx context.Context, candidateID int64) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&CandidateMark{}).
		Where("candidate_id = ?", candidateID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *CandidateDAO) FindMarksByMarker(ctx context.Context, markerID int64) ([]CandidateMark, error) {
	var marks []CandidateMark

	result := d.db.WithContext(ctx).
		Where("marker_id = ?", markerID).
		Order("created_at DESC").
		Find(&marks)
	if result.Error != nil {
		return nil, result.Error
	}

	return marks, nil
}

func (d *CandidateDAO) InsertNote(ctx context.Context, note CandidateNote) (CandidateNote, error) {
	result := d.db.WithContext(ctx).Create(&note)
	if result.Error != nil {
		return CandidateNote{}, result.Error
	}

	return note, nil
}

func (d *CandidateDAO) FindNotes(ctx context.Context, candidateID int64, authorID int64) ([]CandidateNote, error) {
	query := d.db.WithContext(ctx).Where("candidate_id = ?", candidateID)
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}

	var notes []CandidateNote
	result := query.Order("created_at DESC").Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}

	return notes, nil
}
