package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PointsTransaction is an append-only ledger row. DedupKey is set only for
// accruals that must be exactly-once (stand visits); the unique index turns a
// concurrent duplicate credit into an insert failure instead of a double
// credit.
type PointsTransaction struct {
	ID uint `gorm:"primaryKey"`

	UserID      int64   `gorm:"not null;index"`
	Amount      int     `gorm:"not null"`
	Direction   string  `gorm:"not null"`
	Reason      string  `gorm:"not null;index"`
	ReferenceID string  `gorm:"index"`
	Status      string  `gorm:"not null;default:active"`
	DedupKey    *string `gorm:"uniqueIndex"`

	CreatedAt time.Time `gorm:"not null"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}

// TransactionFilter narrows Count queries. Zero values mean "any".
type TransactionFilter struct {
	UserID      int64
	Reason      string
	ReferenceID string
	Status      string
}

type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{
		db: db,
	}
}

func (d *TransactionDAO) Append(ctx context.Context, tx PointsTransaction) (PointsTransaction, error) {
	result := d.db.WithContext(ctx).Create(&tx)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return PointsTransaction{}, ErrDuplicateTransaction
		}

		return PointsTransaction{}, result.Error
	}

	return tx, nil
}

func (d *TransactionDAO) FindByID(ctx context.Context, id uint) (PointsTransaction, error) {
	var tx PointsTransaction

	result := d.db.WithContext(ctx).First(&tx, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PointsTransaction{}, ErrTransactionNotFound
		}

		return PointsTransaction{}, result.Error
	}

	return tx, nil
}

func (d *TransactionDAO) FindByUser(ctx context.Context, userID int64) ([]PointsTransaction, error) {
	var txs []PointsTransaction

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txs)
	if result.Error != nil {
		return nil, result.Error
	}

	return txs, nil
}

func (d *TransactionDAO) Count(ctx context.Context, filter TransactionFilter) (int64, error) {
	query := d.db.WithContext(ctx).Model(&PointsTransaction{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}
	if filter.ReferenceID != "" {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (d *TransactionDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&PointsTransaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

type ReasonTotal struct {
	Reason    string
	Direction string
	Total     int
}

// SumByReason feeds the statistics view; only active rows count.
func (d *TransactionDAO) SumByReason(ctx context.Context) ([]ReasonTotal, error) {
	var totals []ReasonTotal

	result := d.db.WithContext(ctx).
		Model(&PointsTransaction{}).
		Select("reason, direction, SUM(amount) AS total").
		Where("status = ?", "active").
		Group("reason, direction").
		Find(&totals)
	if result.Error != nil {
		return nil, result.Error
	}

	return totals, nil
}
