package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Stand struct {
	ID string `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string
	Location    string
	OwnerID     int64 `gorm:"not null;index"`

	Visits         int `gorm:"not null;default:0"`
	PointsPerVisit int `gorm:"not null;default:10"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StandDAO struct {
	db *gorm.DB
}

func NewStandDAO(db *gorm.DB) *StandDAO {
	return &StandDAO{
		db: db,
	}
}

func (d *StandDAO) Insert(ctx context.Context, stand Stand) (Stand, error) {
	result := d.db.WithContext(ctx).Create(&stand)
	if result.Error != nil {
		return Stand{}, result.Error
	}

	return stand, nil
}

func (d *StandDAO) FindByID(ctx context.Context, id string) (Stand, error) {
	var stand Stand

	result := d.db.WithContext(ctx).First(&stand, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stand{}, ErrStandNotFound
		}

		return Stand{}, result.Error
	}

	return stand, nil
}

func (d *StandDAO) FindByOwner(ctx context.Context, ownerID int64) (Stand, error) {
	var stand Stand

	result := d.db.WithContext(ctx).First(&stand, "owner_id = ?", ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stand{}, ErrStandNotFound
		}

		return Stand{}, result.Error
	}

	return stand, nil
}

func (d *StandDAO) FindAll(ctx context.Context) ([]Stand, error) {
	var stands []Stand

	result := d.db.WithContext(ctx).Order("id").Find(&stands)
	if result.Error != nil {
		return nil, result.Error
	}

	return stands, nil
}

func (d *StandDAO) Update(ctx context.Context, stand Stand) (Stand, error) {
	result := d.db.WithContext(ctx).Save(&stand)
	if result.Error != nil {
		return Stand{}, result.Error
	}

	return stand, nil
}

func (d *StandDAO) IncrementVisits(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).
		Model(&Stand{}).
		Where("id = ?", id).
		Update("visits", gorm.Expr("visits + 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrStandNotFound
	}

	return nil
}
