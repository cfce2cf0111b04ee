package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MerchItem struct {
	ID string `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string
	ImageURL    string

	PointsCost    int `gorm:"not null"`
	QuantityTotal int `gorm:"not null"`
	QuantityLeft  int `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type MerchOrder struct {
	ID string `gorm:"primaryKey"`

	UserID      int64  `gorm:"not null;index"`
	MerchID     string `gorm:"not null;index"`
	PointsSpent int    `gorm:"not null"`
	Status      string `gorm:"not null;default:pending"`

	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time
}

type MerchDAO struct {
	db *gorm.DB
}

func NewMerchDAO(db *gorm.DB) *MerchDAO {
	return &MerchDAO{
		db: db,
	}
}

func (d *MerchDAO) Insert(ctx context.Context, item MerchItem) (MerchItem, error) {
	result := d.db.WithContext(ctx).Create(&item)
	if result.Error != nil {
		return MerchItem{}, result.Error
	}

	return item, nil
}

func (d *MerchDAO) FindByID(ctx context.Context, id string) (MerchItem, error) {
	var item MerchItem

	result := d.db.WithContext(ctx).First(&item, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MerchItem{}, ErrMerchNotFound
		}

		return MerchItem{}, result.Error
	}

	return item, nil
}

func (d *MerchDAO) FindAll(ctx context.Context) ([]MerchItem, error) {
	var items []MerchItem

	result := d.db.WithContext(ctx).Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *MerchDAO) FindAvailable(ctx context.Context) ([]MerchItem, error) {
	var items []MerchItem

	result := d.db.WithContext(ctx).Where("quantity_left > 0").Order("id").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *MerchDAO) Update(ctx context.Context, item MerchItem) (MerchItem, error) {
	result := d.db.WithContext(ctx).Save(&item)
	if result.Error != nil {
		return MerchItem{}, result.Error
	}

	return item, nil
}

// ReserveStock decrements quantity_left by one, but only while stock remains.
// The conditional update is the only race-free way to hand out the last unit
// when two redemptions arrive at once.
func (d *MerchDAO) ReserveStock(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).
		Model(&MerchItem{}).
		Where("id = ? AND quantity_left > 0", id).
		Update("quantity_left", gorm.Expr("quantity_left - 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}

		return ErrOutOfStock
	}

	return nil
}

func (d *MerchDAO) ReleaseStock(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).
		Model(&MerchItem{}).
		Where("id = ?", id).
		Update("quantity_left", gorm.Expr("quantity_left + 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMerchNotFound
	}

	return nil
}

func (d *MerchDAO) InsertOrder(ctx context.Context, order MerchOrder) (MerchOrder, error) {
	result := d.db.WithContext(ctx).Create(&order)
	if result.Error != nil {
		return MerchOrder{}, result.Error
	}

	return order, nil
}

func (d *MerchDAO) FindOrderByID(ctx context.Context, id string) (MerchOrder, error) {
	var order MerchOrder

	result := d.db.WithContext(ctx).First(&order, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MerchOrder{}, ErrOrderNotFound
		}

		return MerchOrder{}, result.Error
	}

	return order, nil
}

func (d *MerchDAO) FindOrdersByUser(ctx context.Context, userID int64) ([]MerchOrder, error) {
	var orders []MerchOrder

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

func (d *MerchDAO) FindOrdersByStatus(ctx context.Context, status string) ([]MerchOrder, error) {
	var orders []MerchOrder

	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// TransitionOrder moves an order out of pending. The WHERE on the current
// status makes cancel/complete idempotence checks race-free: the second
// caller simply matches zero rows.
func (d *MerchDAO) TransitionOrder(ctx context.Context, id, from, to string, completedAt *time.Time) error {
	updates := map[string]interface{}{
		"status": to,
	}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}

	result := d.db.WithContext(ctx).
		Model(&MerchOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := d.FindOrderByID(ctx, id); err != nil {
			return err
		}

		return ErrOrderNotPending
	}

	return nil
}

type OrderStatusCount struct {
	Status string
	Count  int
}

func (d *MerchDAO) CountOrdersByStatus(ctx context.Context) ([]OrderStatusCount, error) {
	var counts []OrderStatusCount

	result := d.db.WithContext(ctx).
		Model(&MerchOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}
