package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement:false"`

	FirstName  string `gorm:"not null"`
	LastName   string
	Occupation string
	Company    string

	Role        string `gorm:"not null;default:guest"`
	Points      int    `gorm:"not null;default:0"`
	IsBlocked   bool   `gorm:"not null;default:false"`
	IsCandidate bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id int64) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) FindCandidates(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("is_candidate = ?", true).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// AdjustPoints applies delta to the user's balance as a single conditional
// update. The WHERE clause rejects any adjustment that would drive the
// balance negative, which makes concurrent debits of the same user safe
// without application-side locking.
func (d *UserDAO) AdjustPoints(ctx context.Context, id int64, delta int) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ? AND points + ? >= 0", id, delta).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing user from a guarded balance.
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}

		return ErrInsufficientPoints
	}

	return nil
}

func (d *UserDAO) UpdateRole(ctx context.Context, id int64, role string) error {
	return d.updateField(ctx, id, "role", role)
}

func (d *UserDAO) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return d.updateField(ctx, id, "is_blocked", blocked)
}

func (d *UserDAO) SetCandidate(ctx context.Context, id int64, candidate bool) error {
	return d.updateField(ctx, id, "is_candidate", candidate)
}

func (d *UserDAO) updateField(ctx context.Context, id int64, column string, value interface{}) error {
	result := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
