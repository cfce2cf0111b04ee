package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrDuplicateTransaction = errors.New("transaction with this dedup key already exists")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrStandNotFound        = errors.New("stand not found")
	ErrMerchNotFound        = errors.New("merch item not found")
	ErrOutOfStock           = errors.New("merch item out of stock")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotPending      = errors.New("order is not pending")
	ErrMarkExists           = errors.New("candidate mark already exists")
)

// isUniqueViolation recognizes a unique-constraint failure from either the
// pgx driver or gorm's translated error, so the same DAO code works against
// Postgres in production and sqlite in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
