package domain

import "time"

type TransactionDirection string

const (
	DirectionEarn  TransactionDirection = "earn"
	DirectionSpend TransactionDirection = "spend"
)

type TransactionReason string

const (
	ReasonStandVisit      TransactionReason = "stand_visit"
	ReasonMerchOrder      TransactionReason = "merch_order"
	ReasonRegistration    TransactionReason = "registration"
	ReasonAdminAdjustment TransactionReason = "admin_adjustment"
	ReasonOther           TransactionReason = "other"
)

// CancelReason derives the reason code for a compensating transaction that
// reverses a transaction recorded with the given reason.
func CancelReason(original TransactionReason) TransactionReason {
	return TransactionReason("cancel_" + string(original))
}

type TransactionStatus string

const (
	StatusActive    TransactionStatus = "active"
	StatusCancelled TransactionStatus = "cancelled"
)

// PointsTransaction is an immutable ledger row. Amount is always the positive
// magnitude; the direction tag carries the sign so reversals never flip signs
// twice. Rows are never deleted, only tombstoned via Status.
type PointsTransaction struct {
	ID          uint                 `json:"id"`
	UserID      int64                `json:"user_id"`
	Amount      int                  `json:"amount"`
	Direction   TransactionDirection `json:"direction"`
	Reason      TransactionReason    `json:"reason"`
	ReferenceID string               `json:"reference_id,omitempty"`
	Status      TransactionStatus    `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// PointsSummary aggregates the ledger for the admin statistics view.
type PointsSummary struct {
	TotalEarned   int            `json:"total_earned"`
	TotalSpent    int            `json:"total_spent"`
	TotalBalance  int            `json:"total_balance"`
	EarnByReason  map[string]int `json:"earn_by_reason"`
	SpendByReason map[string]int `json:"spend_by_reason"`
}
