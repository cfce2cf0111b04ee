package domain

import "time"

// MerchItem is a finite-stock reward. QuantityLeft only decreases through the
// store's atomic reserve and only increases through order cancellation.
type MerchItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	PointsCost    int       `json:"points_cost"`
	QuantityTotal int       `json:"quantity_total"`
	QuantityLeft  int       `json:"quantity_left"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// MerchOrder is a redemption transaction: created pending together with a
// stock decrement and a points debit, then completed at pickup or cancelled
// with stock and points restored.
type MerchOrder struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"user_id"`
	MerchID     string      `json:"merch_id"`
	PointsSpent int         `json:"points_spent"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// MerchSummary aggregates the catalog and order book for the admin
// statistics view.
type MerchSummary struct {
	TotalItems        int `json:"total_items"`
	TotalQuantity     int `json:"total_quantity"`
	AvailableQuantity int `json:"available_quantity"`
	OrderedQuantity   int `json:"ordered_quantity"`
	PendingOrders     int `json:"pending_orders"`
	CompletedOrders   int `json:"completed_orders"`
	CancelledOrders   int `json:"cancelled_orders"`
}
