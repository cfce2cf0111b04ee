package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchDAO_ReserveStock(t *testing.T) {
	db := newTestDB(t)
	d := NewMerchDAO(db)
	ctx := context.Background()

	_, err := d.Insert(ctx, MerchItem{
		ID:            "merch_a",
		Name:          "T-shirt",
		PointsCost:    50,
		QuantityTotal: 2,
		QuantityLeft:  2,
	})
	require.NoError(t, err)

	require.NoError(t, d.ReserveStock(ctx, "merch_a"))
	require.NoError(t, d.ReserveStock(ctx, "merch_a"))

	// The third reservation finds nothing left.
	assert.ErrorIs(t, d.ReserveStock(ctx, "merch_a"), ErrOutOfStock)

	item, err := d.FindByID(ctx, "merch_a")
	require.NoError(t, err)
	assert.Zero(t, item.QuantityLeft)

	require.NoError(t, d.ReleaseStock(ctx, "merch_a"))
	require.NoError(t, d.ReserveStock(ctx, "merch_a"))

	assert.ErrorIs(t, d.ReserveStock(ctx, "missing"), ErrMerchNotFound)
}

func TestMerchDAO_FindAvailable(t *testing.T) {
	db := newTestDB(t)
	d := NewMerchDAO(db)
	ctx := context.Background()

	_, err := d.Insert(ctx, MerchItem{ID: "merch_a", Name: "Cap", PointsCost: 10, QuantityTotal: 1, QuantityLeft: 1})
	require.NoError(t, err)
	_, err = d.Insert(ctx, MerchItem{ID: "merch_b", Name: "Mug", PointsCost: 10, QuantityTotal: 1, QuantityLeft: 0})
	require.NoError(t, err)

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := d.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "merch_a", available[0].ID)
}

func TestMerchDAO_TransitionOrder(t *testing.T) {
	db := newTestDB(t)
	d := NewMerchDAO(db)
	ctx := context.Background()

	_, err := d.InsertOrder(ctx, MerchOrder{
		ID:          "order_1",
		UserID:      1,
		MerchID:     "merch_a",
		PointsSpent: 50,
		Status:      "pending",
	})
	require.NoError(t, err)

	require.NoError(t, d.TransitionOrder(ctx, "order_1", "pending", "cancelled", nil))

	// Once out of pending, both cancel and complete must lose the race.
	assert.ErrorIs(t, d.TransitionOrder(ctx, "order_1", "pending", "cancelled", nil), ErrOrderNotPending)
	assert.ErrorIs(t, d.TransitionOrder(ctx, "order_1", "pending", "completed", nil), ErrOrderNotPending)

	assert.ErrorIs(t, d.TransitionOrder(ctx, "missing", "pending", "cancelled", nil), ErrOrderNotFound)
}

func TestMerchDAO_FindOrders(t *testing.T) {
	db := newTestDB(t)
	d := NewMerchDAO(db)
	ctx := context.Background()

	for _, order := range []MerchOrder{
		{ID: "order_1", UserID: 1, MerchID: "merch_a", PointsSpent: 10, Status: "pending"},
		{ID: "order_2", UserID: 1, MerchID: "merch_b", PointsSpent: 20, Status: "completed"},
		{ID: "order_3", UserID: 2, MerchID: "merch_a", PointsSpent: 10, Status: "pending"},
	} {
		_, err := d.InsertOrder(ctx, order)
		require.NoError(t, err)
	}

	mine, err := d.FindOrdersByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, err := d.FindOrdersByStatus(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	counts, err := d.CountOrdersByStatus(ctx)
	require.NoError(t, err)
	byStatus := map[string]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, 2, byStatus["pending"])
	assert.Equal(t, 1, byStatus["completed"])
}
