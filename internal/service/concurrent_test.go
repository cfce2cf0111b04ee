package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiksFok/conf-bot/internal/domain"
)

// These tests hammer the conditional updates from multiple goroutines. The
// shared sqlite connection serializes the statements, which is exactly the
// guarantee the single-statement updates rely on under Postgres too.

func TestPointsService_ConcurrentSubtract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 1, domain.RoleGuest)

	_, err := env.points.AddPoints(ctx, 1, 50, domain.ReasonAdminAdjustment, "")
	require.NoError(t, err)

	const workers = 10

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.points.SubtractPoints(ctx, 1, 10, domain.ReasonAdminAdjustment, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	}
	assert.Equal(t, 5, succeeded, "only five debits fit into 50 points")

	balance, err := env.points.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	assert.Equal(t, 0, env.activeLedgerBalance(t, 1), "ledger agrees with the balance")
}

func TestPointsService_ConcurrentVisitCredits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 1, domain.RoleGuest)
	env.mustCreateUser(t, 2, domain.RoleStandist)
	env.mustCreateStand(t, "stand_a", 2, 15)

	const workers = 4

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.points.CreditStandVisit(ctx, 1, "stand_a")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyVisited)
	}
	assert.Equal(t, 1, succeeded, "the unique dedup key picks exactly one winner")

	balance, err := env.points.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	stand, err := env.stands.FindByID(ctx, "stand_a")
	require.NoError(t, err)
	assert.Equal(t, 1, stand.Visits)
}

func TestMerchService_ConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 1, domain.RoleGuest)
	env.mustCreateUser(t, 2, domain.RoleGuest)

	for _, id := range []int64{1, 2} {
		_, err := env.points.AddPoints(ctx, id, 40, domain.ReasonAdminAdjustment, "")
		require.NoError(t, err)
	}

	item, err := env.merch.CreateMerch(ctx, domain.MerchItem{Name: "Hoodie", PointsCost: 20, QuantityTotal: 1})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []int64{1, 2} {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, errs[i] = env.merch.CreateOrder(ctx, userID, item.ID)
		}(i, userID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrOutOfStock)
	}
	assert.Equal(t, 1, succeeded, "the conditional decrement hands out the last unit once")

	updated, err := env.merch.GetMerch(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.QuantityLeft)

	// The loser keeps their points.
	totalBalance := 0
	for _, id := range []int64{1, 2} {
		balance, err := env.points.GetBalance(ctx, id)
		require.NoError(t, err)
		totalBalance += balance
	}
	assert.Equal(t, 60, totalBalance)

	orders, err := env.merch.ListPendingOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
