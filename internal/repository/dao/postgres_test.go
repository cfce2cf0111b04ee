package dao

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestPostgres_DedupKey verifies the unique-violation path against a real
// Postgres, where the error arrives as a pgconn.PgError instead of gorm's
// translated sentinel. Opt in with TEST_INTEGRATION=1.
func TestPostgres_DedupKey(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run dockertest-based tests")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=test sslmode=disable", resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		return openErr
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	d := NewTransactionDAO(db)
	ctx := context.Background()

	_, err = d.Append(ctx, PointsTransaction{
		UserID:    1,
		Amount:    10,
		Direction: "earn",
		Reason:    "stand_visit",
		Status:    "active",
		DedupKey:  strPtr("visit:1:stand_pg"),
	})
	require.NoError(t, err)

	_, err = d.Append(ctx, PointsTransaction{
		UserID:    1,
		Amount:    10,
		Direction: "earn",
		Reason:    "stand_visit",
		Status:    "active",
		DedupKey:  strPtr("visit:1:stand_pg"),
	})
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
}
