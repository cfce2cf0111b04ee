package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

const testSigningKey = "test-signing-key"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			JWTSigningKey: testSigningKey,
		},
		Gin:    &config.GinConfig{Mode: gin.TestMode},
		Points: config.NewPointsConfig(10, 10),
	}

	return NewServer(conf, db), db
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// register creates an attendee through the public endpoint and returns the
// actor token.
func register(t *testing.T, srv *Server, id int64, firstName string) string {
	t.Helper()

	rec := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"id":         id,
		"first_name": firstName,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

// promote flips a role straight in storage, the same thing an operator would
// do for the first admin.
func promote(t *testing.T, db *gorm.DB, userID int64, role domain.Role) {
	t.Helper()

	users := repository.NewUserRepository(dao.NewUserDAO(db))
	require.NoError(t, users.SetRole(context.Background(), userID, role))
}

func TestHealthcheck(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/scan", "", gin.H{"payload": "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/scan", "not-a-jwt", gin.H{"payload": "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{"id": 0, "first_name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	register(t, srv, 7, "Ada")
	rec = do(t, srv, http.MethodPost, "/api/v1/auth/register", "", gin.H{"id": 7, "first_name": "Ada"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// TestEngagementFlow walks the whole conference day: registration, stand
// visits, an admin adjustment, a merch order with its cancellation, and the
// statistics views.
func TestEngagementFlow(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)

	visitorToken := register(t, srv, 2, "Visitor")

	standistToken := register(t, srv, 3, "Standist")
	rec := do(t, srv, http.MethodPost, "/api/v1/admin/users/3/role", adminToken, gin.H{"role": "standist"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// The standist gets a stand paying 15 points per visit.
	rec = do(t, srv, http.MethodPost, "/api/v1/stands", adminToken, gin.H{
		"name":             "Acme Corp",
		"owner_id":         3,
		"points_per_visit": 15,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Standist scans the visitor's badge.
	rec = do(t, srv, http.MethodPost, "/api/v1/scan", standistToken, gin.H{"payload": "2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var scan domain.ScanResult
	decode(t, rec, &scan)
	assert.Equal(t, domain.ScanVisitCredited, scan.Outcome)

	// Scanning the same badge again changes nothing.
	rec = do(t, srv, http.MethodPost, "/api/v1/scan", standistToken, gin.H{"payload": "2"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &scan)
	assert.Equal(t, domain.ScanAlreadyVisited, scan.Outcome)

	// Registration bonus 10 plus one visit at 15.
	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/balance", visitorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance int `json:"balance"`
	}
	decode(t, rec, &balance)
	assert.Equal(t, 25, balance.Balance)

	// Admin puts one cap on the shelf.
	rec = do(t, srv, http.MethodPost, "/api/v1/merch", adminToken, gin.H{
		"name":           "Cap",
		"points_cost":    20,
		"quantity_total": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item domain.MerchItem
	decode(t, rec, &item)

	// Visitor orders it.
	rec = do(t, srv, http.MethodPost, "/api/v1/merch/"+item.ID+"/order", visitorToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order domain.MerchOrder
	decode(t, rec, &order)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, 20, order.PointsSpent)

	// The shelf is empty now.
	rec = do(t, srv, http.MethodPost, "/api/v1/merch/"+item.ID+"/order", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/balance", visitorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &balance)
	assert.Equal(t, 5, balance.Balance)

	// Visitor changes their mind; stock and points come back.
	rec = do(t, srv, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", visitorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	assert.Equal(t, domain.OrderCancelled, order.Status)

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/balance", visitorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &balance)
	assert.Equal(t, 25, balance.Balance)

	// Cancelling twice is a conflict.
	rec = do(t, srv, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", visitorToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Admin stats see through it all.
	rec = do(t, srv, http.MethodGet, "/api/v1/admin/stats/merch", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var merchStats domain.MerchSummary
	decode(t, rec, &merchStats)
	assert.Equal(t, 1, merchStats.TotalItems)
	assert.Equal(t, 1, merchStats.AvailableQuantity)
	assert.Equal(t, 1, merchStats.CancelledOrders)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/stats/points", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdateMerch(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)
	userToken := register(t, srv, 2, "Bob")

	rec := do(t, srv, http.MethodPost, "/api/v1/merch", adminToken, gin.H{
		"name":           "Sticker pack",
		"points_cost":    5,
		"quantity_total": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item domain.MerchItem
	decode(t, rec, &item)

	rec = do(t, srv, http.MethodPut, "/api/v1/merch/"+item.ID, userToken, gin.H{"points_cost": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/v1/merch/"+item.ID, adminToken, gin.H{
		"description": "Limited edition",
		"points_cost": 8,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &item)
	assert.Equal(t, "Sticker pack", item.Name)
	assert.Equal(t, "Limited edition", item.Description)
	assert.Equal(t, 8, item.PointsCost)
	assert.Equal(t, 10, item.QuantityLeft)

	rec = do(t, srv, http.MethodPut, "/api/v1/merch/missing", adminToken, gin.H{"points_cost": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanErrorMapping(t *testing.T) {
	srv, db := newTestServer(t)

	guestToken := register(t, srv, 2, "Guest")
	hrToken := register(t, srv, 3, "HR")
	promote(t, db, 3, domain.RoleHR)

	// Guests cannot credit or mark anyone.
	rec := do(t, srv, http.MethodPost, "/api/v1/scan", guestToken, gin.H{"payload": "3"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Garbage payloads are the client's fault.
	rec = do(t, srv, http.MethodPost, "/api/v1/scan", hrToken, gin.H{"payload": "???"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/scan", hrToken, gin.H{"payload": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown badge.
	rec = do(t, srv, http.MethodPost, "/api/v1/scan", hrToken, gin.H{"payload": "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// HR marks the guest, then the roster shows them.
	rec = do(t, srv, http.MethodPost, "/api/v1/scan", hrToken, gin.H{"payload": "2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/candidates", hrToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var candidates []domain.Candidate
	decode(t, rec, &candidates)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(2), candidates[0].User.ID)

	// The guest cannot see the roster.
	rec = do(t, srv, http.MethodGet, "/api/v1/candidates", guestToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminBlock(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)
	userToken := register(t, srv, 2, "Mallory")

	rec := do(t, srv, http.MethodPost, "/api/v1/admin/users/2/block", adminToken, gin.H{"blocked": true})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// The token still parses; the block is enforced per request.
	rec = do(t, srv, http.MethodPost, "/api/v1/merch/whatever/order", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/users/2/block", adminToken, gin.H{"blocked": false})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2", userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListUsers(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)
	userToken := register(t, srv, 2, "Bob")
	register(t, srv, 3, "Carol")

	rec := do(t, srv, http.MethodGet, "/api/v1/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	decode(t, rec, &users)
	assert.Len(t, users, 3)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/users?role=guest", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &users)
	assert.Len(t, users, 2)

	rec = do(t, srv, http.MethodGet, "/api/v1/admin/users?role=emperor", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStand(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)

	rec := do(t, srv, http.MethodPost, "/api/v1/stands", adminToken, gin.H{
		"name":     "Acme Corp",
		"owner_id": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var stand domain.Stand
	decode(t, rec, &stand)

	rec = do(t, srv, http.MethodGet, "/api/v1/stands/"+stand.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/stands/missing", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdjustPointsEndpoints(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := register(t, srv, 1, "Admin")
	promote(t, db, 1, domain.RoleAdmin)
	userToken := register(t, srv, 2, "Bob")

	// Non-admin cannot adjust.
	rec := do(t, srv, http.MethodPost, "/api/v1/points/add", userToken, gin.H{"user_id": 2, "amount": 100})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/points/add", adminToken, gin.H{"user_id": 2, "amount": 100, "reason": "quiz_winner"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx domain.PointsTransaction
	decode(t, rec, &tx)
	assert.Equal(t, domain.DirectionEarn, tx.Direction)
	assert.Equal(t, 100, tx.Amount)

	// Draining below zero is rejected, balance untouched.
	rec = do(t, srv, http.MethodPost, "/api/v1/points/subtract", adminToken, gin.H{"user_id": 2, "amount": 1000})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/balance", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance int `json:"balance"`
	}
	decode(t, rec, &balance)
	assert.Equal(t, 110, balance.Balance)

	// Cancel the quiz credit.
	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/cancel", tx.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/balance", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &balance)
	assert.Equal(t, 10, balance.Balance)

	// Cancelling it again is a conflict.
	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/cancel", tx.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Users only see their own ledger.
	rec = do(t, srv, http.MethodGet, "/api/v1/users/1/transactions", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/users/2/transactions", userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
