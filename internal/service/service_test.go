package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/notifier"
	"github.com/NiksFok/conf-bot/internal/repository"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

// testEnv wires the full service stack over an in-memory sqlite database so
// tests exercise the same conditional updates production runs on Postgres.
type testEnv struct {
	users      *repository.UserRepository
	stands     *repository.StandRepository
	merchRepo  *repository.MerchRepository
	points     *PointsService
	merch      *MerchService
	candidates *CandidateService
	roles      *RoleService
	standSvc   *StandService
	scan       *ScanService
	auth       *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
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

	users := repository.NewUserRepository(dao.NewUserDAO(db))
	ledger := repository.NewLedgerRepository(dao.NewTransactionDAO(db))
	stands := repository.NewStandRepository(dao.NewStandDAO(db))
	merchRepo := repository.NewMerchRepository(dao.NewMerchDAO(db))
	candidates := repository.NewCandidateRepository(dao.NewCandidateDAO(db))

	conf := config.NewPointsConfig(10, 10)
	notify := notifier.NewLogNotifier()

	roles := NewRoleService(users)
	points := NewPointsService(users, ledger, stands, notify, conf)
	merch := NewMerchService(merchRepo, points, notify)
	candidateSvc := NewCandidateService(candidates, users)
	standSvc := NewStandService(stands, conf)
	scan := NewScanService(roles, points, candidateSvc, merch, stands)
	auth := NewAuthService(users, points, conf, "test-signing-key")

	return &testEnv{
		users:      users,
		stands:     stands,
		merchRepo:  merchRepo,
		points:     points,
		merch:      merch,
		candidates: candidateSvc,
		roles:      roles,
		standSvc:   standSvc,
		scan:       scan,
		auth:       auth,
	}
}

func (e *testEnv) mustCreateUser(t *testing.T, id int64, role domain.Role) domain.User {
	t.Helper()

	user, err := e.users.Create(context.Background(), domain.User{
		ID:        id,
		FirstName: fmt.Sprintf("user-%d", id),
		Role:      role,
	})
	require.NoError(t, err)

	return user
}

func (e *testEnv) mustCreateStand(t *testing.T, id string, ownerID int64, pointsPerVisit int) domain.Stand {
	t.Helper()

	stand, err := e.stands.Create(context.Background(), domain.Stand{
		ID:             id,
		Name:           "Stand " + id,
		OwnerID:        ownerID,
		PointsPerVisit: pointsPerVisit,
	})
	require.NoError(t, err)

	return stand
}

// activeLedgerBalance recomputes the balance from active ledger rows, the
// invariant every mutation must preserve.
func (e *testEnv) activeLedgerBalance(t *testing.T, userID int64) int {
	t.Helper()

	txs, err := e.points.GetTransactions(context.Background(), userID)
	require.NoError(t, err)

	total := 0
	for _, tx := range txs {
		if tx.Status != domain.StatusActive {
			continue
		}
		if tx.Direction == domain.DirectionEarn {
			total += tx.Amount
		} else {
			total -= tx.Amount
		}
	}

	return total
}
