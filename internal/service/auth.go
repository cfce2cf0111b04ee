package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/pkg/jwthelper"
	"github.com/NiksFok/conf-bot/internal/repository"
)

var ErrUserExists = repository.ErrUserExists

// RegistrationLedger grants the signup bonus through the points ledger so it
// shows up as a regular earn transaction.
type RegistrationLedger interface {
	AddPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error)
}

type AuthService struct {
	users      UserRepository
	points     RegistrationLedger
	conf       *config.PointsConfig
	signingKey string
	logger     *zap.Logger
}

func NewAuthService(users UserRepository, points RegistrationLedger, conf *config.PointsConfig, signingKey string) *AuthService {
	return &AuthService{
		users:      users,
		points:     points,
		conf:       conf,
		signingKey: signingKey,
		logger:     zap.L(),
	}
}

// Register creates the user with the externally assigned id, grants the
// registration bonus and mints the actor token. The bonus failing does not
// fail the registration; it is logged for follow-up instead.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, string, error) {
	user.Role = domain.RoleGuest
	user.Points = 0

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("s.users.Create -> %w", err)
	}

	if bonus := s.conf.RegistrationBonus(); bonus > 0 {
		if _, err := s.points.AddPoints(ctx, created.ID, bonus, domain.ReasonRegistration, ""); err != nil {
			s.logger.Error("registration bonus not granted",
				zap.Int64("user_id", created.ID),
				zap.Int("bonus", bonus),
				zap.Error(err),
			)
		} else {
			created.Points = bonus
		}
	}

	token, err := jwthelper.GenerateToken(s.signingKey, created.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return created, token, nil
}
