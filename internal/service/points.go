package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/notifier"
	"github.com/NiksFok/conf-bot/internal/repository"
)

var (
	ErrInsufficientPoints   = repository.ErrInsufficientPoints
	ErrTransactionNotFound  = repository.ErrTransactionNotFound
	ErrInvalidAmount        = errors.New("amount must be a positive integer")
	ErrTransactionCancelled = errors.New("transaction is already cancelled")
	ErrAlreadyVisited       = errors.New("stand already visited")
)

type LedgerRepository interface {
	Append(ctx context.Context, tx domain.PointsTransaction, dedupKey string) (domain.PointsTransaction, error)
	FindByID(ctx context.Context, id uint) (domain.PointsTransaction, error)
	FindByUser(ctx context.Context, userID int64) ([]domain.PointsTransaction, error)
	CountVisits(ctx context.Context, userID int64, standID string) (int64, error)
	MarkCancelled(ctx context.Context, id uint) error
	Summary(ctx context.Context) (domain.PointsSummary, error)
}

// PointsService owns every balance mutation. A mutation is always a pair: the
// conditional balance adjustment on the user row and the ledger row recording
// it. Plain adds and subtracts adjust the balance first; dedup-keyed visit
// credits append first so the unique key decides who wins a duplicate race.
type PointsService struct {
	users    UserRepository
	ledger   LedgerRepository
	stands   StandRepository
	notifier notifier.Notifier
	conf     *config.PointsConfig
	logger   *zap.Logger
}

func NewPointsService(
	users UserRepository,
	ledger LedgerRepository,
	stands StandRepository,
	n notifier.Notifier,
	conf *config.PointsConfig,
) *PointsService {
	return &PointsService{
		users:    users,
		ledger:   ledger,
		stands:   stands,
		notifier: n,
		conf:     conf,
		logger:   zap.L(),
	}
}

func (s *PointsService) AddPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error) {
	return s.apply(ctx, userID, amount, domain.DirectionEarn, reason, referenceID)
}

func (s *PointsService) SubtractPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error) {
	return s.apply(ctx, userID, amount, domain.DirectionSpend, reason, referenceID)
}

func (s *PointsService) apply(ctx context.Context, userID int64, amount int, direction domain.TransactionDirection, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error) {
	if amount <= 0 {
		return domain.PointsTransaction{}, ErrInvalidAmount
	}

	delta := amount
	if direction == domain.DirectionSpend {
		delta = -amount
	}

	if err := s.users.AdjustPoints(ctx, userID, delta); err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("s.users.AdjustPoints -> %w", err)
	}

	tx, err := s.ledger.Append(ctx, domain.PointsTransaction{
		UserID:      userID,
		Amount:      amount,
		Direction:   direction,
		Reason:      reason,
		ReferenceID: referenceID,
		Status:      domain.StatusActive,
	}, "")
	if err != nil {
		// The balance already moved. The missing row is an operator
		// concern, so it must be loud.
		s.logger.Error("balance adjusted but ledger append failed",
			zap.Int64("user_id", userID),
			zap.Int("delta", delta),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)

		return domain.PointsTransaction{}, fmt.Errorf("s.ledger.Append -> %w", err)
	}

	return tx, nil
}

func (s *PointsService) GetBalance(ctx context.Context, userID int64) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	return user.Points, nil
}

func (s *PointsService) GetTransactions(ctx context.Context, userID int64) ([]domain.PointsTransaction, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	txs, err := s.ledger.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindByUser -> %w", err)
	}

	return txs, nil
}

// CancelTransaction reverses a transaction by writing a compensating row with
// the opposite direction and tombstoning both rows. The compensating row is
// born cancelled so the sum of active rows keeps matching the balance.
// Reversing an earn fails with ErrInsufficientPoints when the user has
// already spent the points.
func (s *PointsService) CancelTransaction(ctx context.Context, txID uint) (domain.PointsTransaction, error) {
	orig, err := s.ledger.FindByID(ctx, txID)
	if err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("s.ledger.FindByID -> %w", err)
	}

	if orig.Status == domain.StatusCancelled {
		return domain.PointsTransaction{}, ErrTransactionCancelled
	}

	delta := orig.Amount
	direction := domain.DirectionEarn
	if orig.Direction == domain.DirectionEarn {
		delta = -orig.Amount
		direction = domain.DirectionSpend
	}

	if err := s.users.AdjustPoints(ctx, orig.UserID, delta); err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("s.users.AdjustPoints -> %w", err)
	}

	compensating, err := s.ledger.Append(ctx, domain.PointsTransaction{
		UserID:      orig.UserID,
		Amount:      orig.Amount,
		Direction:   direction,
		Reason:      domain.CancelReason(orig.Reason),
		ReferenceID: fmt.Sprintf("%d", orig.ID),
		Status:      domain.StatusCancelled,
	}, "")
	if err != nil {
		s.logger.Error("reversal adjusted balance but compensating row failed",
			zap.Uint("transaction_id", orig.ID),
			zap.Int64("user_id", orig.UserID),
			zap.Error(err),
		)

		return domain.PointsTransaction{}, fmt.Errorf("s.ledger.Append -> %w", err)
	}

	if err := s.ledger.MarkCancelled(ctx, orig.ID); err != nil {
		s.logger.Error("reversal written but original not tombstoned",
			zap.Uint("transaction_id", orig.ID),
			zap.Error(err),
		)

		return domain.PointsTransaction{}, fmt.Errorf("s.ledger.MarkCancelled -> %w", err)
	}

	return compensating, nil
}

// HasVisited reports whether the visitor ever received a visit credit for the
// stand. Cancelling the credit does not reset this: the dedup key stays in
// the ledger, so the visit can never be credited a second time.
func (s *PointsService) HasVisited(ctx context.Context, userID int64, standID string) (bool, error) {
	count, err := s.ledger.CountVisits(ctx, userID, standID)
	if err != nil {
		return false, fmt.Errorf("s.ledger.CountVisits -> %w", err)
	}

	return count > 0, nil
}

// CreditStandVisit awards the stand's per-visit points to the visitor exactly
// once. The ledger row carries a unique dedup key and is appended before the
// balance moves, so two concurrent scans of the same badge collapse into one
// credit and one ErrAlreadyVisited.
func (s *PointsService) CreditStandVisit(ctx context.Context, visitorID int64, standID string) (domain.VisitCredit, error) {
	if _, err := s.users.FindByID(ctx, visitorID); err != nil {
		return domain.VisitCredit{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	stand, err := s.stands.FindByID(ctx, standID)
	if err != nil {
		return domain.VisitCredit{}, fmt.Errorf("s.stands.FindByID -> %w", err)
	}

	points := stand.PointsPerVisit
	if points <= 0 {
		points = s.conf.DefaultVisitReward()
	}

	dedupKey := fmt.Sprintf("visit:%d:%s", visitorID, standID)

	_, err = s.ledger.Append(ctx, domain.PointsTransaction{
		UserID:      visitorID,
		Amount:      points,
		Direction:   domain.DirectionEarn,
		Reason:      domain.ReasonStandVisit,
		ReferenceID: standID,
		Status:      domain.StatusActive,
	}, dedupKey)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			return domain.VisitCredit{}, ErrAlreadyVisited
		}

		return domain.VisitCredit{}, fmt.Errorf("s.ledger.Append -> %w", err)
	}

	if err := s.users.AdjustPoints(ctx, visitorID, points); err != nil {
		s.logger.Error("visit recorded but balance not credited",
			zap.Int64("visitor_id", visitorID),
			zap.String("stand_id", standID),
			zap.Error(err),
		)

		return domain.VisitCredit{}, fmt.Errorf("s.users.AdjustPoints -> %w", err)
	}

	if err := s.stands.IncrementVisits(ctx, standID); err != nil {
		s.logger.Warn("stand visit counter not incremented",
			zap.String("stand_id", standID),
			zap.Error(err),
		)
	}

	if err := s.notifier.Send(ctx, visitorID, fmt.Sprintf("You earned %d points for visiting %s!", points, stand.Name)); err != nil {
		s.logger.Warn("visit notification failed",
			zap.Int64("visitor_id", visitorID),
			zap.Error(err),
		)
	}

	return domain.VisitCredit{
		VisitorID: visitorID,
		StandID:   standID,
		StandName: stand.Name,
		Points:    points,
	}, nil
}

func (s *PointsService) Summary(ctx context.Context) (domain.PointsSummary, error) {
	summary, err := s.ledger.Summary(ctx)
	if err != nil {
		return domain.PointsSummary{}, fmt.Errorf("s.ledger.Summary -> %w", err)
	}

	return summary, nil
}
