package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/notifier"
	"github.com/NiksFok/conf-bot/internal/repository"
)

var (
	ErrMerchNotFound   = repository.ErrMerchNotFound
	ErrOutOfStock      = repository.ErrOutOfStock
	ErrOrderNotFound   = repository.ErrOrderNotFound
	ErrOrderNotPending = repository.ErrOrderNotPending
)

type MerchRepository interface {
	CreateItem(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error)
	FindItem(ctx context.Context, id string) (domain.MerchItem, error)
	FindItems(ctx context.Context, availableOnly bool) ([]domain.MerchItem, error)
	UpdateItem(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error)
	ReserveStock(ctx context.Context, id string) error
	ReleaseStock(ctx context.Context, id string) error
	CreateOrder(ctx context.Context, order domain.MerchOrder) (domain.MerchOrder, error)
	FindOrder(ctx context.Context, id string) (domain.MerchOrder, error)
	FindOrdersByUser(ctx context.Context, userID int64) ([]domain.MerchOrder, error)
	FindOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.MerchOrder, error)
	TransitionOrder(ctx context.Context, id string, from, to domain.OrderStatus) error
	Summary(ctx context.Context) (domain.MerchSummary, error)
}

// PointsLedger is the slice of the points service the redemption engine
// needs. Declared here so order tests can fail the debit on purpose.
type PointsLedger interface {
	AddPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error)
	SubtractPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error)
}

type MerchService struct {
	repo     MerchRepository
	points   PointsLedger
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewMerchService(repo MerchRepository, points PointsLedger, n notifier.Notifier) *MerchService {
	return &MerchService{
		repo:     repo,
		points:   points,
		notifier: n,
		logger:   zap.L(),
	}
}

func (s *MerchService) CreateMerch(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error) {
	if item.ID == "" {
		item.ID = "merch_" + shortID()
	}
	item.QuantityLeft = item.QuantityTotal

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("s.repo.CreateItem -> %w", err)
	}

	return created, nil
}

func (s *MerchService) UpdateMerch(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error) {
	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("s.repo.UpdateItem -> %w", err)
	}

	return updated, nil
}

func (s *MerchService) GetMerch(ctx context.Context, id string) (domain.MerchItem, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("s.repo.FindItem -> %w", err)
	}

	return item, nil
}

func (s *MerchService) ListMerch(ctx context.Context, availableOnly bool) ([]domain.MerchItem, error) {
	items, err := s.repo.FindItems(ctx, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindItems -> %w", err)
	}

	return items, nil
}

// CreateOrder redeems one unit of an item. The sequence is reserve stock,
// debit points, record the pending order. A failed debit releases the
// reserved unit; a failed release is logged loudly because at that point the
// unit is lost until someone reconciles by hand.
func (s *MerchService) CreateOrder(ctx context.Context, userID int64, merchID string) (domain.MerchOrder, error) {
	item, err := s.repo.FindItem(ctx, merchID)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.FindItem -> %w", err)
	}

	if err := s.repo.ReserveStock(ctx, merchID); err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.ReserveStock -> %w", err)
	}

	if _, err := s.points.SubtractPoints(ctx, userID, item.PointsCost, domain.ReasonMerchOrder, merchID); err != nil {
		if releaseErr := s.repo.ReleaseStock(ctx, merchID); releaseErr != nil {
			s.logger.Error("debit failed and stock release failed, unit lost",
				zap.Int64("user_id", userID),
				zap.String("merch_id", merchID),
				zap.NamedError("debit_error", err),
				zap.Error(releaseErr),
			)
		}

		return domain.MerchOrder{}, fmt.Errorf("s.points.SubtractPoints -> %w", err)
	}

	order, err := s.repo.CreateOrder(ctx, domain.MerchOrder{
		ID:          "order_" + shortID(),
		UserID:      userID,
		MerchID:     merchID,
		PointsSpent: item.PointsCost,
		Status:      domain.OrderPending,
	})
	if err != nil {
		s.compensateOrder(ctx, userID, merchID, item.PointsCost, err)

		return domain.MerchOrder{}, fmt.Errorf("s.repo.CreateOrder -> %w", err)
	}

	if err := s.notifier.Send(ctx, userID, fmt.Sprintf("Order %s for %s placed, %d points spent.", order.ID, item.Name, item.PointsCost)); err != nil {
		s.logger.Warn("order notification failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return order, nil
}

// compensateOrder unwinds the stock reservation and points debit after a
// failed order insert.
func (s *MerchService) compensateOrder(ctx context.Context, userID int64, merchID string, cost int, cause error) {
	if err := s.repo.ReleaseStock(ctx, merchID); err != nil {
		s.logger.Error("order insert failed and stock release failed, unit lost",
			zap.Int64("user_id", userID),
			zap.String("merch_id", merchID),
			zap.NamedError("insert_error", cause),
			zap.Error(err),
		)
	}

	if _, err := s.points.AddPoints(ctx, userID, cost, domain.CancelReason(domain.ReasonMerchOrder), merchID); err != nil {
		s.logger.Error("order insert failed and points refund failed",
			zap.Int64("user_id", userID),
			zap.String("merch_id", merchID),
			zap.Int("points", cost),
			zap.NamedError("insert_error", cause),
			zap.Error(err),
		)
	}
}

// CancelOrder cancels a pending order, returning the unit to stock and the
// points to the buyer. The status transition goes first: it is the conditional
// update that guarantees a cancel racing a completion settles exactly one way.
func (s *MerchService) CancelOrder(ctx context.Context, orderID string) (domain.MerchOrder, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.FindOrder -> %w", err)
	}

	if err := s.repo.TransitionOrder(ctx, orderID, domain.OrderPending, domain.OrderCancelled); err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.TransitionOrder -> %w", err)
	}

	if err := s.repo.ReleaseStock(ctx, order.MerchID); err != nil {
		s.logger.Error("order cancelled but stock not released",
			zap.String("order_id", orderID),
			zap.String("merch_id", order.MerchID),
			zap.Error(err),
		)
	}

	if _, err := s.points.AddPoints(ctx, order.UserID, order.PointsSpent, domain.CancelReason(domain.ReasonMerchOrder), orderID); err != nil {
		s.logger.Error("order cancelled but points not refunded",
			zap.String("order_id", orderID),
			zap.Int64("user_id", order.UserID),
			zap.Int("points", order.PointsSpent),
			zap.Error(err),
		)
	}

	if err := s.notifier.Send(ctx, order.UserID, fmt.Sprintf("Order %s cancelled, %d points refunded.", orderID, order.PointsSpent)); err != nil {
		s.logger.Warn("cancel notification failed",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)
	}

	cancelled, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.FindOrder -> %w", err)
	}

	return cancelled, nil
}

// CompleteOrder marks a pending order as picked up.
func (s *MerchService) CompleteOrder(ctx context.Context, orderID string) (domain.MerchOrder, error) {
	if err := s.repo.TransitionOrder(ctx, orderID, domain.OrderPending, domain.OrderCompleted); err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.TransitionOrder -> %w", err)
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.FindOrder -> %w", err)
	}

	if err := s.notifier.Send(ctx, order.UserID, fmt.Sprintf("Order %s picked up. Enjoy!", orderID)); err != nil {
		s.logger.Warn("completion notification failed",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)
	}

	return order, nil
}

func (s *MerchService) GetOrder(ctx context.Context, orderID string) (domain.MerchOrder, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("s.repo.FindOrder -> %w", err)
	}

	return order, nil
}

func (s *MerchService) ListUserOrders(ctx context.Context, userID int64) ([]domain.MerchOrder, error) {
	orders, err := s.repo.FindOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindOrdersByUser -> %w", err)
	}

	return orders, nil
}

// ListPendingOrders returns pending orders oldest first, the pickup queue
// order.
func (s *MerchService) ListPendingOrders(ctx context.Context) ([]domain.MerchOrder, error) {
	orders, err := s.repo.FindOrdersByStatus(ctx, domain.OrderPending)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindOrdersByStatus -> %w", err)
	}

	return orders, nil
}

func (s *MerchService) Summary(ctx context.Context) (domain.MerchSummary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return domain.MerchSummary{}, fmt.Errorf("s.repo.Summary -> %w", err)
	}

	return summary, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
