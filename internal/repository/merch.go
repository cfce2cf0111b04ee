package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

var (
	ErrMerchNotFound   = dao.ErrMerchNotFound
	ErrOutOfStock      = dao.ErrOutOfStock
	ErrOrderNotFound   = dao.ErrOrderNotFound
	ErrOrderNotPending = dao.ErrOrderNotPending
)

type MerchDAO interface {
	Insert(ctx context.Context, item dao.MerchItem) (dao.MerchItem, error)
	FindByID(ctx context.Context, id string) (dao.MerchItem, error)
	FindAll(ctx context.Context) ([]dao.MerchItem, error)
	FindAvailable(ctx context.Context) ([]dao.MerchItem, error)
	Update(ctx context.Context, item dao.MerchItem) (dao.MerchItem, error)
	ReserveStock(ctx context.Context, id string) error
	ReleaseStock(ctx context.Context, id string) error
	InsertOrder(ctx context.Context, order dao.MerchOrder) (dao.MerchOrder, error)
	FindOrderByID(ctx context.Context, id string) (dao.MerchOrder, error)
	FindOrdersByUser(ctx context.Context, userID int64) ([]dao.MerchOrder, error)
	FindOrdersByStatus(ctx context.Context, status string) ([]dao.MerchOrder, error)
	TransitionOrder(ctx context.Context, id, from, to string, completedAt *time.Time) error
	CountOrdersByStatus(ctx context.Context) ([]dao.OrderStatusCount, error)
}

type MerchRepository struct {
	dao MerchDAO
}

func NewMerchRepository(dao MerchDAO) *MerchRepository {
	return &MerchRepository{
		dao: dao,
	}
}

func (r *MerchRepository) CreateItem(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error) {
	created, err := r.dao.Insert(ctx, r.itemToDao(item))
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.itemToDomain(created), nil
}

func (r *MerchRepository) FindItem(ctx context.Context, id string) (domain.MerchItem, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.itemToDomain(found), nil
}

// FindItems lists the catalog; with availableOnly set, sold-out items are
// filtered out.
func (r *MerchRepository) FindItems(ctx context.Context, availableOnly bool) ([]domain.MerchItem, error) {
	var (
		found []dao.MerchItem
		err   error
	)
	if availableOnly {
		found, err = r.dao.FindAvailable(ctx)
	} else {
		found, err = r.dao.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindItems -> %w", err)
	}

	items := make([]domain.MerchItem, len(found))
	for i, item := range found {
		items[i] = r.itemToDomain(item)
	}

	return items, nil
}

func (r *MerchRepository) UpdateItem(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error) {
	updated, err := r.dao.Update(ctx, r.itemToDao(item))
	if err != nil {
		return domain.MerchItem{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.itemToDomain(updated), nil
}

// ReserveStock decrements quantity_left by one, failing with ErrOutOfStock
// when nothing is left. The decrement is a single conditional statement so two
// concurrent orders can never both take the last unit.
func (r *MerchRepository) ReserveStock(ctx context.Context, id string) error {
	if err := r.dao.ReserveStock(ctx, id); err != nil {
		return fmt.Errorf("r.dao.ReserveStock -> %w", err)
	}

	return nil
}

func (r *MerchRepository) ReleaseStock(ctx context.Context, id string) error {
	if err := r.dao.ReleaseStock(ctx, id); err != nil {
		return fmt.Errorf("r.dao.ReleaseStock -> %w", err)
	}

	return nil
}

func (r *MerchRepository) CreateOrder(ctx context.Context, order domain.MerchOrder) (domain.MerchOrder, error) {
	created, err := r.dao.InsertOrder(ctx, r.orderToDao(order))
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("r.dao.InsertOrder -> %w", err)
	}

	return r.orderToDomain(created), nil
}

func (r *MerchRepository) FindOrder(ctx context.Context, id string) (domain.MerchOrder, error) {
	found, err := r.dao.FindOrderByID(ctx, id)
	if err != nil {
		return domain.MerchOrder{}, fmt.Errorf("r.dao.FindOrderByID -> %w", err)
	}

	return r.orderToDomain(found), nil
}

func (r *MerchRepository) FindOrdersByUser(ctx context.Context, userID int64) ([]domain.MerchOrder, error) {
	found, err := r.dao.FindOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOrdersByUser -> %w", err)
	}

	return r.ordersToDomain(found), nil
}

func (r *MerchRepository) FindOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.MerchOrder, error) {
	found, err := r.dao.FindOrdersByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOrdersByStatus -> %w", err)
	}

	return r.ordersToDomain(found), nil
}

// TransitionOrder moves an order between statuses only if it is still in the
// expected one, so a cancel racing a completion cannot both win.
func (r *MerchRepository) TransitionOrder(ctx context.Context, id string, from, to domain.OrderStatus) error {
	var completedAt *time.Time
	if to == domain.OrderCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := r.dao.TransitionOrder(ctx, id, string(from), string(to), completedAt); err != nil {
		return fmt.Errorf("r.dao.TransitionOrder -> %w", err)
	}

	return nil
}

func (r *MerchRepository) Summary(ctx context.Context) (domain.MerchSummary, error) {
	items, err := r.dao.FindAll(ctx)
	if err != nil {
		return domain.MerchSummary{}, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	counts, err := r.dao.CountOrdersByStatus(ctx)
	if err != nil {
		return domain.MerchSummary{}, fmt.Errorf("r.dao.CountOrdersByStatus -> %w", err)
	}

	var summary domain.MerchSummary
	summary.TotalItems = len(items)
	for _, item := range items {
		summary.TotalQuantity += item.QuantityTotal
		summary.AvailableQuantity += item.QuantityLeft
	}
	summary.OrderedQuantity = summary.TotalQuantity - summary.AvailableQuantity
	for _, c := range counts {
		switch domain.OrderStatus(c.Status) {
		case domain.OrderPending:
			summary.PendingOrders = c.Count
		case domain.OrderCompleted:
			summary.CompletedOrders = c.Count
		case domain.OrderCancelled:
			summary.CancelledOrders = c.Count
		}
	}

	return summary, nil
}

func (r *MerchRepository) itemToDao(item domain.MerchItem) dao.MerchItem {
	return dao.MerchItem{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		ImageURL:      item.ImageURL,
		PointsCost:    item.PointsCost,
		QuantityTotal: item.QuantityTotal,
		QuantityLeft:  item.QuantityLeft,
	}
}

func (r *MerchRepository) itemToDomain(item dao.MerchItem) domain.MerchItem {
	return domain.MerchItem{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		ImageURL:      item.ImageURL,
		PointsCost:    item.PointsCost,
		QuantityTotal: item.QuantityTotal,
		QuantityLeft:  item.QuantityLeft,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (r *MerchRepository) orderToDao(order domain.MerchOrder) dao.MerchOrder {
	return dao.MerchOrder{
		ID:          order.ID,
		UserID:      order.UserID,
		MerchID:     order.MerchID,
		PointsSpent: order.PointsSpent,
		Status:      string(order.Status),
		CompletedAt: order.CompletedAt,
	}
}

func (r *MerchRepository) orderToDomain(order dao.MerchOrder) domain.MerchOrder {
	return domain.MerchOrder{
		ID:          order.ID,
		UserID:      order.UserID,
		MerchID:     order.MerchID,
		PointsSpent: order.PointsSpent,
		Status:      domain.OrderStatus(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		CompletedAt: order.CompletedAt,
	}
}

func (r *MerchRepository) ordersToDomain(orders []dao.MerchOrder) []domain.MerchOrder {
	out := make([]domain.MerchOrder, len(orders))
	for i, o := range orders {
		out[i] = r.orderToDomain(o)
	}

	return out
}
