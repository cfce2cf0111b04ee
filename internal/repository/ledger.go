package repository

import (
	"context"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

var (
	ErrDuplicateTransaction = dao.ErrDuplicateTransaction
	ErrTransactionNotFound  = dao.ErrTransactionNotFound
)

type TransactionDAO interface {
	Append(ctx context.Context, tx dao.PointsTransaction) (dao.PointsTransaction, error)
	FindByID(ctx context.Context, id uint) (dao.PointsTransaction, error)
	FindByUser(ctx context.Context, userID int64) ([]dao.PointsTransaction, error)
	Count(ctx context.Context, filter dao.TransactionFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	SumByReason(ctx context.Context) ([]dao.ReasonTotal, error)
}

// LedgerRepository is the transaction-log half of the ledger store. Balance
// mutations live on UserRepository; the two are only ever combined by the
// points service, which owns the ordering.
type LedgerRepository struct {
	dao TransactionDAO
}

func NewLedgerRepository(dao TransactionDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

// Append writes a ledger row. dedupKey may be empty; when set, a second row
// with the same key fails with ErrDuplicateTransaction.
func (r *LedgerRepository) Append(ctx context.Context, tx domain.PointsTransaction, dedupKey string) (domain.PointsTransaction, error) {
	record := r.domainToDao(tx)
	if dedupKey != "" {
		record.DedupKey = &dedupKey
	}

	created, err := r.dao.Append(ctx, record)
	if err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("r.dao.Append -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LedgerRepository) FindByID(ctx context.Context, id uint) (domain.PointsTransaction, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.PointsTransaction{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *LedgerRepository) FindByUser(ctx context.Context, userID int64) ([]domain.PointsTransaction, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	txs := make([]domain.PointsTransaction, len(found))
	for i, tx := range found {
		txs[i] = r.daoToDomain(tx)
	}

	return txs, nil
}

// CountVisits counts visit credits regardless of status. The dedup key on a
// visit row is permanent, so a cancelled credit still blocks re-crediting and
// the count has to agree with that.
func (r *LedgerRepository) CountVisits(ctx context.Context, userID int64, standID string) (int64, error) {
	count, err := r.dao.Count(ctx, dao.TransactionFilter{
		UserID:      userID,
		Reason:      string(domain.ReasonStandVisit),
		ReferenceID: standID,
	})
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *LedgerRepository) MarkCancelled(ctx context.Context, id uint) error {
	if err := r.dao.UpdateStatus(ctx, id, string(domain.StatusCancelled)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *LedgerRepository) Summary(ctx context.Context) (domain.PointsSummary, error) {
	totals, err := r.dao.SumByReason(ctx)
	if err != nil {
		return domain.PointsSummary{}, fmt.Errorf("r.dao.SumByReason -> %w", err)
	}

	summary := domain.PointsSummary{
		EarnByReason:  map[string]int{},
		SpendByReason: map[string]int{},
	}
	for _, t := range totals {
		switch domain.TransactionDirection(t.Direction) {
		case domain.DirectionEarn:
			summary.TotalEarned += t.Total
			summary.EarnByReason[t.Reason] += t.Total
		case domain.DirectionSpend:
			summary.TotalSpent += t.Total
			summary.SpendByReason[t.Reason] += t.Total
		}
	}
	summary.TotalBalance = summary.TotalEarned - summary.TotalSpent

	return summary, nil
}

func (r *LedgerRepository) domainToDao(tx domain.PointsTransaction) dao.PointsTransaction {
	return dao.PointsTransaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Direction:   string(tx.Direction),
		Reason:      string(tx.Reason),
		ReferenceID: tx.ReferenceID,
		Status:      string(tx.Status),
	}
}

func (r *LedgerRepository) daoToDomain(tx dao.PointsTransaction) domain.PointsTransaction {
	return domain.PointsTransaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Direction:   domain.TransactionDirection(tx.Direction),
		Reason:      domain.TransactionReason(tx.Reason),
		ReferenceID: tx.ReferenceID,
		Status:      domain.TransactionStatus(tx.Status),
		CreatedAt:   tx.CreatedAt,
	}
}
