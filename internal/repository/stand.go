package repository

import (
	"context"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

var ErrStandNotFound = dao.ErrStandNotFound

type StandDAO interface {
	Insert(ctx context.Context, stand dao.Stand) (dao.Stand, error)
	FindByID(ctx context.Context, id string) (dao.Stand, error)
	FindByOwner(ctx context.Context, ownerID int64) (dao.Stand, error)
	FindAll(ctx context.Context) ([]dao.Stand, error)
	Update(ctx context.Context, stand dao.Stand) (dao.Stand, error)
	IncrementVisits(ctx context.Context, id string) error
}

type StandRepository struct {
	dao StandDAO
}

func NewStandRepository(dao StandDAO) *StandRepository {
	return &StandRepository{
		dao: dao,
	}
}

func (r *StandRepository) Create(ctx context.Context, stand domain.Stand) (domain.Stand, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(stand))
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StandRepository) FindByID(ctx context.Context, id string) (domain.Stand, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StandRepository) FindByOwner(ctx context.Context, ownerID int64) (domain.Stand, error) {
	found, err := r.dao.FindByOwner(ctx, ownerID)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.FindByOwner -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StandRepository) FindAll(ctx context.Context) ([]domain.Stand, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	stands := make([]domain.Stand, len(found))
	for i, s := range found {
		stands[i] = r.daoToDomain(s)
	}

	return stands, nil
}

func (r *StandRepository) IncrementVisits(ctx context.Context, id string) error {
	if err := r.dao.IncrementVisits(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementVisits -> %w", err)
	}

	return nil
}

func (r *StandRepository) domainToDao(s domain.Stand) dao.Stand {
	return dao.Stand{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Location:       s.Location,
		OwnerID:        s.OwnerID,
		Visits:         s.Visits,
		PointsPerVisit: s.PointsPerVisit,
	}
}

func (r *StandRepository) daoToDomain(s dao.Stand) domain.Stand {
	return domain.Stand{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Location:       s.Location,
		OwnerID:        s.OwnerID,
		Visits:         s.Visits,
		PointsPerVisit: s.PointsPerVisit,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
