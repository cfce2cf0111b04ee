package service

import (
	"context"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository"
)

var ErrStandNotFound = repository.ErrStandNotFound

type StandRepository interface {
	Create(ctx context.Context, stand domain.Stand) (domain.Stand, error)
	FindByID(ctx context.Context, id string) (domain.Stand, error)
	FindByOwner(ctx context.Context, ownerID int64) (domain.Stand, error)
	FindAll(ctx context.Context) ([]domain.Stand, error)
	IncrementVisits(ctx context.Context, id string) error
}

type StandService struct {
	repo StandRepository
	conf *config.PointsConfig
}

func NewStandService(repo StandRepository, conf *config.PointsConfig) *StandService {
	return &StandService{
		repo: repo,
		conf: conf,
	}
}

func (s *StandService) CreateStand(ctx context.Context, stand domain.Stand) (domain.Stand, error) {
	if stand.ID == "" {
		stand.ID = "stand_" + shortID()
	}
	if stand.PointsPerVisit <= 0 {
		stand.PointsPerVisit = s.conf.DefaultVisitReward()
	}

	created, err := s.repo.Create(ctx, stand)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *StandService) GetStand(ctx context.Context, id string) (domain.Stand, error) {
	stand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return stand, nil
}

func (s *StandService) GetStandByOwner(ctx context.Context, ownerID int64) (domain.Stand, error) {
	stand, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("s.repo.FindByOwner -> %w", err)
	}

	return stand, nil
}

func (s *StandService) ListStands(ctx context.Context) ([]domain.Stand, error) {
	stands, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return stands, nil
}
