package repository

import (
	"context"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
)

var (
	ErrUserExists         = dao.ErrUserExists
	ErrUserNotFound       = dao.ErrUserNotFound
	ErrInsufficientPoints = dao.ErrInsufficientPoints
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id int64) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	FindByRole(ctx context.Context, role string) ([]dao.User, error)
	FindCandidates(ctx context.Context) ([]dao.User, error)
	AdjustPoints(ctx context.Context, id int64, delta int) error
	UpdateRole(ctx context.Context, id int64, role string) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SetCandidate(ctx context.Context, id int64, candidate bool) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	found, err := r.dao.FindByRole(ctx, string(role))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRole -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) FindCandidates(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCandidates -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) AdjustPoints(ctx context.Context, id int64, delta int) error {
	if err := r.dao.AdjustPoints(ctx, id, delta); err != nil {
		return fmt.Errorf("r.dao.AdjustPoints -> %w", err)
	}

	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	if err := r.dao.UpdateRole(ctx, id, string(role)); err != nil {
		return fmt.Errorf("r.dao.UpdateRole -> %w", err)
	}

	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	if err := r.dao.SetBlocked(ctx, id, blocked); err != nil {
		return fmt.Errorf("r.dao.SetBlocked -> %w", err)
	}

	return nil
}

func (r *UserRepository) SetCandidate(ctx context.Context, id int64, candidate bool) error {
	if err := r.dao.SetCandidate(ctx, id, candidate); err != nil {
		return fmt.Errorf("r.dao.SetCandidate -> %w", err)
	}

	return nil
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Company:     u.Company,
		Role:        string(u.Role),
		Points:      u.Points,
		IsBlocked:   u.IsBlocked,
		IsCandidate: u.IsCandidate,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Company:     u.Company,
		Role:        domain.Role(u.Role),
		Points:      u.Points,
		IsBlocked:   u.IsBlocked,
		IsCandidate: u.IsCandidate,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (r *UserRepository) daosToDomain(users []dao.User) []domain.User {
	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = r.daoToDomain(u)
	}

	return out
}
