package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/NiksFok/conf-bot/internal/domain"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrUserBlocked      = errors.New("user is blocked")
	ErrInvalidRole      = errors.New("invalid role")
)

type Permission string

const (
	PermScanVisitors   Permission = "scan_visitors"
	PermMarkCandidates Permission = "mark_candidates"
	PermViewCandidates Permission = "view_candidates"
	PermManageUsers    Permission = "manage_users"
	PermManageStands   Permission = "manage_stands"
	PermManageMerch    Permission = "manage_merch"
	PermCompleteOrders Permission = "complete_orders"
	PermAdjustPoints   Permission = "adjust_points"
	PermViewStats      Permission = "view_stats"
)

// rolePermissions is fixed at startup. Granting a role new capabilities is a
// deploy, never a runtime mutation.
var rolePermissions = map[domain.Role]map[Permission]bool{
	domain.RoleGuest: {},
	domain.RoleStandist: {
		PermScanVisitors:   true,
		PermCompleteOrders: true,
	},
	domain.RoleHR: {
		PermMarkCandidates: true,
		PermViewCandidates: true,
	},
	domain.RoleAdmin: {
		PermScanVisitors:   true,
		PermMarkCandidates: true,
		PermViewCandidates: true,
		PermManageUsers:    true,
		PermManageStands:   true,
		PermManageMerch:    true,
		PermCompleteOrders: true,
		PermAdjustPoints:   true,
		PermViewStats:      true,
	},
}

func HasPermission(role domain.Role, perm Permission) bool {
	return rolePermissions[role][perm]
}

type RoleService struct {
	repo UserRepository
}

func NewRoleService(repo UserRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

// Resolve loads the acting user. Role and blocked status always come from
// storage at call time, never from the token, so a block takes effect on the
// next request.
func (s *RoleService) Resolve(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// CheckPermission resolves the actor and verifies both the blocked flag and
// the permission. It returns the resolved user so handlers do not load it
// twice.
func (s *RoleService) CheckPermission(ctx context.Context, userID int64, perm Permission) (domain.User, error) {
	user, err := s.Resolve(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if user.IsBlocked {
		return domain.User{}, ErrUserBlocked
	}

	if !HasPermission(user.Role, perm) {
		return domain.User{}, ErrPermissionDenied
	}

	return user, nil
}

func (s *RoleService) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("s.repo.SetRole -> %w", err)
	}

	return nil
}

func (s *RoleService) SetBlocked(ctx context.Context, userID int64, blocked bool) error {
	if err := s.repo.SetBlocked(ctx, userID, blocked); err != nil {
		return fmt.Errorf("s.repo.SetBlocked -> %w", err)
	}

	return nil
}
