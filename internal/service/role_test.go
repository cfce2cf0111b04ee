package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiksFok/conf-bot/internal/domain"
)

func TestHasPermission(t *testing.T) {
	assert.False(t, HasPermission(domain.RoleGuest, PermScanVisitors))
	assert.True(t, HasPermission(domain.RoleStandist, PermScanVisitors))
	assert.False(t, HasPermission(domain.RoleStandist, PermMarkCandidates))
	assert.True(t, HasPermission(domain.RoleHR, PermMarkCandidates))
	assert.False(t, HasPermission(domain.RoleHR, PermManageUsers))
	assert.True(t, HasPermission(domain.RoleAdmin, PermManageUsers))
	assert.True(t, HasPermission(domain.RoleAdmin, PermViewStats))
}

func TestRoleService_CheckPermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 1, domain.RoleHR)

	user, err := env.roles.CheckPermission(ctx, 1, PermMarkCandidates)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, user.Role)

	_, err = env.roles.CheckPermission(ctx, 1, PermManageUsers)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, env.roles.SetBlocked(ctx, 1, true))
	_, err = env.roles.CheckPermission(ctx, 1, PermMarkCandidates)
	assert.ErrorIs(t, err, ErrUserBlocked)

	_, err = env.roles.CheckPermission(ctx, 999, PermMarkCandidates)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRoleService_SetRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 1, domain.RoleGuest)

	require.NoError(t, env.roles.SetRole(ctx, 1, domain.RoleStandist))

	user, err := env.roles.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStandist, user.Role)

	assert.ErrorIs(t, env.roles.SetRole(ctx, 1, domain.Role("emperor")), ErrInvalidRole)
}

func TestStandService_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateUser(t, 2, domain.RoleStandist)

	stand, err := env.standSvc.CreateStand(ctx, domain.Stand{Name: "Acme", OwnerID: 2})
	require.NoError(t, err)
	assert.Contains(t, stand.ID, "stand_")
	assert.Equal(t, 10, stand.PointsPerVisit)

	byOwner, err := env.standSvc.GetStandByOwner(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, stand.ID, byOwner.ID)
}
