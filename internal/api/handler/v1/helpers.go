package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/NiksFok/conf-bot/internal/api/handler/v1/response"
	"github.com/NiksFok/conf-bot/internal/api/middleware"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/service"
)

// PermissionChecker resolves the acting user and enforces role permissions.
// Handlers never trust anything but the user id from the token.
type PermissionChecker interface {
	Resolve(ctx context.Context, userID int64) (domain.User, error)
	CheckPermission(ctx context.Context, userID int64, perm service.Permission) (domain.User, error)
}

func getActorID(ctx *gin.Context) (int64, *response.Err) {
	v, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return 0, response.ErrUnauthorized("missing identity")
	}

	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, response.ErrUnauthorized("invalid identity")
	}

	return id, nil
}
