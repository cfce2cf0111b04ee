package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NiksFok/conf-bot/internal/api/handler/v1/response"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type UserPointsService interface {
	GetBalance(ctx context.Context, userID int64) (int, error)
	GetTransactions(ctx context.Context, userID int64) ([]domain.PointsTransaction, error)
}

type UserHandler struct {
	svc    UserService
	points UserPointsService
	roles  PermissionChecker
}

func NewUserHandler(svc UserService, points UserPointsService, roles PermissionChecker) *UserHandler {
	return &UserHandler{
		svc:    svc,
		points: points,
		roles:  roles,
	}
}

// resolveTarget parses the userID path param and enforces that the actor is
// either the target or may manage users.
func (h *UserHandler) resolveTarget(ctx *gin.Context) (int64, *response.Err) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		return 0, respErr
	}

	targetID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid user id %q", ctx.Param("userID")))
	}

	if actorID == targetID {
		return targetID, nil
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageUsers); err != nil {
		return 0, response.ErrPermissionDenied(err)
	}

	return targetID, nil
}

// HandleGetUser godoc
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	targetID, respErr := h.resolveTarget(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetBalance godoc
// @Summary      Get a user's points balance
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.BalanceResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/{userID}/balance [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetBalance(ctx *gin.Context) {
	targetID, respErr := h.resolveTarget(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	balance, err := h.points.GetBalance(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleGetBalance -> h.points.GetBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BalanceResponse{
		UserID:  targetID,
		Balance: balance,
	})
}

// HandleGetTransactions godoc
// @Summary      Get a user's transaction history
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.PointsTransaction
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/{userID}/transactions [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetTransactions(ctx *gin.Context) {
	targetID, respErr := h.resolveTarget(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	txs, err := h.points.GetTransactions(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleGetTransactions -> h.points.GetTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, txs)
}

// HandleListUsers godoc
// @Summary      List users, optionally filtered by role
// @Tags         admin
// @Produce      json
// @Param        role  query     string  false  "guest|standist|hr|admin"
// @Success      200   {array}   domain.User
// @Failure      400   {object}  response.Err
// @Failure      401   {object}  response.Err
// @Failure      403   {object}  response.Err
// @Router       /admin/users [get]
// @Security BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageUsers); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	var (
		users []domain.User
		err   error
	)

	if role := ctx.Query("role"); role != "" {
		users, err = h.svc.ListUsersByRole(ctx.Request.Context(), domain.Role(role))
		if errors.Is(err, service.ErrInvalidRole) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRole))
			return
		}
	} else {
		users, err = h.svc.ListUsers(ctx.Request.Context())
	}
	if err != nil {
		err = fmt.Errorf("HandleListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}
