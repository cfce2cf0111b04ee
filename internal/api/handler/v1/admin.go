package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NiksFok/conf-bot/internal/api/handler/v1/request"
	"github.com/NiksFok/conf-bot/internal/api/handler/v1/response"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/service"
)

type AdminPointsService interface {
	AddPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error)
	SubtractPoints(ctx context.Context, userID int64, amount int, reason domain.TransactionReason, referenceID string) (domain.PointsTransaction, error)
	CancelTransaction(ctx context.Context, txID uint) (domain.PointsTransaction, error)
	Summary(ctx context.Context) (domain.PointsSummary, error)
}

type AdminMerchService interface {
	Summary(ctx context.Context) (domain.MerchSummary, error)
}

// RoleManager is the admin slice of the role service.
type RoleManager interface {
	PermissionChecker
	SetRole(ctx context.Context, userID int64, role domain.Role) error
	SetBlocked(ctx context.Context, userID int64, blocked bool) error
}

type AdminHandler struct {
	points AdminPointsService
	merch  AdminMerchService
	roles  RoleManager
}

func NewAdminHandler(points AdminPointsService, merch AdminMerchService, roles RoleManager) *AdminHandler {
	return &AdminHandler{
		points: points,
		merch:  merch,
		roles:  roles,
	}
}

func (h *AdminHandler) requirePermission(ctx *gin.Context, perm service.Permission) *response.Err {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		return respErr
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, perm); err != nil {
		return response.ErrPermissionDenied(err)
	}

	return nil
}

func adjustmentReason(raw string) domain.TransactionReason {
	if raw == "" {
		return domain.ReasonAdminAdjustment
	}

	return domain.TransactionReason(raw)
}

// HandleAddPoints godoc
// @Summary      Credit points to a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.AdjustPointsRequest  true  "Adjustment"
// @Success      201    {object}  domain.PointsTransaction
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /points/add [post]
// @Security BearerAuth
func (h *AdminHandler) HandleAddPoints(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermAdjustPoints); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tx, err := h.points.AddPoints(ctx.Request.Context(), input.UserID, input.Amount, adjustmentReason(input.Reason), "")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", input.UserID))
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		default:
			err = fmt.Errorf("HandleAddPoints -> h.points.AddPoints -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, tx)
}

// HandleSubtractPoints godoc
// @Summary      Debit points from a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.AdjustPointsRequest  true  "Adjustment"
// @Success      201    {object}  domain.PointsTransaction
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      422    {object}  response.Err
// @Router       /points/subtract [post]
// @Security BearerAuth
func (h *AdminHandler) HandleSubtractPoints(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermAdjustPoints); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tx, err := h.points.SubtractPoints(ctx.Request.Context(), input.UserID, input.Amount, adjustmentReason(input.Reason), "")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", input.UserID))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientPoints))
		case errors.Is(err, service.ErrInvalidAmount):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidAmount))
		default:
			err = fmt.Errorf("HandleSubtractPoints -> h.points.SubtractPoints -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, tx)
}

// HandleCancelTransaction godoc
// @Summary      Reverse a transaction
// @Description  Writes a compensating transaction and tombstones the original
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.PointsTransaction
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Router       /transactions/{transactionID}/cancel [post]
// @Security BearerAuth
func (h *AdminHandler) HandleCancelTransaction(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermAdjustPoints); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	txID, err := strconv.ParseUint(ctx.Param("transactionID"), 10, 32)
	if err != nil || txID == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid transaction id %q", ctx.Param("transactionID"))))
		return
	}

	tx, err := h.points.CancelTransaction(ctx.Request.Context(), uint(txID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("transaction", "id", txID))
		case errors.Is(err, service.ErrTransactionCancelled):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTransactionCancelled))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientPoints))
		default:
			err = fmt.Errorf("HandleCancelTransaction -> h.points.CancelTransaction -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, tx)
}

// HandleSetRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /admin/users/{userID}/role [post]
// @Security BearerAuth
func (h *AdminHandler) HandleSetRole(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermManageUsers); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user id %q", ctx.Param("userID"))))
		return
	}

	var input request.SetRoleRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.roles.SetRole(ctx.Request.Context(), targetID, domain.Role(input.Role)); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRole))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
		default:
			err = fmt.Errorf("HandleSetRole -> h.roles.SetRole -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetBlocked godoc
// @Summary      Block or unblock a user
// @Tags         admin
// @Accept       json
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /admin/users/{userID}/block [post]
// @Security BearerAuth
func (h *AdminHandler) HandleSetBlocked(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermManageUsers); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user id %q", ctx.Param("userID"))))
		return
	}

	var input request.SetBlockedRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.roles.SetBlocked(ctx.Request.Context(), targetID, *input.Blocked); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleSetBlocked -> h.roles.SetBlocked -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleStatsPoints godoc
// @Summary      Ledger totals by reason and direction
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.PointsSummary
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /admin/stats/points [get]
// @Security BearerAuth
func (h *AdminHandler) HandleStatsPoints(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermViewStats); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	summary, err := h.points.Summary(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleStatsPoints -> h.points.Summary -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleStatsMerch godoc
// @Summary      Catalog and order book totals
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.MerchSummary
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /admin/stats/merch [get]
// @Security BearerAuth
func (h *AdminHandler) HandleStatsMerch(ctx *gin.Context) {
	if respErr := h.requirePermission(ctx, service.PermViewStats); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	summary, err := h.merch.Summary(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleStatsMerch -> h.merch.Summary -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, summary)
}
