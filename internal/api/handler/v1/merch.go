package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NiksFok/conf-bot/internal/api/handler/v1/request"
	"github.com/NiksFok/conf-bot/internal/api/handler/v1/response"
	"github.com/NiksFok/conf-bot/internal/domain"
	"github.com/NiksFok/conf-bot/internal/service"
)

type MerchService interface {
	CreateMerch(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error)
	UpdateMerch(ctx context.Context, item domain.MerchItem) (domain.MerchItem, error)
	GetMerch(ctx context.Context, id string) (domain.MerchItem, error)
	ListMerch(ctx context.Context, availableOnly bool) ([]domain.MerchItem, error)
	CreateOrder(ctx context.Context, userID int64, merchID string) (domain.MerchOrder, error)
	GetOrder(ctx context.Context, orderID string) (domain.MerchOrder, error)
	CancelOrder(ctx context.Context, orderID string) (domain.MerchOrder, error)
	CompleteOrder(ctx context.Context, orderID string) (domain.MerchOrder, error)
	ListUserOrders(ctx context.Context, userID int64) ([]domain.MerchOrder, error)
	ListPendingOrders(ctx context.Context) ([]domain.MerchOrder, error)
}

type MerchHandler struct {
	svc   MerchService
	roles PermissionChecker
}

func NewMerchHandler(svc MerchService, roles PermissionChecker) *MerchHandler {
	return &MerchHandler{
		svc:   svc,
		roles: roles,
	}
}

// HandleListMerch godoc
// @Summary      List merch items
// @Tags         merch
// @Produce      json
// @Param        available  query     bool  false  "Only items with stock left"
// @Success      200        {array}   domain.MerchItem
// @Failure      401        {object}  response.Err
// @Router       /merch [get]
// @Security BearerAuth
func (h *MerchHandler) HandleListMerch(ctx *gin.Context) {
	if _, respErr := getActorID(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	availableOnly := ctx.Query("available") == "true"

	items, err := h.svc.ListMerch(ctx.Request.Context(), availableOnly)
	if err != nil {
		err = fmt.Errorf("HandleListMerch -> h.svc.ListMerch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleCreateMerch godoc
// @Summary      Add a merch item to the catalog
// @Tags         merch
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateMerchRequest  true  "Item details"
// @Success      201    {object}  domain.MerchItem
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Router       /merch [post]
// @Security BearerAuth
func (h *MerchHandler) HandleCreateMerch(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageMerch); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	var input request.CreateMerchRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.CreateMerch(ctx.Request.Context(), domain.MerchItem{
		Name:          input.Name,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		PointsCost:    input.PointsCost,
		QuantityTotal: input.QuantityTotal,
	})
	if err != nil {
		err = fmt.Errorf("HandleCreateMerch -> h.svc.CreateMerch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleUpdateMerch godoc
// @Summary      Edit a merch item's metadata
// @Description  Updates name, description, image or cost; stock only moves through orders
// @Tags         merch
// @Accept       json
// @Produce      json
// @Param        input  body      request.UpdateMerchRequest  true  "Fields to change"
// @Success      200    {object}  domain.MerchItem
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /merch/{merchID} [put]
// @Security BearerAuth
func (h *MerchHandler) HandleUpdateMerch(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageMerch); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	var input request.UpdateMerchRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	merchID := ctx.Param("merchID")

	item, err := h.svc.GetMerch(ctx.Request.Context(), merchID)
	if err != nil {
		if errors.Is(err, service.ErrMerchNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("merch", "id", merchID))
			return
		}

		err = fmt.Errorf("HandleUpdateMerch -> h.svc.GetMerch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.ImageURL != "" {
		item.ImageURL = input.ImageURL
	}
	if input.PointsCost > 0 {
		item.PointsCost = input.PointsCost
	}

	updated, err := h.svc.UpdateMerch(ctx.Request.Context(), item)
	if err != nil {
		err = fmt.Errorf("HandleUpdateMerch -> h.svc.UpdateMerch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleCreateOrder godoc
// @Summary      Redeem a merch item
// @Description  Reserves a unit, debits the actor's points and records a pending order
// @Tags         merch
// @Produce      json
// @Success      201  {object}  domain.MerchOrder
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Router       /merch/{merchID}/order [post]
// @Security BearerAuth
func (h *MerchHandler) HandleCreateOrder(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	actor, err := h.roles.Resolve(ctx.Request.Context(), actorID)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized("unknown actor"))
		return
	}
	if actor.IsBlocked {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrUserBlocked))
		return
	}

	merchID := ctx.Param("merchID")

	order, err := h.svc.CreateOrder(ctx.Request.Context(), actorID, merchID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMerchNotFound):
			response.RenderErr(ctx, response.ErrNotFound("merch", "id", merchID))
		case errors.Is(err, service.ErrOutOfStock):
			response.RenderErr(ctx, response.ErrConflict(service.ErrOutOfStock))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientPoints))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", actorID))
		default:
			err = fmt.Errorf("HandleCreateOrder -> h.svc.CreateOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleListOwnOrders godoc
// @Summary      List the actor's orders
// @Tags         merch
// @Produce      json
// @Success      200  {array}   domain.MerchOrder
// @Failure      401  {object}  response.Err
// @Router       /orders [get]
// @Security BearerAuth
func (h *MerchHandler) HandleListOwnOrders(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.ListUserOrders(ctx.Request.Context(), actorID)
	if err != nil {
		err = fmt.Errorf("HandleListOwnOrders -> h.svc.ListUserOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleListPendingOrders godoc
// @Summary      List pending orders, oldest first
// @Tags         merch
// @Produce      json
// @Success      200  {array}   domain.MerchOrder
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /orders/pending [get]
// @Security BearerAuth
func (h *MerchHandler) HandleListPendingOrders(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermCompleteOrders); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	orders, err := h.svc.ListPendingOrders(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListPendingOrders -> h.svc.ListPendingOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleCancelOrder godoc
// @Summary      Cancel a pending order
// @Description  Returns the unit to stock and refunds the points
// @Tags         merch
// @Produce      json
// @Success      200  {object}  domain.MerchOrder
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /orders/{orderID}/cancel [post]
// @Security BearerAuth
func (h *MerchHandler) HandleCancelOrder(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID := ctx.Param("orderID")

	order, err := h.svc.GetOrder(ctx.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "id", orderID))
			return
		}

		err = fmt.Errorf("HandleCancelOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if order.UserID != actorID {
		if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageMerch); err != nil {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
	}

	cancelled, err := h.svc.CancelOrder(ctx.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotPending) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrOrderNotPending))
			return
		}

		err = fmt.Errorf("HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cancelled)
}

// HandleCompleteOrder godoc
// @Summary      Mark a pending order as picked up
// @Tags         merch
// @Produce      json
// @Success      200  {object}  domain.MerchOrder
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /orders/{orderID}/complete [post]
// @Security BearerAuth
func (h *MerchHandler) HandleCompleteOrder(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermCompleteOrders); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	orderID := ctx.Param("orderID")

	order, err := h.svc.CompleteOrder(ctx.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "id", orderID))
		case errors.Is(err, service.ErrOrderNotPending):
			response.RenderErr(ctx, response.ErrConflict(service.ErrOrderNotPending))
		default:
			err = fmt.Errorf("HandleCompleteOrder -> h.svc.CompleteOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}
