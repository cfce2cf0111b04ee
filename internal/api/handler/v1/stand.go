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

type StandService interface {
	CreateStand(ctx context.Context, stand domain.Stand) (domain.Stand, error)
	GetStand(ctx context.Context, id string) (domain.Stand, error)
	ListStands(ctx context.Context) ([]domain.Stand, error)
}

type StandHandler struct {
	svc   StandService
	roles PermissionChecker
}

func NewStandHandler(svc StandService, roles PermissionChecker) *StandHandler {
	return &StandHandler{
		svc:   svc,
		roles: roles,
	}
}

// HandleCreateStand godoc
// @Summary      Create an exhibitor stand
// @Tags         stands
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateStandRequest  true  "Stand details"
// @Success      201    {object}  domain.Stand
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Router       /stands [post]
// @Security BearerAuth
func (h *StandHandler) HandleCreateStand(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermManageStands); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	var input request.CreateStandRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	stand, err := h.svc.CreateStand(ctx.Request.Context(), domain.Stand{
		ID:             input.ID,
		Name:           input.Name,
		Description:    input.Description,
		Location:       input.Location,
		OwnerID:        input.OwnerID,
		PointsPerVisit: input.PointsPerVisit,
	})
	if err != nil {
		err = fmt.Errorf("HandleCreateStand -> h.svc.CreateStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, stand)
}

// HandleListStands godoc
// @Summary      List exhibitor stands
// @Tags         stands
// @Produce      json
// @Success      200  {array}   domain.Stand
// @Failure      401  {object}  response.Err
// @Router       /stands [get]
// @Security BearerAuth
func (h *StandHandler) HandleListStands(ctx *gin.Context) {
	if _, respErr := getActorID(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stands, err := h.svc.ListStands(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListStands -> h.svc.ListStands -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stands)
}

// HandleGetStand godoc
// @Summary      Get a stand
// @Tags         stands
// @Produce      json
// @Success      200  {object}  domain.Stand
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /stands/{standID} [get]
// @Security BearerAuth
func (h *StandHandler) HandleGetStand(ctx *gin.Context) {
	if _, respErr := getActorID(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	standID := ctx.Param("standID")

	stand, err := h.svc.GetStand(ctx.Request.Context(), standID)
	if err != nil {
		if errors.Is(err, service.ErrStandNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("stand", "id", standID))
			return
		}

		err = fmt.Errorf("HandleGetStand -> h.svc.GetStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stand)
}
