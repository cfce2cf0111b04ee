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

type ScanService interface {
	HandleScan(ctx context.Context, actorID int64, payload string) (domain.ScanResult, error)
}

type ScanHandler struct {
	svc ScanService
}

func NewScanHandler(svc ScanService) *ScanHandler {
	return &ScanHandler{
		svc: svc,
	}
}

// HandleScan godoc
// @Summary      Process a decoded QR payload
// @Description  Dispatches a scanned payload on the actor's role: visit credit, candidate mark or merch info
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        input  body      request.ScanRequest  true  "Decoded QR payload"
// @Success      200    {object}  domain.ScanResult
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /scan [post]
// @Security BearerAuth
func (h *ScanHandler) HandleScan(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ScanRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.HandleScan(ctx.Request.Context(), actorID, input.Payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidPayload))
		case errors.Is(err, service.ErrUserBlocked), errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "payload", input.Payload))
		case errors.Is(err, service.ErrStandNotFound):
			response.RenderErr(ctx, response.ErrNotFound("stand", "owner", actorID))
		case errors.Is(err, service.ErrMerchNotFound):
			response.RenderErr(ctx, response.ErrNotFound("merch", "payload", input.Payload))
		default:
			err = fmt.Errorf("HandleScan -> h.svc.HandleScan -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}
