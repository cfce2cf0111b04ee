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

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, string, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register an attendee
// @Description  Creates an attendee with an externally assigned id and returns an actor token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      request.RegisterRequest  true  "Attendee details"
// @Success      201    {object}  response.RegisterResponse
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var input request.RegisterRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, token, err := h.svc.Register(ctx.Request.Context(), domain.User{
		ID:         input.ID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Occupation: input.Occupation,
		Company:    input.Company,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserExists))
			return
		}

		err = fmt.Errorf("HandleRegister -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.RegisterResponse{
		User:  user,
		Token: token,
	})
}
