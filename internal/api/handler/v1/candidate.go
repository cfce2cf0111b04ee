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

type CandidateService interface {
	Mark(ctx context.Context, candidateID, markerID int64) error
	Unmark(ctx context.Context, candidateID, markerID int64) error
	AddNote(ctx context.Context, note domain.CandidateNote) (domain.CandidateNote, error)
	GetNotes(ctx context.Context, candidateID, authorID int64) ([]domain.CandidateNote, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	ListMarkedBy(ctx context.Context, markerID int64) ([]domain.User, error)
}

type CandidateHandler struct {
	svc   CandidateService
	roles PermissionChecker
}

func NewCandidateHandler(svc CandidateService, roles PermissionChecker) *CandidateHandler {
	return &CandidateHandler{
		svc:   svc,
		roles: roles,
	}
}

func (h *CandidateHandler) requireMarker(ctx *gin.Context) (int64, int64, *response.Err) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		return 0, 0, respErr
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermMarkCandidates); err != nil {
		return 0, 0, response.ErrPermissionDenied(err)
	}

	targetID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		return 0, 0, response.ErrBadRequest(fmt.Errorf("invalid user id %q", ctx.Param("userID")))
	}

	return actorID, targetID, nil
}

// HandleMark godoc
// @Summary      Mark an attendee as a hiring candidate
// @Tags         candidates
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /candidates/{userID}/mark [post]
// @Security BearerAuth
func (h *CandidateHandler) HandleMark(ctx *gin.Context) {
	actorID, targetID, respErr := h.requireMarker(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Mark(ctx.Request.Context(), targetID, actorID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleMark -> h.svc.Mark -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUnmark godoc
// @Summary      Remove the actor's candidate mark from an attendee
// @Tags         candidates
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /candidates/{userID}/unmark [post]
// @Security BearerAuth
func (h *CandidateHandler) HandleUnmark(ctx *gin.Context) {
	actorID, targetID, respErr := h.requireMarker(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Unmark(ctx.Request.Context(), targetID, actorID); err != nil {
		err = fmt.Errorf("HandleUnmark -> h.svc.Unmark -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddNote godoc
// @Summary      Attach a note to a candidate
// @Description  Marks the attendee first if the author had not yet
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        input  body      request.AddNoteRequest  true  "Note"
// @Success      201    {object}  domain.CandidateNote
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /candidates/{userID}/notes [post]
// @Security BearerAuth
func (h *CandidateHandler) HandleAddNote(ctx *gin.Context) {
	actorID, targetID, respErr := h.requireMarker(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AddNoteRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	note, err := h.svc.AddNote(ctx.Request.Context(), domain.CandidateNote{
		CandidateID: targetID,
		AuthorID:    actorID,
		Text:        input.Text,
		Rating:      input.Rating,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleAddNote -> h.svc.AddNote -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, note)
}

// HandleGetNotes godoc
// @Summary      Get the notes collected about a candidate
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.CandidateNote
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /candidates/{userID}/notes [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleGetNotes(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermViewCandidates); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	targetID, err := strconv.ParseInt(ctx.Param("userID"), 10, 64)
	if err != nil || targetID <= 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user id %q", ctx.Param("userID"))))
		return
	}

	notes, err := h.svc.GetNotes(ctx.Request.Context(), targetID, 0)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", targetID))
			return
		}

		err = fmt.Errorf("HandleGetNotes -> h.svc.GetNotes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, notes)
}

// HandleListCandidates godoc
// @Summary      List all marked candidates with their notes
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.Candidate
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /candidates [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleListCandidates(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermViewCandidates); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	candidates, err := h.svc.ListCandidates(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListCandidates -> h.svc.ListCandidates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, candidates)
}

// HandleListMarked godoc
// @Summary      List attendees marked by the actor
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /candidates/marked [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleListMarked(ctx *gin.Context) {
	actorID, respErr := getActorID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.roles.CheckPermission(ctx.Request.Context(), actorID, service.PermMarkCandidates); err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	users, err := h.svc.ListMarkedBy(ctx.Request.Context(), actorID)
	if err != nil {
		err = fmt.Errorf("HandleListMarked -> h.svc.ListMarkedBy -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}
