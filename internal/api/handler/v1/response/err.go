package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the error envelope every failed request renders. The status code is
// unexported so it travels to the client only through the HTTP status line.
type Err struct {
	statusCode int

	Msg string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, msg string) *Err {
	return &Err{
		statusCode: statusCode,
		Msg:        msg,
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.statusCode >= http.StatusInternalServerError {
		zap.L().Error("server error",
			zap.Int("status_code", err.statusCode),
			zap.String("msg", err.Msg),
			zap.String("path", ctx.FullPath()),
		)
	}

	ctx.AbortWithStatusJSON(err.statusCode, err)
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err.Error())
}

func ErrUnauthorized(msg string) *Err {
	return NewErr(http.StatusUnauthorized, msg)
}

func ErrPermissionDenied(err error) *Err {
	return NewErr(http.StatusForbidden, err.Error())
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return NewErr(http.StatusNotFound, fmt.Sprintf("%v not found by %v (%v)", resource, key, value))
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err.Error())
}

func ErrUnprocessable(err error) *Err {
	return NewErr(http.StatusUnprocessableEntity, err.Error())
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal error", zap.Error(err))

	return NewErr(http.StatusInternalServerError, "internal server error")
}
