package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/http/middlewares"
)

// APIError is the body of every non-2xx JSON response.
type APIError struct {
	ErrorCode int    `json:"errorCode"`
	Msg       string `json:"msg"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func RespondError(ctx *gin.Context, status int, msg string, details any) {
	ctx.AbortWithStatusJSON(status, APIError{
		ErrorCode: status,
		Msg:       msg,
		RequestID: middlewares.RequestIDFrom(ctx),
		Details:   details,
	})
}

// RespondErr normalizes err into a status and message. Server-side failures
// are logged and never leak their cause.
func RespondErr(ctx *gin.Context, log *slog.Logger, err error) {
	status, msg := apperr.Normalize(err)

	if status >= http.StatusInternalServerError {
		apperr.Log(log.With("request_id", middlewares.RequestIDFrom(ctx)), "request failed", err)
		RespondError(ctx, status, msg, nil)
		return
	}

	RespondError(ctx, status, msg, apperr.Details(err))
}

func RespondNotFound(ctx *gin.Context) {
	RespondError(ctx, http.StatusNotFound, "not found", nil)
}
