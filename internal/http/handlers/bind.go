package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
)

// BindJSON decodes the body into out. Field rules are not checked here; the
// service validates. On failure the response is written and false returned.
func BindJSON(ctx *gin.Context, log *slog.Logger, out any) bool {
	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "request body too large", gin.H{"limit": maxErr.Limit})
		return false
	}

	RespondErr(ctx, log, apperr.Validation("invalid request body", parseBindError(err)))
	return false
}

func parseBindError(err error) any {
	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := strings.TrimSpace(typeError.Field)

		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []friend.FieldError{
				{
					Field:   field,
					Rule:    "type",
					Message: fmt.Sprintf("%s must be of type %s", field, typeError.Type.String()),
				},
			},
		}
	}

	return gin.H{"reason": err.Error()}
}
