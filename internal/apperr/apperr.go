// Package apperr holds the typed failures the service raises and the single
// mapping from a failure to its HTTP status and message.
package apperr

import (
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeStore        = "STORE_FAILED"
)

const (
	detailsKey  = "details"
	internalMsg = "internal error"
)

// Validation is a client-fixable failure. details is surfaced as-is in the
// response body.
func Validation(msg string, details any) error {
	return oops.
		Code(CodeValidation).
		Public(msg).
		With(detailsKey, details).
		Errorf("validation failed: %s", msg)
}

func Unauthorized() error {
	return oops.Code(CodeUnauthorized).Public("unauthorized").Errorf("unauthorized")
}

func Forbidden() error {
	return oops.Code(CodeForbidden).Public("forbidden").Errorf("forbidden")
}

// NotFound reports a missing resource, e.g. NotFound("friend").
func NotFound(what string) error {
	return oops.Code(CodeNotFound).Public(what+" not found").Errorf("%s not found", what)
}

func Conflict(msg string) error {
	return oops.Code(CodeConflict).Public(msg).Errorf("conflict: %s", msg)
}

// Store wraps a persistence failure. The driver error is kept for logs and
// never shown to the caller.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}

	return oops.Code(CodeStore).In("store").With("op", op).Wrap(err)
}

func statusFor(code any) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Normalize maps any error to a status and a caller-safe message. Unknown
// errors become (500, "internal error").
func Normalize(err error) (int, string) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return http.StatusInternalServerError, internalMsg
	}

	status := statusFor(oopsErr.Code())
	if status == http.StatusInternalServerError {
		return status, internalMsg
	}

	msg := oopsErr.Public()
	if msg == "" {
		msg = http.StatusText(status)
	}

	return status, msg
}

// Details returns the structured details attached to a validation failure.
func Details(err error) any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()[detailsKey]
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	if err == nil {
		return false
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}

	return oopsErr.Code() == code
}

// Log writes err at error level with its oops code and context when present.
func Log(log *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		log.Error(msg, "err", err)
		return
	}

	attrs := []any{"err", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}

	log.Error(msg, attrs...)
}
