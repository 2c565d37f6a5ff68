package friend

import (
	"context"
	"log/slog"

	"github.com/geocoder89/friendhub/internal/apperr"
)

// DeleteOrFalse collapses a store delete into a bool. A store error is logged
// and reported as false; the caller sees delete as idempotent and infallible.
func DeleteOrFalse(ctx context.Context, store Store, email string, log *slog.Logger) bool {
	deleted, err := store.DeleteByEmail(ctx, email)
	if err != nil {
		apperr.Log(log, "delete friend failed", err)
		return false
	}

	return deleted
}
