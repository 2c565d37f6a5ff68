// Package actorctx carries the authenticated friend on a context.Context so
// code below the HTTP layer can see who is acting.
package actorctx

import (
	"context"

	"github.com/geocoder89/friendhub/internal/domain/friend"
)

type key struct{}

func WithIdentity(ctx context.Context, id friend.Identity) context.Context {
	return context.WithValue(ctx, key{}, id)
}

func IdentityFrom(ctx context.Context) (friend.Identity, bool) {
	v, ok := ctx.Value(key{}).(friend.Identity)

	return v, ok && v.Username != ""
}
