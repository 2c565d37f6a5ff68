package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/friendhub/internal/actorctx"
	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/observability"
)

// CredentialVerifier checks an email/password pair.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (friend.Identity, error)
}

type BasicAuth struct {
	verifier CredentialVerifier
	realm    string
	timeout  time.Duration
	prom     *observability.Prom
	log      *slog.Logger
}

func NewBasicAuth(verifier CredentialVerifier, realm string, prom *observability.Prom, log *slog.Logger) *BasicAuth {
	return &BasicAuth{
		verifier: verifier,
		realm:    realm,
		timeout:  3 * time.Second,
		prom:     prom,
		log:      log,
	}
}

// RequireAuth admits requests carrying valid Basic credentials. Every
// rejection looks the same to the client.
func (m *BasicAuth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			m.deny(c)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), m.timeout)
		id, err := m.verifier.VerifyCredentials(ctx, username, password)
		cancel()

		if err != nil {
			if !apperr.Is(err, apperr.CodeUnauthorized) {
				apperr.Log(m.log, "credential check failed", err)
			}
			m.deny(c)
			return
		}

		m.prom.ObserveAuth("admitted")

		c.Set(CtxIdentity, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

func (m *BasicAuth) deny(c *gin.Context) {
	m.prom.ObserveAuth("denied")

	c.Header("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
	c.Data(http.StatusUnauthorized, "text/plain; charset=utf-8", []byte("Access denied"))
	c.Abort()
}

func IdentityFrom(c *gin.Context) (friend.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return friend.Identity{}, false
	}
	id, ok := v.(friend.Identity)
	return id, ok && id.Username != ""
}
