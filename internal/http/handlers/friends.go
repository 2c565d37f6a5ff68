package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/http/middlewares"
)

const storeTimeout = 3 * time.Second

type FriendsService interface {
	Register(ctx context.Context, in friend.Input) (string, error)
	Edit(ctx context.Context, email string, in friend.Input) (int64, error)
	Delete(ctx context.Context, email string) bool
	List(ctx context.Context) ([]friend.Friend, error)
	Find(ctx context.Context, email string) (friend.Friend, error)
}

type FriendsHandler struct {
	svc FriendsService
	log *slog.Logger
}

func NewFriendsHandler(svc FriendsService, log *slog.Logger) *FriendsHandler {
	return &FriendsHandler{svc: svc, log: log}
}

func (h *FriendsHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

// Register is open to anyone. The stored role is always user.
func (h *FriendsHandler) Register(c *gin.Context) {
	var in friend.Input
	if !BindJSON(c, h.log, &in) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	id, err := h.svc.Register(ctx, in)
	if err != nil {
		RespondErr(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *FriendsHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	all, err := h.svc.List(ctx)
	if err != nil {
		RespondErr(c, h.log, err)
		return
	}

	RespondJSONWithETag(c, http.StatusOK, friend.PublicList(all))
}

func (h *FriendsHandler) Update(c *gin.Context) {
	var in friend.Input
	if !BindJSON(c, h.log, &in) {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	n, err := h.svc.Edit(ctx, c.Param("email"), in)
	if err != nil {
		RespondErr(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": n})
}

func (h *FriendsHandler) FindByEmail(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	f, err := h.svc.Find(ctx, c.Param("email"))
	if err != nil {
		RespondErr(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, f.Public())
}

func (h *FriendsHandler) Delete(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	email := c.Param("email")
	deleted := h.svc.Delete(ctx, email)

	if id, ok := middlewares.IdentityFrom(c); ok {
		h.log.InfoContext(ctx, "friend delete", "email", email, "deleted", deleted, "by", id.Username)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Me echoes the identity the auth gate admitted.
func (h *FriendsHandler) Me(c *gin.Context) {
	id, ok := middlewares.IdentityFrom(c)
	if !ok {
		RespondErr(c, h.log, apperr.Unauthorized())
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": id.Username, "role": id.Role})
}
