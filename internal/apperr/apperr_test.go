package apperr_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/friendhub/internal/apperr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validation("firstName must be at least 2", nil), http.StatusBadRequest, "firstName must be at least 2"},
		{"unauthorized", apperr.Unauthorized(), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperr.Forbidden(), http.StatusForbidden, "forbidden"},
		{"not found", apperr.NotFound("friend"), http.StatusNotFound, "friend not found"},
		{"conflict", apperr.Conflict("email already registered"), http.StatusConflict, "email already registered"},
		{"store failure hides driver message", apperr.Store("friends.create", errors.New("dial tcp: refused")), http.StatusInternalServerError, "internal error"},
		{"untyped error falls back", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := apperr.Normalize(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestStore_NilPassesThrough(t *testing.T) {
	assert.NoError(t, apperr.Store("friends.list", nil))
}

func TestIs(t *testing.T) {
	assert.True(t, apperr.Is(apperr.NotFound("friend"), apperr.CodeNotFound))
	assert.False(t, apperr.Is(apperr.NotFound("friend"), apperr.CodeConflict))
	assert.False(t, apperr.Is(errors.New("plain"), apperr.CodeNotFound))
	assert.False(t, apperr.Is(nil, apperr.CodeNotFound))
}

func TestDetails(t *testing.T) {
	details := []string{"firstName", "email"}
	err := apperr.Validation("bad", details)

	assert.Equal(t, details, apperr.Details(err))
	assert.Nil(t, apperr.Details(errors.New("plain")))
}

func TestLog_IncludesCode(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	apperr.Log(log, "create friend failed", apperr.Store("friends.create", errors.New("disk full")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "create friend failed", entry["msg"])
	assert.Equal(t, apperr.CodeStore, entry["code"])
	assert.Contains(t, entry["err"], "disk full")
}
