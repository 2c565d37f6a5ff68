package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/db"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/repo/memory"
)

func sharedStore(store *memory.FriendsRepo) storeOpener {
	return func(context.Context, config.Config, *slog.Logger) (*db.Handle, error) {
		return &db.Handle{Store: store, Driver: config.DriverMemory}, nil
	}
}

func run(t *testing.T, open storeOpener, args ...string) (string, error) {
	t.Helper()

	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BCRYPT_COST", "4")

	var out bytes.Buffer
	cmd := NewRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSeedListDelete(t *testing.T) {
	store := memory.NewFriendsRepo()
	open := sharedStore(store)

	out, err := run(t, open, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 3 friends")

	out, err = run(t, open, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 friends")

	out, err = run(t, open, "list")
	require.NoError(t, err)

	var listed []friend.Public
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, "pp@b.dk", listed[0].Email)
	assert.NotContains(t, out, "password")

	out, err = run(t, open, "delete", "dd@b.dk")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted: true")

	out, err = run(t, open, "delete", "dd@b.dk")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted: false")
}

func TestDelete_RequiresEmail(t *testing.T) {
	_, err := run(t, sharedStore(memory.NewFriendsRepo()), "delete")
	assert.Error(t, err)
}

func TestOpenFailureSurfaces(t *testing.T) {
	open := func(context.Context, config.Config, *slog.Logger) (*db.Handle, error) {
		return nil, errors.New("connection refused")
	}

	_, err := run(t, open, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDriverFlagOverridesEnv(t *testing.T) {
	var got string
	open := func(_ context.Context, cfg config.Config, _ *slog.Logger) (*db.Handle, error) {
		got = cfg.StoreDriver
		return &db.Handle{Store: memory.NewFriendsRepo()}, nil
	}

	_, err := run(t, open, "--driver", "mongo", "list")
	require.NoError(t, err)
	assert.Equal(t, config.DriverMongo, got)

	_, err = run(t, open, "--driver", "sqlite", "list")
	assert.Error(t, err)
}
