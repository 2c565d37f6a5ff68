package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/observability"
	"github.com/geocoder89/friendhub/internal/repo/memory"
	"github.com/geocoder89/friendhub/internal/repo/mongodb"
	"github.com/geocoder89/friendhub/internal/repo/postgres"
)

// Store is a friend.Store that can report its own health.
type Store interface {
	friend.Store
	Ping(ctx context.Context) error
}

// Handle owns the store picked by STORE_DRIVER and whatever connection backs it.
type Handle struct {
	Store  Store
	Driver string

	close func(ctx context.Context) error
}

func (h *Handle) Close(ctx context.Context) error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// OpenStore connects the configured backend. Postgres is migrated to the
// latest schema and mongo gets its unique email index before returning.
func OpenStore(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Handle, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return &Handle{Store: memory.NewFriendsRepo(), Driver: cfg.StoreDriver}, nil

	case config.DriverPostgres:
		if err := MigrateUp(cfg.DBURL); err != nil {
			return nil, err
		}

		pool, err := NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("postgres connected", "max_conns", cfg.DBMaxConns)

		return &Handle{
			Store:  postgres.NewFriendsRepo(pool, prom),
			Driver: cfg.StoreDriver,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}

		repo := mongodb.NewFriendsRepo(client.Database(cfg.MongoDB).Collection(mongodb.CollectionName), prom)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("mongo connected", "database", cfg.MongoDB)

		return &Handle{
			Store:  repo,
			Driver: cfg.StoreDriver,
			close:  client.Disconnect,
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
