package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/db"
	"github.com/geocoder89/friendhub/internal/observability"
)

// storeOpener returns the store a command works on.
type storeOpener func(ctx context.Context, cfg config.Config, log *slog.Logger) (*db.Handle, error)

func defaultOpener(ctx context.Context, cfg config.Config, log *slog.Logger) (*db.Handle, error) {
	return db.OpenStore(ctx, cfg, observability.NewProm(), log)
}

type rootOptions struct {
	driver string
	open   storeOpener
}

// config merges flags over the environment.
func (o *rootOptions) config() config.Config {
	cfg := config.Load()
	if o.driver != "" {
		cfg.StoreDriver = o.driver
	}
	return cfg
}

func NewRootCmd(open storeOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "friendsctl",
		Short:         "Administer the friendhub credential store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "store driver (memory, postgres, mongo); defaults to STORE_DRIVER")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newListCmd(opts))

	return cmd
}

// withStore opens the store, runs fn and closes the store again.
func (o *rootOptions) withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg config.Config, h *db.Handle, log *slog.Logger) error) error {
	cfg := o.config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Env)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h, err := o.open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close(context.Background()) }()

	return fn(ctx, cfg, h, log)
}
