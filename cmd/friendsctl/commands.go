package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/db"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/security"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		Long:  `Apply all pending migrations to the database configured by the DB_* variables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.config()

			m, err := db.NewMigrator(cfg.DBURL)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "open migrator").Wrap(err)
			}
			defer func() { _ = m.Close() }()

			if down {
				cmd.Println("Rolling back all migrations...")
				if err := m.Down(); err != nil {
					return err
				}
			} else {
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
			}

			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			cmd.Printf("schema version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration instead")

	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo friends (password \"secret\")",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, cfg config.Config, h *db.Handle, log *slog.Logger) error {
				n, err := db.SeedFriends(ctx, h.Store, security.NewHasher(cfg.BcryptCost), log)
				if err != nil {
					return err
				}
				cmd.Printf("seeded %d friends\n", n)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete a friend by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(ctx context.Context, _ config.Config, h *db.Handle, log *slog.Logger) error {
				cmd.Printf("deleted: %t\n", friend.DeleteOrFalse(ctx, h.Store, args[0], log))
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every friend as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStore(cmd, func(ctx context.Context, _ config.Config, h *db.Handle, _ *slog.Logger) error {
				all, err := h.Store.List(ctx)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(friend.PublicList(all))
			})
		},
	}
}
