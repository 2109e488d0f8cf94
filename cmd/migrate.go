package main

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mloptapang/primero/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the record index and report tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := bootstrap(cmd)
			if err != nil {
				return err
			}

			conn, err := db.NewConnection(ctx, cfg)
			if err != nil {
				return errors.Wrap(err, "connect clickhouse")
			}
			defer conn.Close()

			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return errors.Wrap(err, "connect postgres")
			}
			defer pool.Close()

			if err := db.RunMigrations(ctx, conn, pool); err != nil {
				return errors.Wrap(err, "migrate")
			}
			zerolog.Ctx(ctx).Info().Msg("migrations applied")
			return nil
		},
	}
}
