package commands

import (
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/app"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Short:   "Apply pending database migrations and print the schema version",
		PreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			ctx := cmd.Context()

			pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Run(ctx); err != nil {
				return err
			}

			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Schema version: %d\n", version)
			return nil
		},
	}
}
