package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/container"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/migrations"
	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or revert the campus schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "database driver: postgres or sqlite")
	root.PersistentFlags().StringVar(&cfg.SQLiteDSN, "sqlite-dsn", cfg.SQLiteDSN, "sqlite DSN when --driver=sqlite")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), cfg, func(db *container.Database) error {
				return db.Migrate(helpers.NewLogger(cfg.AppName+"-migrate", cfg.Env, cfg.LogLevel))
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Revert the given number of migrations, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return withDB(cmd.Context(), cfg, func(db *container.Database) error {
				return migrations.Down(db.DB.DB, db.Dialect, steps)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), cfg, func(db *container.Database) error {
				v, dirty, err := migrations.Version(db.DB.DB, db.Dialect)
				if err != nil {
					return err
				}
				cmd.Printf("version=%d dirty=%t\n", v, dirty)
				return nil
			})
		},
	})
	return root
}

func withDB(ctx context.Context, cfg *config.Config, fn func(*container.Database) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := container.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
