package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/config"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/migrations"
	pginfra "github.com/oksasatya/go-ddd-campus/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/sqlite"
)

// Database is an open connection for the configured driver.
type Database struct {
	DB      *sqlx.DB
	Dialect string
	close   func()
}

func (d *Database) Close() {
	if d != nil && d.close != nil {
		d.close()
	}
}

// OpenDatabase connects using cfg.DBDriver: a pgx pool for postgres or a
// modernc sqlite file.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*Database, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
			ApplicationName: cfg.AppName + "-" + cfg.ServiceName,
		})
		if err != nil {
			return nil, err
		}
		db := pginfra.OpenDB(pool)
		return &Database{DB: db, Dialect: migrations.Postgres, close: func() {
			_ = db.Close()
			pool.Close()
		}}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return &Database{DB: db, Dialect: migrations.SQLite, close: func() { _ = db.Close() }}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate applies pending migrations for the database's dialect.
func (d *Database) Migrate(logger *logrus.Logger) error {
	return migrations.Up(d.DB.DB, d.Dialect, logger)
}
