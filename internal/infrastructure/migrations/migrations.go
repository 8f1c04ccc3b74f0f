// Package migrations embeds the schema for both supported engines and applies
// it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	litemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// The migrator is never closed: closing it would close db, which the caller owns.
func newMigrator(db *sql.DB, dialect string) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch dialect {
	case Postgres:
		driver, err = pgmigrate.WithInstance(db, &pgmigrate.Config{})
	case SQLite:
		driver, err = litemigrate.WithInstance(db, &litemigrate.Config{})
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, dialect, driver)
}

// Up applies every pending migration. An up-to-date schema is not an error.
func Up(db *sql.DB, dialect string, logger *logrus.Logger) error {
	m, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.WithField("dialect", dialect).Info("running migrations...")
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		if logger != nil {
			logger.Info("no migrations to run")
		}
		return nil
	}
	return err
}

// Down reverts steps migrations, or all of them when steps <= 0.
func Down(db *sql.DB, dialect string, steps int) error {
	m, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}
	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Version reports the applied version; version 0 means a blank schema.
func Version(db *sql.DB, dialect string) (uint, bool, error) {
	m, err := newMigrator(db, dialect)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
