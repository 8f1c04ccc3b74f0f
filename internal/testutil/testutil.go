// Package testutil provides migrated sqlite databases for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/migrations"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/sqlite"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// NewTestDSN returns a DSN for a database file private to the test.
func NewTestDSN(t testing.TB) string {
	name := unsafeName.ReplaceAllString(t.Name(), "_")
	return fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), name+".db"))
}

// OpenDB opens a fresh sqlite database without applying migrations.
func OpenDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), NewTestDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})
	return db
}

// SetupTestDB opens a fresh sqlite database migrated to the latest schema.
func SetupTestDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db := OpenDB(t)
	require.NoError(t, migrations.Up(db.DB, migrations.SQLite, nil))
	return db
}
