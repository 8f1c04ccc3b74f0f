package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/migrations"
	"github.com/oksasatya/go-ddd-campus/internal/testutil"
)

func TestUpDownVersion_SQLite(t *testing.T) {
	db := testutil.OpenDB(t)

	v, dirty, err := migrations.Version(db.DB, migrations.SQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)
	assert.False(t, dirty)

	require.NoError(t, migrations.Up(db.DB, migrations.SQLite, nil))
	// running again is a no-op
	require.NoError(t, migrations.Up(db.DB, migrations.SQLite, nil))

	v, dirty, err = migrations.Version(db.DB, migrations.SQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.False(t, dirty)

	require.NoError(t, migrations.Down(db.DB, migrations.SQLite, 1))
	v, _, err = migrations.Version(db.DB, migrations.SQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'classes'"))
	assert.Equal(t, 0, count)

	require.NoError(t, migrations.Down(db.DB, migrations.SQLite, 0))
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'"))
	assert.Equal(t, 0, count)
}

func TestUnsupportedDialect(t *testing.T) {
	db := testutil.OpenDB(t)
	err := migrations.Up(db.DB, "oracle", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}
