package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/config"
)

func run(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestMigrateUpDownVersion(t *testing.T) {
	cfg := &config.Config{
		AppName:  "test",
		Env:      "test",
		DBDriver: config.DriverSQLite,
	}
	dsn := "file:" + filepath.Join(t.TempDir(), "migrate.db")

	assert.Contains(t, run(t, cfg, "version", "--driver", "sqlite", "--sqlite-dsn", dsn), "version=0")

	run(t, cfg, "up", "--sqlite-dsn", dsn)
	assert.Contains(t, run(t, cfg, "version", "--sqlite-dsn", dsn), "version=2 dirty=false")

	run(t, cfg, "down", "1", "--sqlite-dsn", dsn)
	assert.Contains(t, run(t, cfg, "version", "--sqlite-dsn", dsn), "version=1 dirty=false")

	run(t, cfg, "down", "--sqlite-dsn", dsn)
	assert.Contains(t, run(t, cfg, "version", "--sqlite-dsn", dsn), "version=0")
}

func TestMigrateDownRejectsBadSteps(t *testing.T) {
	cmd := newRootCmd(&config.Config{DBDriver: config.DriverSQLite})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"down", "zero"})
	assert.Error(t, cmd.Execute())
}
