package database

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/model"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "ragcipe.db")}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer Close(db)

	assert.NoError(t, HealthCheck(context.Background(), db))

	applied, err := RunMigrations(db, "")
	require.NoError(t, err)
	assert.Empty(t, applied)

	assert.True(t, db.Migrator().HasTable(&model.Recipe{}))
	assert.True(t, db.Migrator().HasTable(&model.Product{}))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	db, err := Open(&config.Config{DBDriver: "mysql"})
	assert.Nil(t, db)
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_create_recipes.sql",
		"001_enable_pgvector.sql",
		"001_enable_pgvector_rollback.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_enable_pgvector.sql", "002_create_recipes.sql"}, files)

	_, err = migrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(&config.Config{RedisURL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	client, err = NewRedisClient(&config.Config{RedisHost: host, RedisPort: port})
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(&config.Config{RedisURL: "not-a-url://"})
	assert.Error(t, err)

	mr.Close()
	_, err = NewRedisClient(&config.Config{RedisHost: host, RedisPort: port})
	assert.Error(t, err)
}
