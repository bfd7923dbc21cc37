package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/nutriledger/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))

	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, metadata.KeyEmail, []byte("a@b.c")))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestInitDatabase_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, metadata.KeyAccessToken, []byte("tok")))
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	v, err := metadata.NewSQLiteRepository(db).Get(ctx, metadata.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(v))
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "session.db"))
	assert.Error(t, err)
}
