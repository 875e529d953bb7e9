package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/TaskForge-io/taskforge/internal/config"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	// Schema must be in place.
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM todos").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpenUnsupportedType(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "oracle"

	_, err := Open(cfg)
	require.Error(t, err)
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, RunMigrations(db, "sqlite"))

	var before int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&before))
	assert.Equal(t, len(GetMigrations("sqlite")), before)

	// A second run applies nothing new.
	require.NoError(t, RunMigrations(db, "sqlite"))

	var after int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after))
	assert.Equal(t, before, after)
}

func TestMigrationVersionsOrderedAndMatched(t *testing.T) {
	sqlite := GetMigrations("sqlite")
	postgres := GetMigrations("postgres")
	require.Equal(t, len(sqlite), len(postgres), "backends must carry the same migrations")

	for i := range sqlite {
		assert.Equal(t, i+1, sqlite[i].Version)
		assert.Equal(t, sqlite[i].Version, postgres[i].Version)
		assert.Equal(t, sqlite[i].Description, postgres[i].Description)
	}
}

func TestWithTxCommits(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	err = WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n, "must commit on success")
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO t(v) VALUES ('fail')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 0, n, "must roll back on error")
}
