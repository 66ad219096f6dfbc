package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWithTransactionCommits(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	err = db.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := db.Executor(txCtx).ExecContext(txCtx, `INSERT INTO items (name) VALUES (?)`, "kept")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	sentinel := errors.New("abort")
	err = db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := db.Executor(txCtx).ExecContext(txCtx, `INSERT INTO items (name) VALUES (?)`, "discarded"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestNestedTransactionsReuseOuter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	sentinel := errors.New("abort outer")
	err = db.WithTransaction(ctx, func(outer context.Context) error {
		if err := db.WithTransaction(outer, func(inner context.Context) error {
			_, err := db.Executor(inner).ExecContext(inner, `INSERT INTO items (name) VALUES (?)`, "inner")
			return err
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The inner write rolled back with the outer transaction
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigratorAppliesOnce(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	migrations := []Migration{
		{Version: 2, Name: "add_index", SQL: `CREATE INDEX idx_items_name ON items(name)`},
		{Version: 1, Name: "create_items", SQL: `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`},
	}

	// Out-of-order input is sorted by version; a second run is a no-op
	require.NoError(t, m.Run(migrations))
	require.NoError(t, m.Run(migrations))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigratorFailureRollsBackStep(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	err := m.Run([]Migration{
		{Version: 1, Name: "broken", SQL: `CREATE BROKEN SYNTAX`},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 0, count)
}
