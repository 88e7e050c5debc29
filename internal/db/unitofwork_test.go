package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/arecabot/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertConversation(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, channel, created_at) VALUES (?, 'cli', '2026-03-01T08:00:00Z')`, id)
	return err
}

func conversationExists(t *testing.T, uow *db.SQLiteUnitOfWork, id string) bool {
	t.Helper()
	var n int
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations WHERE id = ?`, id).Scan(&n)
	})
	require.NoError(t, err)
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertConversation(ctx, tx, "c1")
	})
	require.NoError(t, err)
	assert.True(t, conversationExists(t, uow, "c1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertConversation(ctx, tx, "c2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, conversationExists(t, uow, "c2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertConversation(ctx, tx, "c3")
			panic("boom")
		})
	})
	assert.False(t, conversationExists(t, uow, "c3"))
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/arecabot.db"
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	assert.FileExists(t, path)
}
