package storage

import (
	"context"
	"path/filepath"
	"testing"

	"buste/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "buste.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := store.Record{"id": "c1", "name": "Food", "cap": 100.0, "envelope": nil}
	require.NoError(t, s.Put(ctx, store.Categories, rec))

	got, err := s.Get(ctx, store.Categories, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Food", got["name"])
	assert.Equal(t, 100.0, got["cap"])

	missing, err := s.Get(ctx, store.Categories, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	rec["name"] = "Groceries"
	require.NoError(t, s.Put(ctx, store.Categories, rec))
	got, err = s.Get(ctx, store.Categories, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got["name"])

	all, err := s.All(ctx, store.Categories)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Del(ctx, store.Categories, "c1"))
	all, err = s.All(ctx, store.Categories)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteIndexAndClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	txs := []store.Record{
		{"id": "t1", "categoryId": "c1", "date": "2025-03-01", "amount": 5.0},
		{"id": "t2", "categoryId": "c2", "date": "2025-03-02", "amount": 6.0},
		{"id": "t3", "categoryId": "c1", "date": "2025-03-03", "amount": 7.0},
	}
	for _, tx := range txs {
		require.NoError(t, s.Put(ctx, store.Transactions, tx))
	}

	byCat, err := s.Index(ctx, store.Transactions, "categoryId", "c1")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	none, err := s.Index(ctx, store.Transactions, "categoryId", "c9")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Clear(ctx, store.Transactions))
	all, err := s.All(ctx, store.Transactions)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, store.Categories, store.Record{"id": "x", "name": "cat"}))
	require.NoError(t, s.Put(ctx, store.Events, store.Record{"id": "x", "type": "transfer"}))

	require.NoError(t, s.Clear(ctx, store.Events))
	got, err := s.Get(ctx, store.Categories, "x")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
