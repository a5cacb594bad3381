package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, Categories, Record{"id": "c1", "name": "Food"}))
	require.NoError(t, m.Put(ctx, Categories, Record{"id": "c2", "name": "Rent"}))

	rec, err := m.Get(ctx, Categories, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Food", rec["name"])

	missing, err := m.Get(ctx, Categories, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Upsert replaces by id.
	require.NoError(t, m.Put(ctx, Categories, Record{"id": "c1", "name": "Groceries"}))
	rec, err = m.Get(ctx, Categories, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", rec["name"])

	all, err := m.All(ctx, Categories)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, m.Del(ctx, Categories, "c2"))
	all, err = m.All(ctx, Categories)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, m.Clear(ctx, Categories))
	all, err = m.All(ctx, Categories)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryPutRequiresID(t *testing.T) {
	err := NewMemory().Put(context.Background(), Categories, Record{"name": "no id"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, Transactions, Record{"id": "t1", "categoryId": "c1", "amount": 5.0}))
	require.NoError(t, m.Put(ctx, Transactions, Record{"id": "t2", "categoryId": "c2", "amount": 7.0}))
	require.NoError(t, m.Put(ctx, Transactions, Record{"id": "t3", "categoryId": "c1", "amount": 9.0}))

	byCat, err := m.Index(ctx, Transactions, "categoryId", "c1")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)
}

func TestMemoryIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	rec := Record{"id": "s1", "lines": []any{"a"}}
	require.NoError(t, m.Put(ctx, Settings, rec))

	rec["lines"] = []any{"mutated"}
	got, err := m.Get(ctx, Settings, "s1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got["lines"])

	got["lines"] = []any{"mutated again"}
	again, err := m.Get(ctx, Settings, "s1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, again["lines"])
}

func TestEncodeDecode(t *testing.T) {
	type sample struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
	}
	rec, err := Encode(sample{ID: "x", Amount: 1.5})
	require.NoError(t, err)
	assert.Equal(t, "x", ID(rec))

	var back sample
	require.NoError(t, Decode(rec, &back))
	assert.Equal(t, 1.5, back.Amount)
}
