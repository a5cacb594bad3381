package ledger

import (
	"context"
	"fmt"
	"sort"

	"buste/internal/core"
	"buste/internal/store"

	"github.com/google/uuid"
)

// FixedExpenseBook tracks named monthly obligations outside the transaction
// ledger. They only participate in backups and the fixed-costs view.
type FixedExpenseBook struct {
	store store.Store
}

func NewFixedExpenseBook(s store.Store) *FixedExpenseBook {
	return &FixedExpenseBook{store: s}
}

func (b *FixedExpenseBook) Upsert(ctx context.Context, e core.FixedExpense) (string, error) {
	if e.Name == "" {
		return "", core.ErrEmptyName
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	rec, err := store.Encode(e)
	if err != nil {
		return "", err
	}
	if err := b.store.Put(ctx, store.Expenses, rec); err != nil {
		return "", fmt.Errorf("upsert fixed expense: %w", err)
	}
	return e.ID, nil
}

func (b *FixedExpenseBook) Delete(ctx context.Context, id string) error {
	if err := b.store.Del(ctx, store.Expenses, id); err != nil {
		return fmt.Errorf("delete fixed expense: %w", err)
	}
	return nil
}

func (b *FixedExpenseBook) List(ctx context.Context) ([]core.FixedExpense, error) {
	recs, err := b.store.All(ctx, store.Expenses)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	out := make([]core.FixedExpense, 0, len(recs))
	for _, rec := range recs {
		var e core.FixedExpense
		if err := store.Decode(rec, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
