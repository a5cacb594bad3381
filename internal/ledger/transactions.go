package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"buste/internal/core"
	"buste/internal/store"

	"github.com/google/uuid"
)

type TransactionLedger struct {
	store store.Store
}

func NewTransactionLedger(s store.Store) *TransactionLedger {
	return &TransactionLedger{store: s}
}

// Append writes a transaction, assigning an id when absent, and returns the
// id. Existing ids are upserted in place (field replacement, never merge).
func (l *TransactionLedger) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	rec, err := store.Encode(t)
	if err != nil {
		return "", err
	}
	if err := l.store.Put(ctx, store.Transactions, rec); err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"amount", t.Amount,
		"date", t.Date,
		"category_id", t.CategoryID)
	return t.ID, nil
}

func (l *TransactionLedger) Delete(ctx context.Context, id string) error {
	if err := l.store.Del(ctx, store.Transactions, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (l *TransactionLedger) Get(ctx context.Context, id string) (*core.Transaction, error) {
	rec, err := l.store.Get(ctx, store.Transactions, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	var t core.Transaction
	if err := store.Decode(rec, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all transactions ordered by date descending.
func (l *TransactionLedger) List(ctx context.Context) ([]core.Transaction, error) {
	recs, err := l.store.All(ctx, store.Transactions)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(recs))
	for _, rec := range recs {
		var t core.Transaction
		if err := store.Decode(rec, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// SumCategoryWindow sums the amounts of one category's transactions inside
// the half-open window [start, end) of date strings.
func (l *TransactionLedger) SumCategoryWindow(ctx context.Context, categoryID, start, end string) (float64, error) {
	recs, err := l.store.Index(ctx, store.Transactions, "categoryId", categoryID)
	if err != nil {
		return 0, fmt.Errorf("transactions by category: %w", err)
	}
	var sum float64
	for _, rec := range recs {
		var t core.Transaction
		if err := store.Decode(rec, &t); err != nil {
			return 0, err
		}
		if core.InMonthWindow(t.Date, start, end) {
			sum += t.Amount
		}
	}
	return sum, nil
}

// SumWindow sums all transaction amounts inside [start, end).
func (l *TransactionLedger) SumWindow(ctx context.Context, start, end string) (float64, error) {
	all, err := l.List(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range all {
		if core.InMonthWindow(t.Date, start, end) {
			sum += t.Amount
		}
	}
	return sum, nil
}
