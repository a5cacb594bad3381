package ledger

import (
	"context"
	"fmt"

	"buste/internal/core"
	"buste/internal/store"

	"github.com/google/uuid"
)

// CarryLedger holds per-(month, category) carried-forward balances. The key
// is the explicit two-field CarryKey; the stored record id is an opaque uuid,
// uniqueness comes from the key fields themselves.
type CarryLedger struct {
	store store.Store
}

func NewCarryLedger(s store.Store) *CarryLedger {
	return &CarryLedger{store: s}
}

// Get returns the carried balance for the key. Absence means zero.
func (l *CarryLedger) Get(ctx context.Context, key core.CarryKey) (float64, error) {
	rec, err := l.find(ctx, key)
	if err != nil || rec == nil {
		return 0, err
	}
	return rec.Amount, nil
}

// Set upserts the carried balance for the key.
func (l *CarryLedger) Set(ctx context.Context, key core.CarryKey, amount float64) error {
	rec, err := l.find(ctx, key)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &core.CarryRecord{
			ID:         uuid.NewString(),
			Month:      key.Month,
			CategoryID: key.CategoryID,
		}
	}
	rec.Amount = amount
	encoded, err := store.Encode(rec)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, store.Carry, encoded); err != nil {
		return fmt.Errorf("set carry %s/%s: %w", key.Month, key.CategoryID, err)
	}
	return nil
}

// HasMonth reports whether any carry record exists for the month. Month
// initialization uses this as its idempotency check.
func (l *CarryLedger) HasMonth(ctx context.Context, month string) (bool, error) {
	recs, err := l.store.Index(ctx, store.Carry, "month", month)
	if err != nil {
		return false, fmt.Errorf("carry by month: %w", err)
	}
	return len(recs) > 0, nil
}

// Month returns all carry records for a month.
func (l *CarryLedger) Month(ctx context.Context, month string) ([]core.CarryRecord, error) {
	recs, err := l.store.Index(ctx, store.Carry, "month", month)
	if err != nil {
		return nil, fmt.Errorf("carry by month: %w", err)
	}
	out := make([]core.CarryRecord, 0, len(recs))
	for _, rec := range recs {
		var cr core.CarryRecord
		if err := store.Decode(rec, &cr); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, nil
}

func (l *CarryLedger) find(ctx context.Context, key core.CarryKey) (*core.CarryRecord, error) {
	recs, err := l.store.Index(ctx, store.Carry, "month", key.Month)
	if err != nil {
		return nil, fmt.Errorf("carry by month: %w", err)
	}
	for _, rec := range recs {
		var cr core.CarryRecord
		if err := store.Decode(rec, &cr); err != nil {
			return nil, err
		}
		if cr.CategoryID == key.CategoryID {
			return &cr, nil
		}
	}
	return nil, nil
}
