package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"buste/internal/core"
	"buste/internal/store"

	"github.com/google/uuid"
)

// EventLog is the append-only audit trail of transfers, rollovers and
// adjustments. Entries are never mutated or deleted.
type EventLog struct {
	store store.Store
}

func NewEventLog(s store.Store) *EventLog {
	return &EventLog{store: s}
}

// Append records an event, stamping id and date when absent.
func (l *EventLog) Append(ctx context.Context, e core.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	rec, err := store.Encode(e)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, store.Events, rec); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// List returns events ordered by date descending.
func (l *EventLog) List(ctx context.Context) ([]core.Event, error) {
	recs, err := l.store.All(ctx, store.Events)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]core.Event, 0, len(recs))
	for _, rec := range recs {
		var e core.Event
		if err := store.Decode(rec, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
