package ledger

import (
	"context"
	"fmt"
	"time"

	"buste/internal/store"
)

const diagID = "logs"

// DiagLog is the user-visible diagnostic log the settings screen shows:
// timestamped lines, newest first, persisted in the settings collection.
type DiagLog struct {
	store store.Store
}

func NewDiagLog(s store.Store) *DiagLog {
	return &DiagLog{store: s}
}

func (d *DiagLog) Lines(ctx context.Context) ([]string, error) {
	rec, err := d.store.Get(ctx, store.Settings, diagID)
	if err != nil {
		return nil, fmt.Errorf("get diag log: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	raw, _ := rec["lines"].([]any)
	lines := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			lines = append(lines, s)
		}
	}
	return lines, nil
}

// Add prepends a timestamped line.
func (d *DiagLog) Add(ctx context.Context, msg string) error {
	lines, err := d.Lines(ctx)
	if err != nil {
		return err
	}
	stamped := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), msg)
	lines = append([]string{stamped}, lines...)
	return d.put(ctx, lines)
}

func (d *DiagLog) Clear(ctx context.Context) error {
	return d.put(ctx, []string{})
}

func (d *DiagLog) put(ctx context.Context, lines []string) error {
	rec := store.Record{"id": diagID, "lines": lines}
	if err := d.store.Put(ctx, store.Settings, rec); err != nil {
		return fmt.Errorf("save diag log: %w", err)
	}
	return nil
}
