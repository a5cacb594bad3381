package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"buste/internal/core"
	"buste/internal/ledger"
)

// RecurringProjector materializes recurring items into dated transactions.
// Each run takes a single today snapshot, so an item can never chase a
// moving deadline within one invocation.
type RecurringProjector struct {
	settings *ledger.SettingsRegistry
	txs      *ledger.TransactionLedger
	diag     *ledger.DiagLog
}

func NewRecurringProjector(settings *ledger.SettingsRegistry, txs *ledger.TransactionLedger, diag *ledger.DiagLog) *RecurringProjector {
	return &RecurringProjector{settings: settings, txs: txs, diag: diag}
}

// Run projects every item whose next date is due (next <= today), one
// transaction per elapsed period, then advances next strictly past today.
// A daily item five days stale yields exactly five transactions. Returns
// the number of transactions created.
func (p *RecurringProjector) Run(ctx context.Context, now time.Time) (int, error) {
	s, err := p.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	if len(s.Recurring) == 0 {
		return 0, nil
	}

	today := core.DateOf(now)
	created := 0

	for i := range s.Recurring {
		item := &s.Recurring[i]
		if err := item.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid recurring item",
				"error", err,
				"next", item.Next,
				"note", item.Note)
			continue
		}
		for item.Next <= today {
			t := core.Transaction{
				Amount:     item.Amount,
				Date:       item.Next,
				Note:       item.Note,
				CategoryID: item.CategoryID,
			}
			if _, err := p.txs.Append(ctx, t); err != nil {
				return created, fmt.Errorf("project recurring item: %w", err)
			}
			created++

			next, err := core.NextOccurrence(item.Next, item.Freq)
			if err != nil {
				return created, err
			}
			item.Next = next
		}
	}

	if created == 0 {
		return 0, nil
	}
	if err := p.settings.Save(ctx, s); err != nil {
		return created, fmt.Errorf("save advanced recurring dates: %w", err)
	}
	if err := p.diag.Add(ctx, fmt.Sprintf("Applied recurring items (%d)", created)); err != nil {
		slog.WarnContext(ctx, "Failed to write diagnostic line", "error", err)
	}

	slog.InfoContext(ctx, "Recurring projection finished",
		"created", created,
		"today", today)
	return created, nil
}
