package services

import (
	"context"
	"testing"
	"time"

	"buste/internal/core"
	"buste/internal/ledger"
	"buste/internal/store"
)

func newProjector(s store.Store) (*RecurringProjector, *ledger.SettingsRegistry, *ledger.TransactionLedger) {
	settings := ledger.NewSettingsRegistry(s)
	txs := ledger.NewTransactionLedger(s)
	return NewRecurringProjector(settings, txs, ledger.NewDiagLog(s)), settings, txs
}

func TestProjectionCatchesUpDailyItem(t *testing.T) {
	ctx := context.Background()
	p, settings, txs := newProjector(store.NewMemory())

	s := core.DefaultSettings()
	s.Recurring = []core.RecurringItem{
		{Amount: 3, Next: "2025-03-10", Freq: core.Daily, Note: "espresso"},
	}
	if err := settings.Save(ctx, s); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	created, err := p.Run(ctx, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != 5 {
		t.Fatalf("created = %d, want 5 (10th through 14th inclusive)", created)
	}

	got, err := txs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d transactions, want 5", len(got))
	}
	// Newest first.
	if got[0].Date != "2025-03-14" || got[4].Date != "2025-03-10" {
		t.Fatalf("unexpected date range: %s .. %s", got[4].Date, got[0].Date)
	}

	after, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if after.Recurring[0].Next != "2025-03-15" {
		t.Fatalf("next = %s, want 2025-03-15", after.Recurring[0].Next)
	}

	// A second run on the same day does nothing.
	created, err = p.Run(ctx, now)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if created != 0 {
		t.Fatalf("rerun created %d, want 0", created)
	}
}

func TestProjectionMonthlyClampsToLastDay(t *testing.T) {
	ctx := context.Background()
	p, settings, txs := newProjector(store.NewMemory())

	s := core.DefaultSettings()
	s.Recurring = []core.RecurringItem{
		{Amount: 50, Next: "2025-01-31", Freq: core.Monthly, Note: "gym"},
	}
	if err := settings.Save(ctx, s); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	created, err := p.Run(ctx, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2 (Jan 31 and Feb 28)", created)
	}

	got, err := txs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	dates := map[string]bool{}
	for _, tx := range got {
		dates[tx.Date] = true
	}
	if !dates["2025-01-31"] || !dates["2025-02-28"] {
		t.Fatalf("clamped dates missing: %v", dates)
	}

	after, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if after.Recurring[0].Next != "2025-03-28" {
		t.Fatalf("next = %s, want 2025-03-28", after.Recurring[0].Next)
	}
}

func TestProjectionSkipsInvalidItem(t *testing.T) {
	ctx := context.Background()
	p, settings, txs := newProjector(store.NewMemory())

	s := core.DefaultSettings()
	s.Recurring = []core.RecurringItem{
		{Amount: 1, Next: "garbage", Freq: core.Daily},
		{Amount: 2, Next: "2025-03-14", Freq: core.Daily, Note: "good"},
	}
	if err := settings.Save(ctx, s); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	created, err := p.Run(ctx, time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	got, _ := txs.List(ctx)
	if len(got) != 1 || got[0].Note != "good" {
		t.Fatalf("unexpected projection output: %+v", got)
	}
}
