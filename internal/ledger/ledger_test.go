package ledger

import (
	"context"
	"testing"

	"buste/internal/core"
	"buste/internal/store"
)

func TestSettingsDefaultsMergedOnRead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	reg := NewSettingsRegistry(st)

	s, err := reg.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.MonthlyBudget != 2000 || s.QStart != 22 || s.QEnd != 7 || !s.Quiet {
		t.Fatalf("defaults not applied: %+v", s)
	}

	// A partial stored record keeps defaults for omitted fields.
	if err := st.Put(ctx, store.Settings, store.Record{"id": "settings", "monthlyBudget": 1500.0}); err != nil {
		t.Fatalf("put: %v", err)
	}
	s, err = reg.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.MonthlyBudget != 1500 {
		t.Fatalf("stored field ignored: %+v", s)
	}
	if s.QStart != 22 || !s.EnvEnabled {
		t.Fatalf("defaults lost on merge: %+v", s)
	}

	s.EnvRollover = true
	if err := reg.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s2, err := reg.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !s2.EnvRollover || s2.MonthlyBudget != 1500 {
		t.Fatalf("round trip lost data: %+v", s2)
	}
}

func TestCarryLedger(t *testing.T) {
	ctx := context.Background()
	carry := NewCarryLedger(store.NewMemory())
	key := core.CarryKey{Month: "2025-03-01", CategoryID: "c1"}

	if v, err := carry.Get(ctx, key); err != nil || v != 0 {
		t.Fatalf("absent carry: %v, %v", v, err)
	}
	if ok, err := carry.HasMonth(ctx, "2025-03-01"); err != nil || ok {
		t.Fatalf("empty month reported present: %v, %v", ok, err)
	}

	if err := carry.Set(ctx, key, 40); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := carry.Set(ctx, key, 55); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if v, _ := carry.Get(ctx, key); v != 55 {
		t.Fatalf("got %v, want 55", v)
	}

	// One record per (month, category) even after repeated sets.
	recs, err := carry.Month(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 carry record, got %d", len(recs))
	}
	if ok, _ := carry.HasMonth(ctx, "2025-03-01"); !ok {
		t.Fatal("month should be present")
	}
	if ok, _ := carry.HasMonth(ctx, "2025-04-01"); ok {
		t.Fatal("other month should be absent")
	}
}

func TestTransactionLedgerOrderAndSums(t *testing.T) {
	ctx := context.Background()
	txl := NewTransactionLedger(store.NewMemory())

	for _, tx := range []core.Transaction{
		{Amount: 10, Date: "2025-03-05", CategoryID: "c1"},
		{Amount: 20, Date: "2025-03-20", CategoryID: "c1"},
		{Amount: 30, Date: "2025-02-10", CategoryID: "c1"},
		{Amount: 40, Date: "2025-03-12", CategoryID: "c2"},
	} {
		if _, err := txl.Append(ctx, tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := txl.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 || list[0].Date != "2025-03-20" {
		t.Fatalf("not newest-first: %+v", list)
	}

	sum, err := txl.SumCategoryWindow(ctx, "c1", "2025-03-01", "2025-04-01")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 30 {
		t.Fatalf("category window sum = %v, want 30", sum)
	}

	total, err := txl.SumWindow(ctx, "2025-03-01", "2025-04-01")
	if err != nil {
		t.Fatalf("sum window: %v", err)
	}
	if total != 70 {
		t.Fatalf("window sum = %v, want 70", total)
	}
}

func TestCategoryNameOfFallsBack(t *testing.T) {
	ctx := context.Background()
	book := NewCategoryBook(store.NewMemory())

	id, err := book.Upsert(ctx, core.Category{Name: "Food"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := book.NameOf(ctx, id); got != "Food" {
		t.Fatalf("NameOf = %q", got)
	}
	if got := book.NameOf(ctx, "orphan"); got != "Uncategorized" {
		t.Fatalf("orphan NameOf = %q", got)
	}
	if got := book.NameOf(ctx, ""); got != "Uncategorized" {
		t.Fatalf("empty NameOf = %q", got)
	}
}

func TestDiagLogNewestFirst(t *testing.T) {
	ctx := context.Background()
	diag := NewDiagLog(store.NewMemory())

	if err := diag.Add(ctx, "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := diag.Add(ctx, "second"); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := diag.Lines(ctx)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if want := "second"; len(lines[0]) == 0 || lines[0][len(lines[0])-len(want):] != want {
		t.Fatalf("newest line not first: %q", lines[0])
	}

	if err := diag.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	lines, _ = diag.Lines(ctx)
	if len(lines) != 0 {
		t.Fatalf("clear left %d lines", len(lines))
	}
}
