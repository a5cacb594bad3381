package worker

import (
	"context"
	"testing"

	"buste/internal/amqp"
	"buste/internal/core"
	"buste/internal/ledger"
	"buste/internal/sheets/memory"
	"buste/internal/store"
)

func TestHandleSyncMessageMirrorsRow(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	txs := ledger.NewTransactionLedger(s)
	cats := ledger.NewCategoryBook(s)
	writer := memory.New()
	w := NewSyncWorker(txs, cats, writer)

	catID, err := cats.Upsert(ctx, core.Category{Name: "Groceries"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	id, err := txs.Append(ctx, core.Transaction{Amount: 12.5, Date: "2025-03-01", Note: "shop", CategoryID: catID})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(id)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Category != "Groceries" || rows[0].Amount != 12.5 || rows[0].Date != "2025-03-01" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestHandleSyncMessageMissingTransaction(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	w := NewSyncWorker(ledger.NewTransactionLedger(s), ledger.NewCategoryBook(s), memory.New())

	// A message for a transaction deleted in the meantime is handled, not
	// requeued forever.
	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage("gone")); err != nil {
		t.Fatalf("handle missing: %v", err)
	}
}

func TestHandleDeleteMessageIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	writer := memory.New()
	w := NewSyncWorker(ledger.NewTransactionLedger(s), ledger.NewCategoryBook(s), writer)

	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionDeleteMessage("x")); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Fatal("delete message must not append")
	}
}
