// Package worker mirrors committed transactions to the configured
// spreadsheet, driven by sync messages from the queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"buste/internal/amqp"
	"buste/internal/ledger"
	"buste/internal/sheets"
)

type SyncWorker struct {
	txs    *ledger.TransactionLedger
	cats   *ledger.CategoryBook
	writer sheets.TransactionWriter
}

func NewSyncWorker(txs *ledger.TransactionLedger, cats *ledger.CategoryBook, writer sheets.TransactionWriter) *SyncWorker {
	return &SyncWorker{txs: txs, cats: cats, writer: writer}
}

// HandleSyncMessage reloads the transaction named by the message and appends
// it to the mirror. A transaction deleted between publish and consume is
// treated as handled; the mirror is append-only and keeps no row for it.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"deleted", msg.Deleted)

	if msg.Deleted {
		// Rows cannot be removed from the append-only mirror; the deletion
		// stays visible in the ledger itself.
		slog.InfoContext(ctx, "Skipping delete message, mirror is append-only", "id", msg.ID)
		return nil
	}

	t, err := w.txs.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if t == nil {
		slog.WarnContext(ctx, "Transaction gone before sync, skipping", "id", msg.ID)
		return nil
	}

	row := sheets.Row{
		Date:     t.Date,
		Note:     t.Note,
		Amount:   t.Amount,
		Category: w.cats.NameOf(ctx, t.CategoryID),
	}
	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"id", msg.ID,
		"sheets_ref", ref,
		"amount", t.Amount)
	return nil
}
