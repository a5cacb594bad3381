package services

import (
	"context"
	"errors"
	"testing"

	"buste/internal/amqp"
	"buste/internal/core"
	"buste/internal/envelope"
	"buste/internal/ledger"
	"buste/internal/store"
)

type stubPublisher struct {
	messages []*amqp.TransactionSyncMessage
	err      error
}

func (p *stubPublisher) PublishTransactionSync(_ context.Context, msg *amqp.TransactionSyncMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func newEngine(s store.Store) *envelope.Engine {
	return envelope.New(
		ledger.NewSettingsRegistry(s),
		ledger.NewCategoryBook(s),
		ledger.NewTransactionLedger(s),
		ledger.NewCarryLedger(s),
		ledger.NewEventLog(s),
		ledger.NewDiagLog(s),
	)
}

func TestRecordPublishesSyncMessage(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	pub := &stubPublisher{}
	svc := NewTransactionService(ledger.NewTransactionLedger(s), newEngine(s), pub)

	id, err := svc.Record(ctx, core.Transaction{Amount: 10, Date: "2025-03-01"}, false)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(pub.messages) != 1 || pub.messages[0].ID != id {
		t.Fatalf("expected one sync message for %s, got %+v", id, pub.messages)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.messages) != 2 || !pub.messages[1].Deleted {
		t.Fatalf("expected a delete message, got %+v", pub.messages)
	}
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	pub := &stubPublisher{err: errors.New("broker down")}
	txs := ledger.NewTransactionLedger(s)
	svc := NewTransactionService(txs, newEngine(s), pub)

	id, err := svc.Record(ctx, core.Transaction{Amount: 10, Date: "2025-03-01"}, false)
	if err != nil {
		t.Fatalf("record should not fail on publish error: %v", err)
	}
	got, err := txs.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("transaction not committed: %v %v", got, err)
	}
}

func TestRecordNilPublisher(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewTransactionService(ledger.NewTransactionLedger(s), newEngine(s), nil)

	if _, err := svc.Record(ctx, core.Transaction{Amount: 5, Date: "2025-03-01"}, false); err != nil {
		t.Fatalf("record with nil publisher: %v", err)
	}
}

func TestRecordRejectsInvalidDate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewTransactionService(ledger.NewTransactionLedger(s), newEngine(s), nil)

	_, err := svc.Record(ctx, core.Transaction{Amount: 5, Date: "03/01/2025"}, false)
	if !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("got %v, want ErrInvalidDate", err)
	}
}
