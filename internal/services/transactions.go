// Package services composes the ledgers, the envelope engine and the
// outbound integrations into the operations the HTTP layer and the workers
// call.
package services

import (
	"context"
	"log/slog"
	"time"

	"buste/internal/amqp"
	"buste/internal/core"
	"buste/internal/envelope"
	"buste/internal/ledger"
)

// TransactionPublisher fans a committed transaction out to the sync queue.
type TransactionPublisher interface {
	PublishTransactionSync(ctx context.Context, msg *amqp.TransactionSyncMessage) error
}

type TransactionService struct {
	txs       *ledger.TransactionLedger
	engine    *envelope.Engine
	publisher TransactionPublisher
	now       func() time.Time
}

// NewTransactionService wires the write path. publisher may be nil when the
// queue is not configured; writes then stay local.
func NewTransactionService(txs *ledger.TransactionLedger, engine *envelope.Engine, publisher TransactionPublisher) *TransactionService {
	return &TransactionService{
		txs:       txs,
		engine:    engine,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record runs the overspend policy, appends the transaction and publishes a
// sync message. Policy rejections surface as the core sentinels; a publish
// failure is logged and never fails the committed write.
func (s *TransactionService) Record(ctx context.Context, t core.Transaction, confirmed bool) (string, error) {
	if err := s.engine.CheckSpend(ctx, t, confirmed, s.now()); err != nil {
		return "", err
	}

	id, err := s.txs.Append(ctx, t)
	if err != nil {
		return "", err
	}

	s.publish(ctx, amqp.NewTransactionSyncMessage(id))
	return id, nil
}

// Delete removes a transaction and tells the mirror to drop its row.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.txs.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewTransactionDeleteMessage(id))
	return nil
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.txs.List(ctx)
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.TransactionSyncMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction sync message",
			"error", err,
			"transaction_id", msg.ID)
	}
}
