package worker

import (
	"context"
	"fmt"
	"log/slog"

	"grana/internal/amqp"
	"grana/internal/storage"
)

// AuditWorker turns published ledger events into audit log rows. The log is
// append-only: deletions show up as their own event next to the creation
// they reverse, so the balance history stays reconstructable.
type AuditWorker struct {
	storage *storage.Repository
}

func NewAuditWorker(storage *storage.Repository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleEvent records one ledger event. Returning an error requeues the
// event, so only persistent storage failures should bubble up.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	switch event.Event {
	case amqp.EventTransactionCreated, amqp.EventTransactionDeleted:
	default:
		slog.WarnContext(ctx, "Skipping unknown ledger event", "event", event.Event)
		return nil
	}

	record := &storage.AuditRecord{
		Event:         event.Event,
		TransactionID: event.TransactionID,
		UserID:        event.UserID,
		AccountID:     event.AccountID,
		DeltaCents:    event.DeltaCents,
	}
	if err := w.storage.InsertAuditRecord(ctx, record); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	slog.InfoContext(ctx, "Recorded ledger event",
		"event", event.Event,
		"transaction_id", event.TransactionID,
		"user_id", event.UserID,
		"delta_cents", event.DeltaCents)

	return nil
}

// Run consumes ledger events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeLedgerEvents(ctx, func(event *amqp.LedgerEvent) error {
		return w.HandleEvent(ctx, event)
	})
}
