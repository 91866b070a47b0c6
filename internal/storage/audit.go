package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditRecord is one row of the append-only ledger event log. The worker
// writes these from published ledger events.
type AuditRecord struct {
	ID            int64
	Event         string
	TransactionID int64
	UserID        int64
	AccountID     int64
	DeltaCents    int64
	RecordedAt    time.Time
}

func (r *Repository) InsertAuditRecord(ctx context.Context, a *AuditRecord) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO audit_log (event, transaction_id, user_id, account_id, delta_cents)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, recorded_at`,
		a.Event, a.TransactionID, a.UserID, nullableID(a.AccountID), a.DeltaCents,
	).Scan(&a.ID, &a.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (r *Repository) ListAuditRecords(ctx context.Context, transactionID int64) ([]AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event, transaction_id, user_id, COALESCE(account_id, 0),
		       delta_cents, recorded_at
		FROM audit_log WHERE transaction_id = ? ORDER BY id`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []AuditRecord
	for rows.Next() {
		var a AuditRecord
		if err := rows.Scan(&a.ID, &a.Event, &a.TransactionID, &a.UserID,
			&a.AccountID, &a.DeltaCents, &a.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
