package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grana/internal/core"
	"grana/internal/storage"
)

// RecurringProcessor materializes recurring transactions once per month: a
// transaction marked recurring in one month gets a copy in the next, on the
// same day of the month (clamped to the month's length), posted through the
// normal ledger path so balances and events stay consistent.
type RecurringProcessor struct {
	storage *storage.Repository
	ledger  *LedgerService
}

func NewRecurringProcessor(storage *storage.Repository, ledger *LedgerService) *RecurringProcessor {
	return &RecurringProcessor{storage: storage, ledger: ledger}
}

// ProcessDue copies every recurring transaction from the previous month that
// has no copy in the current month yet. Failures on one transaction do not
// stop the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	year, month := now.Year(), int(now.Month())
	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevMonth = 12
		prevYear--
	}

	prevFirst, prevLast := core.MonthRange(prevYear, prevMonth)
	curFirst, curLast := core.MonthRange(year, month)

	due, err := p.storage.ListRecurringDue(ctx, prevFirst, prevLast, curFirst, curLast)
	if err != nil {
		return 0, fmt.Errorf("list recurring due: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"due", len(due),
		"month", fmt.Sprintf("%04d-%02d", year, month))

	processed := 0
	for _, src := range due {
		day := src.Date.Day()
		if last := curLast.Day(); day > last {
			day = last
		}

		rootID := src.RecurringSourceID
		if rootID == 0 {
			rootID = src.ID
		}

		copyTx := &core.Transaction{
			UserID:            src.UserID,
			CategoryID:        src.CategoryID,
			Description:       src.Description,
			Amount:            src.Amount,
			Kind:              src.Kind,
			Date:              core.NewDate(year, month, day),
			Origin:            src.Origin,
			Recurring:         true,
			RecurringSourceID: rootID,
		}

		if err := p.ledger.CreateTransaction(ctx, copyTx); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring transaction",
				"source_id", src.ID,
				"description", src.Description,
				"error", err)
			continue
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring transaction",
			"source_id", src.ID,
			"new_id", copyTx.ID,
			"description", src.Description,
			"amount_cents", src.Amount.Cents)
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"total_due", len(due))

	return processed, nil
}
