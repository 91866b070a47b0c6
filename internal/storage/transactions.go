package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grana/internal/core"
)

// InsertTransaction writes the transaction row and, for account-origin
// transactions, applies the signed amount to the account balance. Both
// writes happen inside one SQL transaction: either the row exists and the
// balance moved, or neither.
func (r *Repository) InsertTransaction(ctx context.Context, t *core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := checkOrigin(ctx, tx, t.UserID, t.Origin); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions
			(user_id, category_id, description, amount_cents, kind, date,
			 origin_kind, origin_id, is_recurring, recurring_source_id, attachment_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		t.UserID, nullableID(t.CategoryID), t.Description, t.Amount.Cents,
		string(t.Kind), t.Date.String(), string(t.Origin.Kind), t.Origin.ID,
		t.Recurring, nullableID(t.RecurringSourceID), nullableString(t.AttachmentRef),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if t.Origin.Kind == core.OriginAccount {
		if err := applyDelta(ctx, tx, t.Origin.ID, t.SignedCents()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteTransaction removes the row and reverses its balance effect, again
// as one atomic unit. The deleted transaction is returned so callers can
// publish the reversal.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) (*core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	t, err := scanTransaction(tx.QueryRowContext(ctx,
		selectTransaction+` WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}

	if t.Origin.Kind == core.OriginAccount {
		if err := applyDelta(ctx, tx, t.Origin.ID, -t.SignedCents()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// UpdateTransaction overwrites the mutable fields only: description,
// category, date and the recurring flag. Amount, kind and origin are frozen
// at creation because changing them would require reversal logic the ledger
// deliberately does not have.
func (r *Repository) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, category_id = ?, date = ?, is_recurring = ?
		WHERE id = ? AND user_id = ?`,
		t.Description, nullableID(t.CategoryID), t.Date.String(), t.Recurring,
		t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id int64) (*core.Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx,
		selectTransaction+` WHERE id = ? AND user_id = ?`, id, userID))
}

// ListTransactions returns the user's transactions dated within the month,
// newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, year, month int) ([]core.Transaction, error) {
	first, last := core.MonthRange(year, month)
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`,
		userID, first.String(), last.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// MonthlyTotals sums the month's amounts partitioned by kind. No rows means
// zero totals, not an error.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, year, month int) (core.MonthlySummary, error) {
	first, last := core.MonthRange(year, month)
	var s core.MonthlySummary
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND date BETWEEN ? AND ?`,
		userID, first.String(), last.String(),
	).Scan(&s.Income.Cents, &s.Expense.Cents)
	if err != nil {
		return s, fmt.Errorf("monthly totals: %w", err)
	}
	return s, nil
}

// CategorySums groups the month's expense transactions by category,
// descending by total. Uncategorized expenses are not part of the breakdown.
func (r *Repository) CategorySums(ctx context.Context, userID int64, year, month int) ([]core.CategorySummary, error) {
	first, last := core.MonthRange(year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.icon, SUM(t.amount_cents), COUNT(t.id)
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = ? AND t.date BETWEEN ? AND ? AND t.kind = 'expense'
		GROUP BY c.id
		ORDER BY SUM(t.amount_cents) DESC`,
		userID, first.String(), last.String())
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var sums []core.CategorySummary
	for rows.Next() {
		var s core.CategorySummary
		if err := rows.Scan(&s.CategoryID, &s.Name, &s.Icon, &s.Total.Cents, &s.Count); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// SumCardWindow totals a card's transactions inside a statement window.
func (r *Repository) SumCardWindow(ctx context.Context, userID, cardID int64, w core.StatementWindow) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = ? AND origin_kind = 'credit_card' AND origin_id = ?
		  AND date BETWEEN ? AND ?`,
		userID, cardID, w.Start.String(), w.End.String(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum card window: %w", err)
	}
	return total, nil
}

// ListCardWindow returns a card's transactions inside a statement window,
// newest first.
func (r *Repository) ListCardWindow(ctx context.Context, userID, cardID int64, w core.StatementWindow) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE user_id = ? AND origin_kind = 'credit_card'
		AND origin_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`,
		userID, cardID, w.Start.String(), w.End.String())
	if err != nil {
		return nil, fmt.Errorf("list card window: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// ListRecurringDue finds recurring transactions from the previous month that
// have no materialized copy in the current month yet. Copies keep a pointer
// to the root transaction, so a chain of materializations still counts as
// one recurring series.
func (r *Repository) ListRecurringDue(ctx context.Context, prevFirst, prevLast, curFirst, curLast core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` AS t
		WHERE t.is_recurring = 1 AND t.date BETWEEN ? AND ?
		  AND NOT EXISTS (
			SELECT 1 FROM transactions c
			WHERE COALESCE(c.recurring_source_id, c.id) = COALESCE(t.recurring_source_id, t.id)
			  AND c.date BETWEEN ? AND ?
		  )
		ORDER BY t.id`,
		prevFirst.String(), prevLast.String(), curFirst.String(), curLast.String())
	if err != nil {
		return nil, fmt.Errorf("list recurring due: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

const selectTransaction = `
	SELECT id, user_id, category_id, description, amount_cents, kind, date,
	       origin_kind, origin_id, is_recurring, recurring_source_id,
	       attachment_ref, created_at
	FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t          core.Transaction
		categoryID sql.NullInt64
		sourceID   sql.NullInt64
		attachment sql.NullString
		date       string
	)
	err := row.Scan(&t.ID, &t.UserID, &categoryID, &t.Description, &t.Amount.Cents,
		&t.Kind, &date, &t.Origin.Kind, &t.Origin.ID, &t.Recurring,
		&sourceID, &attachment, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.CategoryID = categoryID.Int64
	t.RecurringSourceID = sourceID.Int64
	t.AttachmentRef = attachment.String
	t.Date, err = core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("transaction %d has bad date %q", t.ID, date)
	}
	return &t, nil
}

// checkOrigin verifies the transaction's origin exists and belongs to the
// user before anything is written.
func checkOrigin(ctx context.Context, tx *sql.Tx, userID int64, o core.Origin) error {
	var table string
	switch o.Kind {
	case core.OriginAccount:
		table = "accounts"
	case core.OriginCard:
		table = "credit_cards"
	default:
		return core.ErrInvalidOrigin
	}

	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE id = ? AND user_id = ?`, o.ID, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", o.Kind, o.ID, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check origin: %w", err)
	}
	return nil
}

func applyDelta(ctx context.Context, tx *sql.Tx, accountID, deltaCents int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`,
		deltaCents, accountID)
	if err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}
	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
