package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grana/internal/core"
)

func (r *Repository) CreateAccount(ctx context.Context, a *core.Account) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, name, balance_cents, is_protected)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`,
		a.UserID, a.Name, a.Balance.Cents, a.Protected,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, userID, id int64) (*core.Account, error) {
	a := &core.Account{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance_cents, is_protected, created_at
		FROM accounts WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents, &a.Protected, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, balance_cents, is_protected, created_at
		FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents, &a.Protected, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// RenameAccount changes an account's name. The protected wallet is
// immutable; the check runs in the same statement as the write so there is
// no window for a rename to slip through.
func (r *Repository) RenameAccount(ctx context.Context, userID, id int64, name string) error {
	a, err := r.GetAccount(ctx, userID, id)
	if err != nil {
		return err
	}
	if a.Protected {
		return fmt.Errorf("account %d: %w", id, core.ErrProtectedAccount)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE accounts SET name = ? WHERE id = ? AND user_id = ? AND is_protected = 0`,
		name, id, userID)
	if err != nil {
		return fmt.Errorf("rename account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account row. Protected accounts are never
// deletable, and an account with live transactions cannot go away either:
// that would orphan ledger history.
func (r *Repository) DeleteAccount(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var protected bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_protected FROM accounts WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&protected)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if protected {
		return fmt.Errorf("account %d: %w", id, core.ErrProtectedAccount)
	}

	var refs int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE origin_kind = 'account' AND origin_id = ? AND user_id = ?`, id, userID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("account %d has %d transactions: %w", id, refs, core.ErrAccountInUse)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return tx.Commit()
}

// TotalBalanceCents sums every account balance of the user, in signed cents.
func (r *Repository) TotalBalanceCents(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance_cents), 0) FROM accounts WHERE user_id = ?`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}
