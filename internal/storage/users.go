package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"grana/internal/core"
)

// WalletName is the name of the protected account every user gets at
// registration.
const WalletName = "Carteira"

// defaultCategories is the fixed set seeded for every new user.
var defaultCategories = []core.Category{
	{Name: "Alimentação", Icon: "fast-food", Kind: core.Expense},
	{Name: "Transporte", Icon: "bus", Kind: core.Expense},
	{Name: "Lazer", Icon: "game-controller", Kind: core.Expense},
	{Name: "Mercado", Icon: "cart", Kind: core.Expense},
	{Name: "Saúde", Icon: "medkit", Kind: core.Expense},
	{Name: "Salário", Icon: "cash", Kind: core.Income},
	{Name: "Extra", Icon: "add-circle", Kind: core.Income},
}

// CreateUser inserts the user plus their protected wallet and the default
// category set in one transaction: a registered user always has a wallet.
func (r *Repository) CreateUser(ctx context.Context, u *core.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, monthly_income_cents)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.MonthlyIncomeCents,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: email already registered", core.ErrInvalidInput)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (user_id, name, balance_cents, is_protected)
		VALUES (?, ?, 0, 1)`,
		u.ID, WalletName,
	)
	if err != nil {
		return fmt.Errorf("seed wallet: %w", err)
	}

	for _, c := range defaultCategories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (user_id, name, icon, kind)
			VALUES (?, ?, ?, ?)`,
			u.ID, c.Name, c.Icon, string(c.Kind),
		)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	u := &core.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, monthly_income_cents, created_at
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.MonthlyIncomeCents, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	u := &core.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, monthly_income_cents, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.MonthlyIncomeCents, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// UpdateUser overwrites the mutable profile fields.
func (r *Repository) UpdateUser(ctx context.Context, u *core.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, password_hash = ?, monthly_income_cents = ?
		WHERE id = ?`,
		u.Name, u.PasswordHash, u.MonthlyIncomeCents, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", u.ID, core.ErrNotFound)
	}
	return nil
}
