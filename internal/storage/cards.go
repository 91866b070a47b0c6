package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grana/internal/core"
)

func (r *Repository) CreateCard(ctx context.Context, c *core.CreditCard) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO credit_cards (user_id, name, closing_day)
		VALUES (?, ?, ?)
		RETURNING id, created_at`,
		c.UserID, c.Name, c.ClosingDay,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (r *Repository) GetCard(ctx context.Context, userID, id int64) (*core.CreditCard, error) {
	c := &core.CreditCard{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, closing_day, created_at
		FROM credit_cards WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.ClosingDay, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCards(ctx context.Context, userID int64) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, closing_day, created_at
		FROM credit_cards WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []core.CreditCard
	for rows.Next() {
		var c core.CreditCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.ClosingDay, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *Repository) UpdateCard(ctx context.Context, c *core.CreditCard) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_cards SET name = ?, closing_day = ?
		WHERE id = ? AND user_id = ?`,
		c.Name, c.ClosingDay, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %d: %w", c.ID, core.ErrNotFound)
	}
	return nil
}

// DeleteCard removes the card row only. Cards carry no stored balance, so
// deletion has no ledger effect.
func (r *Repository) DeleteCard(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM credit_cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %d: %w", id, core.ErrNotFound)
	}
	return nil
}
