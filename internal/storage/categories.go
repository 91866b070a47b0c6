package storage

import (
	"context"
	"fmt"

	"grana/internal/core"
)

func (r *Repository) CreateCategory(ctx context.Context, c *core.Category) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (user_id, name, icon, kind)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		c.UserID, c.Name, c.Icon, string(c.Kind),
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// ListCategories returns the user's categories, optionally filtered by kind
// (empty kind means all).
func (r *Repository) ListCategories(ctx context.Context, userID int64, kind core.TxKind) ([]core.Category, error) {
	query := `SELECT id, user_id, name, icon, kind FROM categories WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}
