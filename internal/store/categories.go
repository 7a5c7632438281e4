// This file implements the categories repository. Deletion is guarded: a
// category still referenced by any task cannot be removed, and the guard
// runs inside the delete transaction to avoid a check-then-act race with a
// concurrent attach.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const categorySelectBase = `SELECT c.id, c.name, c.color, c.created_at,
       COUNT(tc.task_id) AS task_count
FROM categories c
LEFT JOIN task_categories tc ON c.id = tc.category_id`

const categoryGroupBy = `GROUP BY c.id, c.name, c.color, c.created_at`

// ListCategories returns one page of categories with their task counts,
// ordered by name.
func (s *Store) ListCategories(ctx context.Context, page types.Page) ([]types.Category, types.Pagination, error) {
	var b Builder
	main, count := b.Build(
		categorySelectBase,
		categoryGroupBy+" ORDER BY c.name",
		"SELECT COUNT(*) FROM categories c",
		page,
	)

	var total int
	if err := s.db.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("counting categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, main.SQL, main.Args...)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("fetching categories: %w", err)
	}
	defer rows.Close()

	categories := []types.Category{}
	for rows.Next() {
		c, err := hydrateCategory(rows)
		if err != nil {
			return nil, types.Pagination{}, fmt.Errorf("hydrating category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, types.NewPagination(page, total), nil
}

// GetCategory retrieves a category by id with its task count.
func (s *Store) GetCategory(ctx context.Context, id string) (*types.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		categorySelectBase+" WHERE c.id = ? "+categoryGroupBy, id)
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting category %s: %w", id, err)
		}
		return nil, fmt.Errorf("category not found: %w", types.ErrNotFound)
	}
	c, err := hydrateCategory(rows)
	if err != nil {
		return nil, fmt.Errorf("hydrating category: %w", err)
	}
	return c, nil
}

// CreateCategory inserts a new category. A duplicate name surfaces as
// types.ErrConflict.
func (s *Store) CreateCategory(ctx context.Context, nc types.NewCategory) (*types.Category, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating UUID v7: %w", err)
	}
	ts := now()
	color := nc.Color
	if color == "" {
		color = types.DefaultCategoryColor
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		id.String(), nc.Name, color, fmtTime(ts),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category name already exists: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return &types.Category{ID: id.String(), Name: nc.Name, Color: color, CreatedAt: ts}, nil
}

// UpdateCategory applies the provided fields only.
func (s *Store) UpdateCategory(ctx context.Context, id string, upd types.CategoryUpdate) (*types.Category, error) {
	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *upd.Color)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category name already exists: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("updating category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("category not found: %w", types.ErrNotFound)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category unless any task still references it.
// The existence check, the association count and the delete share one
// transaction.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id = ?", id).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("category not found: %w", types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking category existence: %w", err)
		}

		inUse, err := categoryInUse(ctx, tx, id)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("category is being used by tasks: %w", types.ErrPreconditionFailed)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}
		return nil
	})
}

// hydrateCategory converts one joined row into a *types.Category.
func hydrateCategory(rows *sql.Rows) (*types.Category, error) {
	var c types.Category
	var createdAt string
	if err := rows.Scan(&c.ID, &c.Name, &c.Color, &createdAt, &c.TaskCount); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing category created_at: %w", err)
	}
	return &c, nil
}
