// This file maintains the task to category junction. All writes are
// tx-scoped and never commit; atomicity belongs to the calling repository.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// attachCategories inserts one junction row per category id. All ids are
// verified with a single batched existence check first; if any is missing the
// whole call fails before any row is written.
func attachCategories(ctx context.Context, tx *sql.Tx, taskID string, categoryIDs []string) error {
	ids := dedupe(categoryIDs)
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	checkArgs := make([]any, len(ids))
	for i, id := range ids {
		checkArgs[i] = id
	}
	var found int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE id IN ("+placeholders+")",
		checkArgs...,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("checking category existence: %w", err)
	}
	if found != len(ids) {
		return fmt.Errorf("one or more categories not found: %w", types.ErrPreconditionFailed)
	}

	values := strings.TrimSuffix(strings.Repeat("(?, ?),", len(ids)), ",")
	insertArgs := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		insertArgs = append(insertArgs, taskID, id)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO task_categories (task_id, category_id) VALUES "+values,
		insertArgs...,
	)
	if err != nil {
		return fmt.Errorf("attaching categories: %w", err)
	}
	return nil
}

// replaceCategories swaps the full association set for a task. An empty set
// clears all existing pairs and adds none.
func replaceCategories(ctx context.Context, tx *sql.Tx, taskID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM task_categories WHERE task_id = ?", taskID,
	); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	return attachCategories(ctx, tx, taskID, categoryIDs)
}

// categoryInUse reports whether any task still references the category.
func categoryInUse(ctx context.Context, q querier, categoryID string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM task_categories WHERE category_id = ?", categoryID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting category associations: %w", err)
	}
	return count > 0, nil
}

// dedupe removes duplicate ids while preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
