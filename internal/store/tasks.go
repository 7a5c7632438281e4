// This file implements the tasks repository: joined reads, transactional
// writes that orchestrate the category junction, aggregate stats and the
// per-user and per-category listings.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// categorySep separates aggregated category names. The unit-separator
// control character keeps names containing commas intact on the way back
// out.
const categorySep = "\x1f"

// taskSelectBase is the joined projection used by every task read: owner
// username plus the aggregated category names.
const taskSelectBase = `SELECT t.id, t.title, t.description, t.status, t.priority, t.user_id, t.due_date,
       t.created_at, t.updated_at, u.username,
       GROUP_CONCAT(c.name, char(31)) AS categories
FROM tasks t
JOIN users u ON t.user_id = u.id
LEFT JOIN task_categories tc ON t.id = tc.task_id
LEFT JOIN categories c ON tc.category_id = c.id`

const taskGroupBy = `GROUP BY t.id, t.title, t.description, t.status, t.priority, t.user_id, t.due_date,
         t.created_at, t.updated_at, u.username`

const taskOrderBy = `ORDER BY t.created_at DESC, t.id DESC`

// ListTasks returns one page of tasks matching the filter, newest first.
// Every provided criterion narrows the result; the category criterion is an
// existence subquery so the count query needs no join.
func (s *Store) ListTasks(ctx context.Context, f types.TaskFilter, page types.Page) ([]types.Task, types.Pagination, error) {
	var b Builder
	if f.Status != "" {
		b.Equals("t.status", f.Status)
	}
	if f.Priority != "" {
		b.Equals("t.priority", f.Priority)
	}
	if f.UserID != "" {
		b.Equals("t.user_id", f.UserID)
	}
	if f.CategoryID != "" {
		b.ExistsIn("task_categories tc2", "tc2.task_id = t.id", "tc2.category_id", f.CategoryID)
	}
	if f.Search != "" {
		b.Contains(f.Search, "t.title", "t.description")
	}
	return s.listTasks(ctx, &b, page)
}

// ListUserTasks returns one page of a user's tasks, optionally narrowed by
// status. A missing user is reported as not found.
func (s *Store) ListUserTasks(ctx context.Context, userID, status string, page types.Page) ([]types.Task, types.Pagination, error) {
	if err := s.exists(ctx, "users", userID, "user"); err != nil {
		return nil, types.Pagination{}, err
	}
	var b Builder
	b.Equals("t.user_id", userID)
	if status != "" {
		b.Equals("t.status", status)
	}
	return s.listTasks(ctx, &b, page)
}

// ListCategoryTasks returns one page of tasks associated with a category,
// optionally narrowed by status. A missing category is reported as not found.
func (s *Store) ListCategoryTasks(ctx context.Context, categoryID, status string, page types.Page) ([]types.Task, types.Pagination, error) {
	if err := s.exists(ctx, "categories", categoryID, "category"); err != nil {
		return nil, types.Pagination{}, err
	}
	var b Builder
	b.ExistsIn("task_categories tc2", "tc2.task_id = t.id", "tc2.category_id", categoryID)
	if status != "" {
		b.Equals("t.status", status)
	}
	return s.listTasks(ctx, &b, page)
}

func (s *Store) listTasks(ctx context.Context, b *Builder, page types.Page) ([]types.Task, types.Pagination, error) {
	main, count := b.Build(
		taskSelectBase,
		taskGroupBy+" "+taskOrderBy,
		"SELECT COUNT(DISTINCT t.id) FROM tasks t",
		page,
	)

	var total int
	if err := s.db.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("counting tasks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, main.SQL, main.Args...)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	tasks := []types.Task{}
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, types.Pagination{}, fmt.Errorf("hydrating task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, types.NewPagination(page, total), nil
}

// GetTask retrieves a task by id in its joined representation.
func (s *Store) GetTask(ctx context.Context, id string) (*types.Task, error) {
	return getTask(ctx, s.db, id)
}

// CreateTask inserts a task and attaches its categories in one transaction:
// owner existence check, core insert, batched attach, then the joined
// re-read. Any failure rolls back all prior writes.
func (s *Store) CreateTask(ctx context.Context, nt types.NewTask) (*types.Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating UUID v7: %w", err)
	}
	ts := now()

	var task *types.Task
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", nt.UserID).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user not found: %w", types.ErrPreconditionFailed)
		}
		if err != nil {
			return fmt.Errorf("checking user existence: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (id, title, description, status, priority, user_id, due_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), nt.Title, nt.Description, nt.Status, nt.Priority, nt.UserID, nt.DueDate,
			fmtTime(ts), fmtTime(ts),
		)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		if len(nt.CategoryIDs) > 0 {
			if err := attachCategories(ctx, tx, id.String(), nt.CategoryIDs); err != nil {
				return err
			}
		}

		task, err = getTask(ctx, tx, id.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update and, when CategoryIDs is present,
// replaces the full association set, all in one transaction ending with the
// joined re-read.
func (s *Store) UpdateTask(ctx context.Context, id string, upd types.TaskUpdate) (*types.Task, error) {
	var task *types.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task not found: %w", types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking task existence: %w", err)
		}

		sets := []string{}
		args := []any{}
		if upd.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *upd.Title)
		}
		if upd.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *upd.Description)
		}
		if upd.Status != nil {
			sets = append(sets, "status = ?")
			args = append(args, *upd.Status)
		}
		if upd.Priority != nil {
			sets = append(sets, "priority = ?")
			args = append(args, *upd.Priority)
		}
		if upd.DueDateSet {
			sets = append(sets, "due_date = ?")
			args = append(args, upd.DueDate)
		}
		sets = append(sets, "updated_at = ?")
		args = append(args, fmtTime(now()), id)

		_, err = tx.ExecContext(ctx,
			"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		if upd.CategoryIDs != nil {
			if err := replaceCategories(ctx, tx, id, *upd.CategoryIDs); err != nil {
				return err
			}
		}

		task, err = getTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task; junction rows cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task not found: %w", types.ErrNotFound)
	}
	return nil
}

// TaskStats aggregates task counts by status and priority plus the number of
// tasks created within the last seven days, optionally scoped to one user.
func (s *Store) TaskStats(ctx context.Context, userID string) (*types.TaskStats, error) {
	userCond := ""
	args := []any{}
	if userID != "" {
		userCond = "user_id = ?"
		args = append(args, userID)
	}

	where := func(conds ...string) string {
		parts := conds[:0:0]
		for _, c := range conds {
			if c != "" {
				parts = append(parts, c)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return " WHERE " + strings.Join(parts, " AND ")
	}

	stats := &types.TaskStats{ByStatus: []types.StatusCount{}, ByPriority: []types.PriorityCount{}}

	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tasks"+where(userCond)+
			" GROUP BY status ORDER BY COUNT(*) DESC, status ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc types.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning status aggregate: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status aggregate: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT priority, COUNT(*) FROM tasks"+where(userCond)+
			" GROUP BY priority ORDER BY COUNT(*) DESC, priority ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating by priority: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc types.PriorityCount
		if err := rows.Scan(&pc.Priority, &pc.Count); err != nil {
			return nil, fmt.Errorf("scanning priority aggregate: %w", err)
		}
		stats.ByPriority = append(stats.ByPriority, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating priority aggregate: %w", err)
	}

	cutoff := fmtTime(now().AddDate(0, 0, -7))
	recentArgs := append(append([]any{}, args...), cutoff)
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks"+where(userCond, "created_at >= ?"),
		recentArgs...,
	).Scan(&stats.CreatedLast7Days)
	if err != nil {
		return nil, fmt.Errorf("counting recent tasks: %w", err)
	}
	return stats, nil
}

// exists verifies a row exists in the named relation, returning a wrapped
// ErrNotFound with the entity label otherwise.
func (s *Store) exists(ctx context.Context, table, id, label string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s not found: %w", label, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", label, err)
	}
	return nil
}

// getTask runs the joined single-task read on a db or tx handle.
func getTask(ctx context.Context, q querier, id string) (*types.Task, error) {
	rows, err := q.QueryContext(ctx,
		taskSelectBase+" WHERE t.id = ? "+taskGroupBy, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting task %s: %w", id, err)
		}
		return nil, fmt.Errorf("task not found: %w", types.ErrNotFound)
	}
	t, err := hydrateTask(rows)
	if err != nil {
		return nil, fmt.Errorf("hydrating task: %w", err)
	}
	return t, nil
}

// hydrateTask converts one joined row into a *types.Task. The aggregated
// category column is NULL for tasks without categories and a
// separator-joined name list otherwise.
func hydrateTask(rows *sql.Rows) (*types.Task, error) {
	var t types.Task
	var description, dueDate, categories sql.NullString
	var createdAt, updatedAt string
	err := rows.Scan(&t.ID, &t.Title, &description, &t.Status, &t.Priority, &t.UserID,
		&dueDate, &createdAt, &updatedAt, &t.UserUsername, &categories)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	t.Categories = []string{}
	if categories.Valid && categories.String != "" {
		t.Categories = strings.Split(categories.String, categorySep)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing task created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing task updated_at: %w", err)
	}
	return &t, nil
}
