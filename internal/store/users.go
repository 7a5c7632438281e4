// This file implements the users repository.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

// ListUsers returns one page of users, optionally filtered by a substring
// search over username and email, newest first.
func (s *Store) ListUsers(ctx context.Context, search string, page types.Page) ([]types.User, types.Pagination, error) {
	var b Builder
	if search != "" {
		b.Contains(search, "username", "email")
	}
	main, count := b.Build(
		"SELECT "+userColumns+" FROM users",
		"ORDER BY created_at DESC, id DESC",
		"SELECT COUNT(*) FROM users",
		page,
	)

	var total int
	if err := s.db.QueryRowContext(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("counting users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, main.SQL, main.Args...)
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("fetching users: %w", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		u, err := hydrateUser(rows)
		if err != nil {
			return nil, types.Pagination{}, fmt.Errorf("hydrating user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("iterating users: %w", err)
	}
	return users, types.NewPagination(page, total), nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*types.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)

	var u types.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	if err := scanUserTimes(&u, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Duplicate usernames or emails surface as
// types.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, nu types.NewUser) (*types.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating UUID v7: %w", err)
	}
	ts := now()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), nu.Username, nu.Email, nu.PasswordHash, fmtTime(ts), fmtTime(ts),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email already exists: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &types.User{
		ID:           id.String(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// UpdateUser applies the provided fields only. At least one field is
// guaranteed present by upstream validation.
func (s *Store) UpdateUser(ctx context.Context, id string, upd types.UserUpdate) (*types.User, error) {
	sets := []string{}
	args := []any{}
	if upd.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *upd.Username)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, fmtTime(now()), id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email already exists: %w", types.ErrConflict)
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes a user unconditionally. Tasks owned by the user are not
// guarded against; see the repository tests for the documented orphaning
// behavior.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	return nil
}

// hydrateUser converts a row from sql.Rows into a *types.User.
func hydrateUser(rows *sql.Rows) (*types.User, error) {
	var u types.User
	var createdAt, updatedAt string
	if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := scanUserTimes(&u, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUserTimes(u *types.User, createdAt, updatedAt string) error {
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("parsing user created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return fmt.Errorf("parsing user updated_at: %w", err)
	}
	return nil
}
