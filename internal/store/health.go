// This file implements the store-side health checks backing the HTTP
// probes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// TableCounts holds per-relation row counts for the detailed health report.
type TableCounts struct {
	Users          int `json:"users_count"`
	Tasks          int `json:"tasks_count"`
	Categories     int `json:"categories_count"`
	TaskCategories int `json:"task_categories_count"`
}

// Ping verifies store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", types.ErrStoreUnavailable)
	}
	return nil
}

// CoreTablesFound counts how many of the required relations exist. Readiness
// requires all of them.
func (s *Store) CoreTablesFound(ctx context.Context) (int, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(coreTables)), ",")
	args := make([]any, len(coreTables))
	for i, name := range coreTables {
		args[i] = name
	}
	var found int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ("+placeholders+")",
		args...,
	).Scan(&found)
	if err != nil {
		return 0, fmt.Errorf("checking core tables: %w", types.ErrStoreUnavailable)
	}
	return found, nil
}

// Counts returns row counts for all four relations.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	var tc TableCounts
	err := s.db.QueryRowContext(ctx, `SELECT
        (SELECT COUNT(*) FROM users),
        (SELECT COUNT(*) FROM tasks),
        (SELECT COUNT(*) FROM categories),
        (SELECT COUNT(*) FROM task_categories)`,
	).Scan(&tc.Users, &tc.Tasks, &tc.Categories, &tc.TaskCategories)
	if err != nil {
		return TableCounts{}, fmt.Errorf("counting relations: %w", types.ErrStoreUnavailable)
	}
	return tc, nil
}

// Version reports the SQLite library version.
func (s *Store) Version(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return "", fmt.Errorf("reading store version: %w", types.ErrStoreUnavailable)
	}
	return version, nil
}

// PoolStats exposes the connection-pool state breakdown.
func (s *Store) PoolStats() sql.DBStats {
	return s.db.Stats()
}

// Uptime reports how long the store has been open.
func (s *Store) Uptime() time.Duration {
	return time.Since(s.openedAt)
}

// DBPath reports the configured database location.
func (s *Store) DBPath() string {
	return s.cfg.DBPath
}
