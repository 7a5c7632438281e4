package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// timeFormat is the storage format for timestamps. RFC3339 UTC keeps string
// comparison in SQL consistent with chronological order.
const timeFormat = time.RFC3339

// Store owns the pooled SQLite handle and exposes the entity repositories.
// It is safe for concurrent use; each request borrows a pooled connection.
type Store struct {
	db       *sql.DB
	cfg      types.Config
	log      *zap.SugaredLogger
	openedAt time.Time
}

// querier is satisfied by both *sql.DB and *sql.Tx so joined reads can run
// inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open validates the configuration, opens the pooled database handle and
// initializes the schema. The pool is bounded by cfg.MaxConns; a connection
// that cannot be acquired within cfg.ConnTimeout fails via busy_timeout.
func Open(cfg types.Config, log *zap.SugaredLogger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		cfg.DBPath, cfg.ConnTimeout.Milliseconds(),
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", types.ErrStoreUnavailable)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxIdleTime(30 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", types.ErrStoreUnavailable)
	}

	s := &Store{db: db, cfg: cfg, log: log, openedAt: time.Now()}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	log.Infow("store opened", "db_path", cfg.DBPath, "max_conns", cfg.MaxConns)
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables and indexes that do not exist yet.
func (s *Store) initSchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction. The deferred rollback guarantees the
// connection returns clean to the pool on every exit path, including early
// returns; rollback after a successful commit is a no-op.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", types.ErrStoreUnavailable)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", types.ErrStoreUnavailable)
	}
	return nil
}

// now returns the current UTC time truncated to the storage precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// fmtTime serializes a timestamp for storage.
func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime deserializes a stored timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}
