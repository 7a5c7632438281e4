// Shared fixtures for the store tests: each test opens a fresh SQLite file
// in a temp dir so tests stay independent and parallelizable.
package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.Config{
		Environment: types.EnvDevelopment,
		Port:        8080,
		DBPath:      filepath.Join(t.TempDir(), "taskboard.db"),
		MaxConns:    5,
		ConnTimeout: 2 * time.Second,
	}
	s, err := Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateUser(t *testing.T, s *Store, username string) *types.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), types.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func mustCreateCategory(t *testing.T, s *Store, name string) *types.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), types.NewCategory{Name: name})
	require.NoError(t, err)
	return c
}

func mustCreateTask(t *testing.T, s *Store, userID, title string, categoryIDs ...string) *types.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), types.NewTask{
		Title:       title,
		Status:      types.TaskStatusPending,
		Priority:    types.TaskPriorityMedium,
		UserID:      userID,
		CategoryIDs: categoryIDs,
	})
	require.NoError(t, err)
	return task
}

func TestOpenInitializesSchema(t *testing.T) {
	s := newTestStore(t)

	found, err := s.CoreTablesFound(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, found)
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{}, zap.NewNop().Sugar())
	require.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{
		Environment: types.EnvDevelopment,
		Port:        8080,
		DBPath:      filepath.Join(dir, "taskboard.db"),
		MaxConns:    5,
		ConnTimeout: 2 * time.Second,
	}

	s1, err := Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	mustCreateUser(t, s1, "alice")
	require.NoError(t, s1.Close())

	// Reopening the same file must not disturb existing data.
	s2, err := Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer s2.Close()

	users, _, err := s2.ListUsers(context.Background(), "", types.Page{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0].Username)
}
