package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestBuilderZeroCriteria(t *testing.T) {
	var b Builder
	main, count := b.Build(
		"SELECT id FROM tasks t",
		"ORDER BY t.created_at DESC",
		"SELECT COUNT(*) FROM tasks t",
		types.Page{Number: 1, Size: 10},
	)

	assert.Equal(t, "SELECT id FROM tasks t ORDER BY t.created_at DESC LIMIT ? OFFSET ?", main.SQL)
	assert.Equal(t, []any{10, 0}, main.Args)
	assert.Equal(t, "SELECT COUNT(*) FROM tasks t", count.SQL)
	assert.Empty(t, count.Args)
}

func TestBuilderCriteriaOrdering(t *testing.T) {
	var b Builder
	b.Equals("t.status", "pending")
	b.Equals("t.user_id", "u1")
	b.Contains("report", "t.title", "t.description")
	b.ExistsIn("task_categories tc2", "tc2.task_id = t.id", "tc2.category_id", "c1")

	main, count := b.Build(
		"SELECT id FROM tasks t",
		"",
		"SELECT COUNT(*) FROM tasks t",
		types.Page{Number: 3, Size: 5},
	)

	wantWhere := " WHERE t.status = ? AND t.user_id = ?" +
		" AND (t.title LIKE ? OR t.description LIKE ?)" +
		" AND EXISTS (SELECT 1 FROM task_categories tc2 WHERE tc2.task_id = t.id AND tc2.category_id = ?)"
	assert.Equal(t, "SELECT id FROM tasks t"+wantWhere+" LIMIT ? OFFSET ?", main.SQL)
	assert.Equal(t, "SELECT COUNT(*) FROM tasks t"+wantWhere, count.SQL)

	// Parameters follow criterion call order, substring criteria repeat the
	// pattern once per column, and pagination comes last.
	assert.Equal(t, []any{"pending", "u1", "%report%", "%report%", "c1", 5, 10}, main.Args)
}

func TestBuilderCountArgsArePrefixOfMainArgs(t *testing.T) {
	var b Builder
	b.Equals("t.priority", "high")
	b.Contains("x", "t.title")

	main, count := b.Build("SELECT id FROM tasks t", "", "SELECT COUNT(*) FROM tasks t", types.Page{})

	require.Len(t, main.Args, len(count.Args)+2)
	assert.Equal(t, count.Args, main.Args[:len(count.Args)])
}

func TestBuilderContainsNoColumns(t *testing.T) {
	var b Builder
	b.Contains("anything")

	main, _ := b.Build("SELECT 1", "", "SELECT COUNT(*)", types.Page{})
	assert.Equal(t, "SELECT 1 LIMIT ? OFFSET ?", main.SQL)
}

func TestBuilderPaginationNormalized(t *testing.T) {
	var b Builder
	main, _ := b.Build("SELECT 1", "", "SELECT COUNT(*)", types.Page{Number: -1, Size: 0})
	assert.Equal(t, []any{10, 0}, main.Args)
}
