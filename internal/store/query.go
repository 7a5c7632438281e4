package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Query is a parameterized SQL statement.
type Query struct {
	SQL  string
	Args []any
}

// Builder accumulates optional filter criteria in call order and produces a
// paginated main query plus a matching count query. Both share the same
// WHERE predicate, and WHERE parameters always precede the pagination
// parameters, so the count arguments are a prefix slice of the main
// arguments.
type Builder struct {
	conds []string
	args  []any
}

// Equals adds an exact-match condition on a (possibly qualified) column.
func (b *Builder) Equals(column string, value any) {
	b.conds = append(b.conds, column+" = ?")
	b.args = append(b.args, value)
}

// Contains adds a case-insensitive substring condition over one or more
// columns, OR-joined. The value is wrapped in LIKE wildcards once per column.
func (b *Builder) Contains(value string, columns ...string) {
	if len(columns) == 0 {
		return
	}
	pattern := "%" + value + "%"
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = column + " LIKE ?"
		b.args = append(b.args, pattern)
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
}

// ExistsIn adds an existence-subquery condition: rows for which a related
// relation holds a match. relation may carry an alias ("task_categories tc2"),
// match joins it to the outer row, and column = value filters it.
func (b *Builder) ExistsIn(relation, match, column string, value any) {
	b.conds = append(b.conds, fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s WHERE %s AND %s = ?)", relation, match, column))
	b.args = append(b.args, value)
}

// where renders the accumulated predicate, or an empty string when no
// criteria were added so that both queries stay valid.
func (b *Builder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Build assembles the main and count queries. mainTail carries GROUP BY and
// ORDER BY clauses; the count query omits them along with pagination.
func (b *Builder) Build(mainBase, mainTail, countBase string, page types.Page) (main, count Query) {
	where := b.where()
	p := page.Normalize()

	main.SQL = mainBase + where
	if mainTail != "" {
		main.SQL += " " + mainTail
	}
	main.SQL += " LIMIT ? OFFSET ?"
	main.Args = append(append([]any{}, b.args...), p.Size, p.Offset())

	count.SQL = countBase + where
	count.Args = b.args
	return main, count
}
