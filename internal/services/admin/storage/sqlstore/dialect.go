package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Querier executes read queries. Both *sql.Tx and *sql.DB satisfy it; the
// stores pass a transaction so all five reconstruction queries share one
// snapshot.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Dialect selects the placeholder syntax of the backing engine.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// placeholders renders n bind placeholders starting at position start
// (1-based; only relevant for Postgres).
func (d Dialect) placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if d == Postgres {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(start + i))
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
