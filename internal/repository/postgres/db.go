package postgres

import (
	"context"
	"database/sql"
)

// Querier is the query surface the repositories run on. Both *sql.DB and
// *sql.Tx satisfy it, so the same repository code serves standalone calls
// and the transactional lifecycle transitions in Store.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
