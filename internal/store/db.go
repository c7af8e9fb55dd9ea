package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql operations the task store needs.
// Both *sql.DB and *sql.Tx satisfy it, so store methods run the same
// whether or not a transaction is in play.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
