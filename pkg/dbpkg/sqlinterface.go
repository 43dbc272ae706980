// Package dbpkg provides db support functionality.
package dbpkg

import (
	"context"
	"database/sql"
)

// SQLInterface provides the db methods needed to perform transactions and queries.
// Both *sql.DB and *sql.Tx satisfy it, which lets tests run inside a rollback-only
// transaction.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
