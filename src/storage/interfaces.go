package storage

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// Execer is the write half of the store: conversation and message inserts
// and updates take it so they run against either *sql.DB or *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ExecQuerier combines Execer with sqlscan's query side for operations that
// both read and write.
type ExecQuerier interface {
	Execer
	sqlscan.Querier
}
