package sqlrow

import (
	"context"
	"database/sql"
)

// Execer is implemented by *sql.DB, *sql.Tx, *sql.Conn, *sqlx.DB, *sqlx.Tx,
// and any wrapper that can execute a statement that does not return rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StmtExecer is implemented by *sql.Stmt and *sqlx.Stmt. It executes an
// already prepared statement.
type StmtExecer interface {
	ExecContext(ctx context.Context, args ...any) (sql.Result, error)
}

// Querier is implemented by *sql.DB, *sql.Tx, *sql.Conn and their sqlx
// counterparts.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Preparer is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// ColScanner is the subset of *sql.Rows needed to read one row positionally.
// It matches sqlx.ColScanner, so *sqlx.Rows and *sqlx.Row also satisfy it.
type ColScanner interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Err() error
}
