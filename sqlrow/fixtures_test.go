package sqlrow

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID      int64
	Name    string
	Balance float64
	Active  bool
	Avatar  []byte
	Created time.Time
	Nick    *string
}

var accountFields = []Field[account]{
	Col("ID", "id", func(v *account) *int64 { return &v.ID }, Int64),
	Col("Name", "name", func(v *account) *string { return &v.Name }, Text),
	Col("Balance", "balance", func(v *account) *float64 { return &v.Balance }, Float64),
	Col("Active", "active", func(v *account) *bool { return &v.Active }, Bool),
	Col("Avatar", "avatar", func(v *account) *[]byte { return &v.Avatar }, Blob),
	Col("Created", "created_at", func(v *account) *time.Time { return &v.Created }, Time),
	Col("Nick", "nick", func(v *account) **string { return &v.Nick }, Nullable(Text)),
}

var accountTable = MustTable("accounts", accountFields)

const accountSchema = `
CREATE TABLE accounts (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	balance    REAL NOT NULL,
	active     INTEGER NOT NULL,
	avatar     BLOB,
	created_at TEXT NOT NULL,
	nick       TEXT
);`

func strPtr(s string) *string { return &s }

// openSQLite returns an in-memory database with ddl applied. The pool is
// limited to one connection so every query sees the same database.
func openSQLite(t *testing.T, ddl string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if ddl != "" {
		_, err = db.ExecContext(context.Background(), ddl)
		require.NoError(t, err)
	}

	return db
}
