package sqlrow

import (
	"context"
	"database/sql"
	"fmt"
)

// Args binds every field of v in column order.
func (t *Table[T]) Args(v *T) ([]any, error) {
	if v == nil {
		return nil, fmt.Errorf("sqlrow: insert into %s: nil value", t.name)
	}

	args := make([]any, len(t.fields))
	for i, f := range t.fields {
		x, err := f.bind(v)
		if err != nil {
			return nil, &BindError{Column: f.column, Err: err}
		}
		args[i] = x
	}

	return args, nil
}

// NamedArgs binds every field of v as sql.Named(column, value). The result
// matches NamedStatementText, not StatementText.
func (t *Table[T]) NamedArgs(v *T) ([]any, error) {
	args, err := t.Args(v)
	if err != nil {
		return nil, err
	}

	for i, a := range args {
		args[i] = sql.Named(t.fields[i].column, a)
	}

	return args, nil
}

// Insert writes v as a new row. The statement is prepared and executed by
// conn in one call. Driver errors are returned unchanged.
func (t *Table[T]) Insert(ctx context.Context, conn Execer, v *T) (sql.Result, error) {
	return t.InsertOr(ctx, conn, v, OnConflictDefault)
}

// InsertOr is Insert with a conflict resolution clause.
func (t *Table[T]) InsertOr(ctx context.Context, conn Execer, v *T, c OnConflict) (sql.Result, error) {
	if !c.valid() {
		return nil, definitionError("%s: unknown conflict strategy %v", t.name, c)
	}

	args, err := t.Args(v)
	if err != nil {
		return nil, err
	}

	return conn.ExecContext(ctx, t.insert[c], args...)
}

// InsertWith executes stmt, which must have been prepared from StatementText
// or StatementTextOr, with the fields of v. The statement stays owned by the
// caller.
func (t *Table[T]) InsertWith(ctx context.Context, stmt StmtExecer, v *T) (sql.Result, error) {
	args, err := t.Args(v)
	if err != nil {
		return nil, err
	}

	return stmt.ExecContext(ctx, args...)
}

// InsertCached inserts v through a statement prepared once per cache.
func (t *Table[T]) InsertCached(ctx context.Context, cache *StmtCache, v *T) (sql.Result, error) {
	args, err := t.Args(v)
	if err != nil {
		return nil, err
	}

	stmt, err := cache.Prepare(ctx, t.StatementText())
	if err != nil {
		return nil, err
	}

	return stmt.ExecContext(ctx, args...)
}
