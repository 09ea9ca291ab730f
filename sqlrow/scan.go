package sqlrow

import (
	"context"
)

// FromRow rebuilds a T from row, reading column i into field i. Columns past
// the last field are ignored.
func (t *Table[T]) FromRow(row Row) (T, error) {
	return fromRow(t.fields, row)
}

func fromRow[T any](fields []Field[T], row Row) (T, error) {
	var v T

	if len(row) < len(fields) {
		return v, &ShortRowError{Want: len(fields), Got: len(row)}
	}

	for i, f := range fields {
		if err := f.extract(&v, row[i]); err != nil {
			var zero T
			return zero, &DecodeError{Column: f.column, Position: i, Value: row[i], Err: err}
		}
	}

	return v, nil
}

// Scan rebuilds a T from the current row of rows.
func (t *Table[T]) Scan(rows ColScanner) (T, error) {
	row, err := ScanRow(rows)
	if err != nil {
		var zero T
		return zero, err
	}

	return t.FromRow(row)
}

// Query runs query and rebuilds every returned row. The select list must name
// the table's columns in order, as SELECT * does for a conforming table.
func (t *Table[T]) Query(ctx context.Context, q Querier, query string, args ...any) ([]T, error) {
	var out []T

	err := t.Each(ctx, q, query, func(v T) error {
		out = append(out, v)
		return nil
	}, args...)

	return out, err
}

// Each runs query and calls fn for every rebuilt row, stopping at the first
// error.
func (t *Table[T]) Each(ctx context.Context, q Querier, query string, fn func(T) error, args ...any) error {
	return eachRow(ctx, q, query, args, func(rows ColScanner) error {
		v, err := t.Scan(rows)
		if err != nil {
			return err
		}
		return fn(v)
	})
}

func eachRow(ctx context.Context, q Querier, query string, args []any, fn func(ColScanner) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
