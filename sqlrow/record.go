package sqlrow

import (
	"context"
	"reflect"
	"strings"
)

// Record is an extraction-only mapping for the result shape of one query.
// It has no table and no insert path.
type Record[T any] struct {
	fields  []Field[T]
	columns []string
}

// NewRecord builds a record mapping. Field columns name the result columns
// the fields are read from.
func NewRecord[T any](fields ...Field[T]) (*Record[T], error) {
	columns, err := checkFields(reflect.TypeFor[T](), fields)
	if err != nil {
		return nil, err
	}

	return &Record[T]{fields: append([]Field[T](nil), fields...), columns: columns}, nil
}

// MustRecord is NewRecord that panics on an invalid definition.
func MustRecord[T any](fields ...Field[T]) *Record[T] {
	r, err := NewRecord(fields...)
	if err != nil {
		panic(err)
	}

	return r
}

// Columns returns the expected result column names in field order.
func (r *Record[T]) Columns() []string { return append([]string(nil), r.columns...) }

// FromRow rebuilds a T positionally: column i feeds field i.
func (r *Record[T]) FromRow(row Row) (T, error) {
	return fromRow(r.fields, row)
}

// Scan rebuilds a T from the current row of rows, locating each field's
// column by name.
func (r *Record[T]) Scan(rows ColScanner) (T, error) {
	var zero T

	names, err := rows.Columns()
	if err != nil {
		return zero, err
	}

	positions, err := r.resolve(names)
	if err != nil {
		return zero, err
	}

	return r.scanAt(rows, positions)
}

// Query runs query and rebuilds every returned row. Column names are
// resolved once for the result set.
func (r *Record[T]) Query(ctx context.Context, q Querier, query string, args ...any) ([]T, error) {
	var (
		out       []T
		positions []int
	)

	err := eachRow(ctx, q, query, args, func(rows ColScanner) error {
		if positions == nil {
			names, err := rows.Columns()
			if err != nil {
				return err
			}
			if positions, err = r.resolve(names); err != nil {
				return err
			}
		}

		v, err := r.scanAt(rows, positions)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})

	return out, err
}

func (r *Record[T]) scanAt(rows ColScanner, positions []int) (T, error) {
	row, err := ScanRow(rows)
	if err != nil {
		var zero T
		return zero, err
	}

	ordered := make(Row, len(positions))
	for i, p := range positions {
		if ordered[i], err = row.Get(p); err != nil {
			var zero T
			return zero, err
		}
	}

	return fromRow(r.fields, ordered)
}

// resolve maps each field to its position in names.
func (r *Record[T]) resolve(names []string) ([]int, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		key := normalizeColumn(n)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	positions := make([]int, len(r.fields))
	for i, f := range r.fields {
		p, ok := index[normalizeColumn(f.column)]
		if !ok {
			return nil, &ShortRowError{Want: len(r.fields), Got: len(names), Column: f.column}
		}
		positions[i] = p
	}

	return positions, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		switch {
		case name[0] == '"' && name[len(name)-1] == '"',
			name[0] == '`' && name[len(name)-1] == '`',
			name[0] == '[' && name[len(name)-1] == ']':
			name = name[1 : len(name)-1]
		}
	}

	return strings.ToLower(name)
}
