package sqlrow

import (
	"github.com/jmoiron/sqlx"
)

// Row is one result row: storable values in select-list order.
type Row []any

// Get returns the value at position i. It never panics; a position past the
// end of the row yields a *ShortRowError.
func (r Row) Get(i int) (any, error) {
	if i < 0 || i >= len(r) {
		return nil, &ShortRowError{Want: i + 1, Got: len(r)}
	}

	return r[i], nil
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r) }

// ScanRow reads the current row of rows into a Row without converting any
// value. The caller must have called rows.Next.
func ScanRow(rows ColScanner) (Row, error) {
	values, err := sqlx.SliceScan(rows)
	if err != nil {
		return nil, err
	}

	return Row(values), nil
}
