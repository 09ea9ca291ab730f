package sqlrow

import (
	"database/sql"
	"database/sql/driver"
	"time"
)

// Nullable maps a nil pointer to SQL NULL and any other value through c.
func Nullable[T any](c Codec[T]) Codec[*T] {
	return Codec[*T]{
		Bind: func(v *T) (driver.Value, error) {
			if v == nil {
				return nil, nil
			}
			return c.Bind(*v)
		},
		Extract: func(src any) (*T, error) {
			if src == nil {
				return nil, nil
			}
			v, err := c.Extract(src)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		Affinity: c.Affinity,
	}
}

// Codecs for the database/sql Null types.
var (
	NullString  = nullCodec(Text, func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }, func(n sql.NullString) (string, bool) { return n.String, n.Valid })
	NullInt64   = nullCodec(Int64, func(i int64) sql.NullInt64 { return sql.NullInt64{Int64: i, Valid: true} }, func(n sql.NullInt64) (int64, bool) { return n.Int64, n.Valid })
	NullInt32   = nullCodec(Int32, func(i int32) sql.NullInt32 { return sql.NullInt32{Int32: i, Valid: true} }, func(n sql.NullInt32) (int32, bool) { return n.Int32, n.Valid })
	NullFloat64 = nullCodec(Float64, func(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }, func(n sql.NullFloat64) (float64, bool) { return n.Float64, n.Valid })
	NullBool    = nullCodec(Bool, func(b bool) sql.NullBool { return sql.NullBool{Bool: b, Valid: true} }, func(n sql.NullBool) (bool, bool) { return n.Bool, n.Valid })
	NullTime    = nullCodec(Time, func(t time.Time) sql.NullTime { return sql.NullTime{Time: t, Valid: true} }, func(n sql.NullTime) (time.Time, bool) { return n.Time, n.Valid })
)

func nullCodec[N, T any](c Codec[T], wrap func(T) N, unwrap func(N) (T, bool)) Codec[N] {
	return Codec[N]{
		Bind: func(n N) (driver.Value, error) {
			v, ok := unwrap(n)
			if !ok {
				return nil, nil
			}
			return c.Bind(v)
		},
		Extract: func(src any) (N, error) {
			var zero N
			if src == nil {
				return zero, nil
			}
			v, err := c.Extract(src)
			if err != nil {
				return zero, err
			}
			return wrap(v), nil
		},
		Affinity: c.Affinity,
	}
}
