package sqlrow

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"time"
)

// Affinity is the SQLite type affinity a codec stores its values with.
type Affinity int

const (
	// AffinityAny matches every declared column type.
	AffinityAny Affinity = iota
	AffinityText
	AffinityInteger
	AffinityReal
	AffinityBlob
	AffinityNumeric
)

func (a Affinity) String() string {
	switch a {
	case AffinityText:
		return "TEXT"
	case AffinityInteger:
		return "INTEGER"
	case AffinityReal:
		return "REAL"
	case AffinityBlob:
		return "BLOB"
	case AffinityNumeric:
		return "NUMERIC"
	default:
		return "ANY"
	}
}

// Codec is a bidirectional conversion between a Go value and the value stored
// in one SQLite column.
//
// Bind produces a driver.Value (nil, int64, float64, bool, []byte, string or
// time.Time). Extract receives whatever the driver returned for the column and
// must reject representations it cannot decode.
type Codec[T any] struct {
	Bind     func(T) (driver.Value, error)
	Extract  func(src any) (T, error)
	Affinity Affinity
}

// Custom builds a codec from a bind and an extract function.
func Custom[T any](bind func(T) (driver.Value, error), extract func(any) (T, error)) Codec[T] {
	return Codec[T]{Bind: bind, Extract: extract}
}

// WithBind returns a copy of c whose bind side is replaced.
func (c Codec[T]) WithBind(bind func(T) (driver.Value, error)) Codec[T] {
	c.Bind = bind
	return c
}

// WithExtract returns a copy of c whose extract side is replaced.
func (c Codec[T]) WithExtract(extract func(any) (T, error)) Codec[T] {
	c.Extract = extract
	return c
}

// WithAffinity returns a copy of c stored with affinity a.
func (c Codec[T]) WithAffinity(a Affinity) Codec[T] {
	c.Affinity = a
	return c
}

// ParseAffinity is the inverse of Affinity.String. Unknown names yield
// AffinityAny.
func ParseAffinity(s string) Affinity {
	switch s {
	case "TEXT":
		return AffinityText
	case "INTEGER":
		return AffinityInteger
	case "REAL":
		return AffinityReal
	case "BLOB":
		return AffinityBlob
	case "NUMERIC":
		return AffinityNumeric
	default:
		return AffinityAny
	}
}

func (c Codec[T]) valid() bool {
	return c.Bind != nil && c.Extract != nil
}

// Standard codecs.
var (
	Text = Codec[string]{
		Bind:     func(v string) (driver.Value, error) { return v, nil },
		Extract:  asString,
		Affinity: AffinityText,
	}

	Int64 = Codec[int64]{
		Bind:     func(v int64) (driver.Value, error) { return v, nil },
		Extract:  asInt64,
		Affinity: AffinityInteger,
	}

	Int = Codec[int]{
		Bind: func(v int) (driver.Value, error) { return int64(v), nil },
		Extract: func(src any) (int, error) {
			n, err := asIntRange(src, math.MinInt, math.MaxInt, "int")
			return int(n), err
		},
		Affinity: AffinityInteger,
	}

	Int32 = intCodec[int32](math.MinInt32, math.MaxInt32, "int32")
	Int16 = intCodec[int16](math.MinInt16, math.MaxInt16, "int16")
	Int8  = intCodec[int8](math.MinInt8, math.MaxInt8, "int8")

	Uint32 = intCodec[uint32](0, math.MaxUint32, "uint32")
	Uint16 = intCodec[uint16](0, math.MaxUint16, "uint16")
	Uint8  = intCodec[uint8](0, math.MaxUint8, "uint8")

	Uint = Codec[uint]{
		Bind: func(v uint) (driver.Value, error) {
			if uint64(v) > math.MaxInt64 {
				return nil, errUintOverflow
			}
			return int64(v), nil
		},
		Extract: func(src any) (uint, error) {
			n, err := asUint64(src)
			return uint(n), err
		},
		Affinity: AffinityInteger,
	}

	Uint64 = Codec[uint64]{
		Bind: func(v uint64) (driver.Value, error) {
			if v > math.MaxInt64 {
				return nil, errUintOverflow
			}
			return int64(v), nil
		},
		Extract:  asUint64,
		Affinity: AffinityInteger,
	}

	Float64 = Codec[float64]{
		Bind:     func(v float64) (driver.Value, error) { return v, nil },
		Extract:  asFloat64,
		Affinity: AffinityReal,
	}

	Float32 = Codec[float32]{
		Bind: func(v float32) (driver.Value, error) { return float64(v), nil },
		Extract: func(src any) (float32, error) {
			f, err := asFloat64(src)
			return float32(f), err
		},
		Affinity: AffinityReal,
	}

	// Bool stores 1 for true and 0 for false.
	Bool = Codec[bool]{
		Bind: func(v bool) (driver.Value, error) {
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		},
		Extract:  asBool,
		Affinity: AffinityInteger,
	}

	// Blob copies the bytes on extract; the driver may reuse its buffer.
	Blob = Codec[[]byte]{
		Bind:     func(v []byte) (driver.Value, error) { return v, nil },
		Extract:  asBytes,
		Affinity: AffinityBlob,
	}

	// Time stores RFC 3339 text with nanoseconds in UTC.
	Time = Codec[time.Time]{
		Bind: func(v time.Time) (driver.Value, error) {
			return v.UTC().Format(time.RFC3339Nano), nil
		},
		Extract:  asTime,
		Affinity: AffinityText,
	}
)

var errUintOverflow = errors.New("unsigned value overflows int64")

type smallInt interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

func intCodec[T smallInt](lo, hi int64, name string) Codec[T] {
	return Codec[T]{
		Bind: func(v T) (driver.Value, error) { return int64(v), nil },
		Extract: func(src any) (T, error) {
			n, err := asIntRange(src, lo, hi, name)
			return T(n), err
		},
		Affinity: AffinityInteger,
	}
}

// Convert adapts the codec of a base type B to another type N through a pair
// of conversion functions.
func Convert[N, B any](base Codec[B], to func(B) N, from func(N) B) Codec[N] {
	return Codec[N]{
		Bind: func(v N) (driver.Value, error) { return base.Bind(from(v)) },
		Extract: func(src any) (N, error) {
			v, err := base.Extract(src)
			if err != nil {
				var zero N
				return zero, err
			}
			return to(v), nil
		},
		Affinity: base.Affinity,
	}
}

// TextOf is Text for a named string type, e.g. `type Path string`.
func TextOf[N ~string]() Codec[N] {
	return Convert(Text, func(v string) N { return N(v) }, func(v N) string { return string(v) })
}

// BlobOf is Blob for a named byte slice type.
func BlobOf[N ~[]byte]() Codec[N] {
	return Convert(Blob, func(v []byte) N { return N(v) }, func(v N) []byte { return []byte(v) })
}

// BoolOf is Bool for a named bool type.
func BoolOf[N ~bool]() Codec[N] {
	return Convert(Bool, func(v bool) N { return N(v) }, func(v N) bool { return bool(v) })
}

// FloatOf is Float64 for a named floating point type.
func FloatOf[N ~float32 | ~float64]() Codec[N] {
	return Convert(Float64, func(v float64) N { return N(v) }, func(v N) float64 { return float64(v) })
}

type anyInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntOf is the integer codec for a named integer type. Values that do not fit
// the target width are rejected on extract; unsigned values above
// math.MaxInt64 are rejected on bind.
func IntOf[N anyInt]() Codec[N] {
	return Codec[N]{
		Bind: func(v N) (driver.Value, error) {
			n := int64(v)
			if n < 0 && v > 0 {
				return nil, errUintOverflow
			}
			return n, nil
		},
		Extract: func(src any) (N, error) {
			n, err := asInt64(src)
			if err != nil {
				return 0, err
			}
			if int64(N(n)) != n || (n < 0 && N(n) > 0) {
				return 0, &rangeError{value: n, target: fmt.Sprintf("%T", N(0))}
			}
			return N(n), nil
		},
		Affinity: AffinityInteger,
	}
}
