package sqlrow

import (
	"database/sql/driver"
	"fmt"
)

// EnumCodec is a bijection between the variants of an enumeration and the
// integers 0..n-1, in declaration order.
type EnumCodec[E comparable] struct {
	variants []E
	index    map[E]int
	// value is set for codecs that store the variant's own integer.
	value func(E) int64
}

// NewEnum builds an ordinal enum codec. Variants must be distinct.
func NewEnum[E comparable](variants ...E) (EnumCodec[E], error) {
	if len(variants) == 0 {
		return EnumCodec[E]{}, definitionError("enum %T has no variants", *new(E))
	}

	index := make(map[E]int, len(variants))
	for i, v := range variants {
		if _, dup := index[v]; dup {
			return EnumCodec[E]{}, definitionError("enum %T: variant %v declared twice", v, v)
		}
		index[v] = i
	}

	return EnumCodec[E]{variants: append([]E(nil), variants...), index: index}, nil
}

// Enum is NewEnum that panics on an invalid declaration. It is meant for
// package-level variables.
func Enum[E comparable](variants ...E) EnumCodec[E] {
	e, err := NewEnum(variants...)
	if err != nil {
		panic(err)
	}

	return e
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32
}

// EnumByValue builds an enum codec that stores each variant's own integer
// value instead of its position. Reordering the declaration does not change
// stored data. Extract accepts only declared values.
func EnumByValue[E integer](variants ...E) EnumCodec[E] {
	e := Enum(variants...)
	e.value = func(v E) int64 { return int64(v) }
	return e
}

// Variants returns the declared variants in order.
func (e EnumCodec[E]) Variants() []E { return append([]E(nil), e.variants...) }

// Len returns the number of variants.
func (e EnumCodec[E]) Len() int { return len(e.variants) }

// Index returns the declaration position of v.
func (e EnumCodec[E]) Index(v E) (int, bool) {
	i, ok := e.index[v]
	return i, ok
}

// Encode returns the stored integer of v.
func (e EnumCodec[E]) Encode(v E) (int64, error) {
	i, ok := e.index[v]
	if !ok {
		return 0, fmt.Errorf("%w: %v is not a declared variant", ErrEnumRange, v)
	}

	if e.value != nil {
		return e.value(v), nil
	}

	return int64(i), nil
}

// Decode returns the variant stored as n.
func (e EnumCodec[E]) Decode(n int64) (E, error) {
	var zero E

	if e.value != nil {
		for _, v := range e.variants {
			if e.value(v) == n {
				return v, nil
			}
		}
		return zero, fmt.Errorf("%w: %d is not a declared value of %T", ErrEnumRange, n, zero)
	}

	if n < 0 || n >= int64(len(e.variants)) {
		return zero, fmt.Errorf("%w: %d not in [0, %d) for %T", ErrEnumRange, n, len(e.variants), zero)
	}

	return e.variants[n], nil
}

// Codec returns the column codec of the enumeration.
func (e EnumCodec[E]) Codec() Codec[E] {
	return Codec[E]{
		Bind: func(v E) (driver.Value, error) { return e.Encode(v) },
		Extract: func(src any) (E, error) {
			n, err := asInt64(src)
			if err != nil {
				var zero E
				return zero, err
			}
			return e.Decode(n)
		},
		Affinity: AffinityInteger,
	}
}
