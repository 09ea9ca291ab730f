package sqlrow

import (
	"database/sql/driver"
	"reflect"
)

// Field describes how one member of T is stored in one column.
// Build it with Col.
type Field[T any] struct {
	member   string
	column   string
	goType   reflect.Type
	affinity Affinity
	invalid  string

	bind    func(*T) (driver.Value, error)
	extract func(*T, any) error
}

// Col describes member of T, stored in column, read and written through
// accessor and converted with codec. An empty column name defaults to member.
// A codec without an affinity takes the one DefaultRegistry holds for F.
func Col[T, F any](member, column string, accessor func(*T) *F, codec Codec[F]) Field[T] {
	if column == "" {
		column = member
	}

	f := Field[T]{
		member:   member,
		column:   column,
		goType:   reflect.TypeFor[F](),
		affinity: codec.Affinity,
	}
	if f.affinity == AffinityAny {
		f.affinity = DefaultRegistry().Affinity(f.goType)
	}

	switch {
	case accessor == nil:
		f.invalid = "nil accessor"
		return f
	case !codec.valid():
		f.invalid = "codec without bind or extract function"
		return f
	}

	f.bind = func(v *T) (driver.Value, error) {
		return codec.Bind(*accessor(v))
	}
	f.extract = func(v *T, src any) error {
		x, err := codec.Extract(src)
		if err != nil {
			return err
		}
		*accessor(v) = x
		return nil
	}

	return f
}

// Member returns the Go field name.
func (f Field[T]) Member() string { return f.member }

// Column returns the column name.
func (f Field[T]) Column() string { return f.column }

// GoType returns the Go type of the member.
func (f Field[T]) GoType() reflect.Type { return f.goType }

// Affinity returns the storage affinity of the member's codec.
func (f Field[T]) Affinity() Affinity { return f.affinity }
