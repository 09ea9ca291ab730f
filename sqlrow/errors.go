package sqlrow

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrShortRow is matched by errors reporting a row that has fewer columns
	// than the descriptor has fields.
	ErrShortRow = errors.New("sqlrow: row has fewer columns than fields")

	// ErrDecode is matched by every extraction failure.
	ErrDecode = errors.New("sqlrow: cannot decode column")

	// ErrEnumRange is matched when a stored integer is not a valid enum variant.
	ErrEnumRange = errors.New("sqlrow: enum value out of range")

	// ErrBind is matched by every bind failure.
	ErrBind = errors.New("sqlrow: cannot bind field")

	// ErrDefinition is matched by descriptor construction failures.
	ErrDefinition = errors.New("sqlrow: invalid definition")

	// ErrTypeMismatch is matched when a value handed to the dynamic facade has
	// the wrong type.
	ErrTypeMismatch = errors.New("sqlrow: value type does not match model")
)

// ShortRowError reports a row that ended before the requested position.
type ShortRowError struct {
	Want int // number of columns required
	Got  int // number of columns present
	// Column is set when the missing column was looked up by name.
	Column string
}

func (e *ShortRowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("sqlrow: column %q not present in result (%d columns)", e.Column, e.Got)
	}

	return fmt.Sprintf("sqlrow: row has %d columns, need %d", e.Got, e.Want)
}

func (e *ShortRowError) Is(target error) bool { return target == ErrShortRow }

// DecodeError reports an extractor that rejected the stored representation.
type DecodeError struct {
	Column   string
	Position int
	Value    any
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sqlrow: decode column %q (position %d) from %T: %v",
		e.Column, e.Position, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// BindError reports a bind function that could not produce a storable value.
type BindError struct {
	Column string
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("sqlrow: bind column %q: %v", e.Column, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) Is(target error) bool { return target == ErrBind }

// TypeError reports a value of the wrong type handed to Model.InsertValue.
type TypeError struct {
	Table string
	Want  reflect.Type
	Got   reflect.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("sqlrow: table %s maps %s, got %v", e.Table, e.Want, e.Got)
}

func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }

// definitionError wraps ErrDefinition with a message.
func definitionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDefinition, fmt.Sprintf(format, args...))
}

// conversionError is returned by extract helpers; callers wrap it in a DecodeError.
func conversionError(src any, target string) error {
	return fmt.Errorf("cannot convert %T to %s", src, target)
}
