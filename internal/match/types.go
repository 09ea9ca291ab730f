package match

import "go/types"

// TypeRelation is how a type found in a codec signature relates to the type
// the field needs there.
type TypeRelation int

const (
	TypeUnrelated TypeRelation = iota
	// TypeConvertible types differ but convert with T(v); generated code
	// still needs the exact type.
	TypeConvertible
	// TypeAssignable covers interface satisfaction and unnamed/named pairs.
	TypeAssignable
	TypeIdentical
)

func (r TypeRelation) String() string {
	switch r {
	case TypeIdentical:
		return "identical"
	case TypeAssignable:
		return "assignable"
	case TypeConvertible:
		return "convertible"
	default:
		return "unrelated"
	}
}

// Relate classifies have against want.
func Relate(have, want types.Type) TypeRelation {
	switch {
	case types.Identical(have, want):
		return TypeIdentical
	case types.AssignableTo(have, want):
		return TypeAssignable
	case types.ConvertibleTo(have, want):
		return TypeConvertible
	default:
		return TypeUnrelated
	}
}
