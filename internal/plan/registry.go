package plan

import (
	"go/types"
)

// basicCodecs maps basic kinds to the runtime codec variables.
var basicCodecs = map[types.BasicKind]*Codec{
	types.String:  {Kind: CodecStandard, Name: "Text", Affinity: "TEXT"},
	types.Int:     {Kind: CodecStandard, Name: "Int", Affinity: "INTEGER"},
	types.Int8:    {Kind: CodecStandard, Name: "Int8", Affinity: "INTEGER"},
	types.Int16:   {Kind: CodecStandard, Name: "Int16", Affinity: "INTEGER"},
	types.Int32:   {Kind: CodecStandard, Name: "Int32", Affinity: "INTEGER"},
	types.Int64:   {Kind: CodecStandard, Name: "Int64", Affinity: "INTEGER"},
	types.Uint:    {Kind: CodecStandard, Name: "Uint", Affinity: "INTEGER"},
	types.Uint8:   {Kind: CodecStandard, Name: "Uint8", Affinity: "INTEGER"},
	types.Uint16:  {Kind: CodecStandard, Name: "Uint16", Affinity: "INTEGER"},
	types.Uint32:  {Kind: CodecStandard, Name: "Uint32", Affinity: "INTEGER"},
	types.Uint64:  {Kind: CodecStandard, Name: "Uint64", Affinity: "INTEGER"},
	types.Float32: {Kind: CodecStandard, Name: "Float32", Affinity: "REAL"},
	types.Float64: {Kind: CodecStandard, Name: "Float64", Affinity: "REAL"},
	types.Bool:    {Kind: CodecStandard, Name: "Bool", Affinity: "INTEGER"},
}

// namedCodecs maps well-known external types to runtime codec variables.
var namedCodecs = map[string]*Codec{
	"time.Time":                {Kind: CodecStandard, Name: "Time", Affinity: "TEXT"},
	"database/sql.NullString":  {Kind: CodecStandard, Name: "NullString", Affinity: "TEXT"},
	"database/sql.NullInt64":   {Kind: CodecStandard, Name: "NullInt64", Affinity: "INTEGER"},
	"database/sql.NullInt32":   {Kind: CodecStandard, Name: "NullInt32", Affinity: "INTEGER"},
	"database/sql.NullFloat64": {Kind: CodecStandard, Name: "NullFloat64", Affinity: "REAL"},
	"database/sql.NullBool":    {Kind: CodecStandard, Name: "NullBool", Affinity: "INTEGER"},
	"database/sql.NullTime":    {Kind: CodecStandard, Name: "NullTime", Affinity: "TEXT"},
}

var blobCodec = &Codec{Kind: CodecStandard, Name: "Blob", Affinity: "BLOB"}

// codecRegistry chooses default codecs for Go types. Enums declared in the
// generated package take precedence over the named-type helpers.
type codecRegistry struct {
	enums map[*types.TypeName]string // enum type -> generated var
}

// lookup returns the default codec for t, or false when t has no standard
// representation and needs a codec override.
func (r *codecRegistry) lookup(t types.Type) (*Codec, bool) {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		c, ok := basicCodecs[tt.Kind()]
		return c, ok

	case *types.Slice:
		if isByte(tt.Elem()) {
			return blobCodec, true
		}
		return nil, false

	case *types.Pointer:
		if _, ptr := types.Unalias(tt.Elem()).(*types.Pointer); ptr {
			return nil, false
		}
		inner, ok := r.lookup(tt.Elem())
		if !ok {
			return nil, false
		}
		return &Codec{Kind: CodecNullable, Inner: inner, Affinity: inner.Affinity}, true

	case *types.Named:
		return r.lookupNamed(tt)
	}

	return nil, false
}

func (r *codecRegistry) lookupNamed(t *types.Named) (*Codec, bool) {
	obj := t.Obj()

	if name, ok := r.enums[obj]; ok {
		return &Codec{Kind: CodecEnum, Name: name, Affinity: "INTEGER"}, true
	}

	if obj.Pkg() != nil {
		if c, ok := namedCodecs[obj.Pkg().Path()+"."+obj.Name()]; ok {
			return c, true
		}
	}

	if t.TypeArgs().Len() > 0 {
		return nil, false
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsString != 0:
			return &Codec{Kind: CodecNamed, Name: "TextOf", Type: t, Affinity: "TEXT"}, true
		case info&types.IsInteger != 0:
			return &Codec{Kind: CodecNamed, Name: "IntOf", Type: t, Affinity: "INTEGER"}, true
		case info&types.IsFloat != 0:
			return &Codec{Kind: CodecNamed, Name: "FloatOf", Type: t, Affinity: "REAL"}, true
		case info&types.IsBoolean != 0:
			return &Codec{Kind: CodecNamed, Name: "BoolOf", Type: t, Affinity: "INTEGER"}, true
		}

	case *types.Slice:
		if isByte(u.Elem()) {
			return &Codec{Kind: CodecNamed, Name: "BlobOf", Type: t, Affinity: "BLOB"}, true
		}
	}

	return nil, false
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Byte
}
