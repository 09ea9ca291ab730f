package plan

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"

	"tablemap/internal/analyze"
)

func TestCodec_Expr(t *testing.T) {
	pkg := types.NewPackage("example.com/users", "users")
	path := types.NewNamed(types.NewTypeName(0, pkg, "Path", nil), types.Typ[types.String], nil)

	s := analyze.NewTypeStringer("example.com/other")
	text := &Codec{Kind: CodecStandard, Name: "Text"}

	tests := []struct {
		codec *Codec
		want  string
	}{
		{text, "rt.Text"},
		{&Codec{Kind: CodecNamed, Name: "TextOf", Type: path}, "rt.TextOf[users.Path]()"},
		{&Codec{Kind: CodecEnum, Name: "GenderEnum"}, "GenderEnum.Codec()"},
		{&Codec{Kind: CodecNullable, Inner: text}, "rt.Nullable(rt.Text)"},
		{&Codec{Kind: CodecVar, Name: "PathCodec"}, "PathCodec"},
		{&Codec{Kind: CodecCustom, Bind: "B", Extract: "E"}, "rt.Custom(B, E)"},
		{&Codec{Kind: CodecCustom, Inner: text, Bind: "B"}, "rt.Text.WithBind(B)"},
		{&Codec{Kind: CodecCustom, Inner: text, Extract: "E"}, "rt.Text.WithExtract(E)"},
	}

	for _, tt := range tests {
		t.Run(tt.codec.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.codec.Expr(s, "rt"))
		})
	}

	assert.Equal(t, []string{"example.com/users"}, s.Imports())
}

func TestCodecRegistry_Lookup(t *testing.T) {
	r := codecRegistry{enums: map[*types.TypeName]string{}}

	c, ok := r.lookup(types.Typ[types.Int32])
	assert.True(t, ok)
	assert.Equal(t, "Int32", c.Name)

	c, ok = r.lookup(types.NewSlice(types.Typ[types.Byte]))
	assert.True(t, ok)
	assert.Equal(t, "Blob", c.Name)

	_, ok = r.lookup(types.NewSlice(types.Typ[types.String]))
	assert.False(t, ok)

	_, ok = r.lookup(types.NewPointer(types.NewPointer(types.Typ[types.Int])))
	assert.False(t, ok)

	_, ok = r.lookup(types.NewMap(types.Typ[types.String], types.Typ[types.Int]))
	assert.False(t, ok)

	pkg := types.NewPackage("example.com/users", "users")
	gender := types.NewNamed(types.NewTypeName(0, pkg, "Gender", nil), types.Typ[types.Int], nil)

	c, ok = r.lookup(gender)
	assert.True(t, ok)
	assert.Equal(t, "IntOf", c.Name)

	r.enums[gender.Obj()] = "GenderEnum"
	c, ok = r.lookup(types.NewPointer(gender))
	assert.True(t, ok)
	assert.Equal(t, CodecNullable, c.Kind)
	assert.Equal(t, CodecEnum, c.Inner.Kind)
}

func TestFieldSource_String(t *testing.T) {
	assert.Equal(t, "default", FieldSourceDefault.String())
	assert.Equal(t, "tag", FieldSourceTag.String())
	assert.Equal(t, "yaml", FieldSourceYAML.String())
	assert.Equal(t, "unknown", FieldSource(42).String())
}
