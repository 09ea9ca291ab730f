package plan

import (
	"fmt"
	"go/types"
	"strings"

	"tablemap/internal/analyze"
	"tablemap/internal/common"
	"tablemap/internal/diagnostic"
)

// Plan is the final output of the resolution pipeline.
// It contains everything needed for code generation of one package.
type Plan struct {
	// Package is the package the code is generated into.
	Package *analyze.PackageInfo
	// TypeGraph holds all analyzed types and packages.
	TypeGraph *analyze.TypeGraph

	Models  []ResolvedModel
	Records []ResolvedRecord
	Enums   []ResolvedEnum

	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Files returns the source files that declare at least one model, record or
// enum, in first-seen order.
func (p *Plan) Files() []string {
	var files []string
	for _, m := range p.Models {
		files = append(files, m.Type.File)
	}
	for _, r := range p.Records {
		files = append(files, r.Type.File)
	}
	for _, e := range p.Enums {
		files = append(files, e.Type.File)
	}

	return common.Dedupe(files)
}

// ResolvedModel is a struct mapped to a table.
type ResolvedModel struct {
	Type *analyze.TypeInfo
	// Var is the name of the generated table descriptor, e.g. UserTable.
	Var    string
	Table  string
	Check  string
	Fields []ResolvedField
}

// ResolvedRecord is a struct built from ad-hoc query rows.
type ResolvedRecord struct {
	Type *analyze.TypeInfo
	// Var is the name of the generated record descriptor, e.g. PersonAgeRecord.
	Var    string
	Fields []ResolvedField
}

// ResolvedEnum is an enumeration with its variants in storage order.
type ResolvedEnum struct {
	Type *analyze.TypeInfo
	// Var is the name of the generated enum codec, e.g. GenderEnum.
	Var      string
	Variants []string
	Stable   bool
}

// ResolvedField is one mapped struct field.
type ResolvedField struct {
	Member string
	Column string
	GoType types.Type
	Codec  *Codec
	// Source specifies where the column name and codec came from.
	Source FieldSource
}

// FieldSource indicates where a field's mapping settings originated.
type FieldSource int

const (
	// FieldSourceDefault - derived from the field name and type.
	FieldSourceDefault FieldSource = iota
	// FieldSourceTag - from the sql struct tag.
	FieldSourceTag
	// FieldSourceYAML - from the declaration file.
	FieldSourceYAML
)

// String returns a human-readable representation of the field source.
func (s FieldSource) String() string {
	switch s {
	case FieldSourceDefault:
		return "default"
	case FieldSourceTag:
		return "tag"
	case FieldSourceYAML:
		return "yaml"
	default:
		return common.UnknownStr
	}
}

// CodecKind is the shape of a codec expression.
type CodecKind int

const (
	// CodecStandard is a runtime codec variable such as sqlrow.Text.
	CodecStandard CodecKind = iota
	// CodecNamed adapts a standard codec to a named type: sqlrow.TextOf[Path]().
	CodecNamed
	// CodecEnum is the codec of a generated enum: GenderEnum.Codec().
	CodecEnum
	// CodecNullable wraps another codec for a pointer field.
	CodecNullable
	// CodecVar is a codec variable named by a codec= override.
	CodecVar
	// CodecCustom is built from bind= and extract= overrides.
	CodecCustom
)

// String returns a human-readable representation of the codec kind.
func (k CodecKind) String() string {
	switch k {
	case CodecStandard:
		return "standard"
	case CodecNamed:
		return "named"
	case CodecEnum:
		return "enum"
	case CodecNullable:
		return "nullable"
	case CodecVar:
		return "var"
	case CodecCustom:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// Codec describes the codec expression of a field.
type Codec struct {
	Kind CodecKind
	// Name is the runtime variable or helper (Text, TextOf), the enum or
	// codec variable name.
	Name string
	// Type is the named type a CodecNamed helper is instantiated with.
	Type types.Type
	// Inner is the wrapped codec of CodecNullable, and the optional base
	// codec of CodecCustom.
	Inner *Codec
	// Bind and Extract name the override functions of CodecCustom.
	Bind    string
	Extract string
	// Affinity is the storage affinity when known statically, else "".
	Affinity string
}

// Expr renders the codec as a Go expression. rt is the name the runtime
// package is imported as.
func (c *Codec) Expr(s *analyze.TypeStringer, rt string) string {
	switch c.Kind {
	case CodecStandard:
		return rt + "." + c.Name
	case CodecNamed:
		return fmt.Sprintf("%s.%s[%s]()", rt, c.Name, s.TypeString(c.Type))
	case CodecEnum:
		return c.Name + ".Codec()"
	case CodecNullable:
		return fmt.Sprintf("%s.Nullable(%s)", rt, c.Inner.Expr(s, rt))
	case CodecVar:
		return c.Name
	case CodecCustom:
		if c.Inner == nil {
			return fmt.Sprintf("%s.Custom(%s, %s)", rt, c.Bind, c.Extract)
		}

		var b strings.Builder
		b.WriteString(c.Inner.Expr(s, rt))
		if c.Bind != "" {
			b.WriteString(".WithBind(" + c.Bind + ")")
		}
		if c.Extract != "" {
			b.WriteString(".WithExtract(" + c.Extract + ")")
		}
		return b.String()
	default:
		return "nil"
	}
}
