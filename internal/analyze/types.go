package analyze

import (
	"go/constant"
	"go/types"
	"reflect"
	"strings"

	"tablemap/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "tablemap/examples/users"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindAlias             // named type wrapping another (e.g., type Gender int)
	TypeKindExternal          // named type from an unanalyzed package (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers and slices, the element type
	Fields     []FieldInfo // For structs, the exported fields
	GoType     types.Type  // The original go/types.Type

	// Set for named types declared in an analyzed package.
	File       string      // base name of the declaring source file
	Directives []Directive // //tablemap: comments on the declaration
	Consts     []ConstInfo // constants of this type, in source order
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Directive returns the first directive of the given kind.
func (t *TypeInfo) Directive(kind string) (Directive, bool) {
	for _, d := range t.Directives {
		if d.Kind == kind {
			return d, true
		}
	}

	return Directive{}, false
}

// Field returns the exported field called name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// SQLTag returns the value of the sql struct tag and whether it is present.
func (f *FieldInfo) SQLTag() (string, bool) {
	return f.Tag.Lookup("sql")
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// Directive is one `//tablemap:<kind> key=value ...` comment line attached
// to a type declaration.
type Directive struct {
	Kind string
	Args map[string]string
	// Order lists the argument keys as written.
	Order []string
	Line  int
}

// DirectivePrefix starts every directive comment.
const DirectivePrefix = "//tablemap:"

// ParseDirective parses a comment line. It reports false when the line is
// not a directive.
func ParseDirective(text string) (Directive, bool) {
	rest, ok := strings.CutPrefix(text, DirectivePrefix)
	if !ok {
		return Directive{}, false
	}

	words := strings.Fields(rest)
	if len(words) == 0 {
		return Directive{}, false
	}

	d := Directive{Kind: words[0], Args: make(map[string]string)}
	for _, w := range words[1:] {
		key, value, _ := strings.Cut(w, "=")
		if _, dup := d.Args[key]; !dup {
			d.Order = append(d.Order, key)
		}
		d.Args[key] = value
	}

	return d, true
}

// ConstInfo is a package-level constant of a named type.
type ConstInfo struct {
	Name  string
	Value constant.Value
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources
	Types []TypeID // Named types defined in this package, in source order

	// Funcs and Vars hold the package-level functions and variables, used to
	// check codec overrides named in tags.
	Funcs map[string]*types.Signature
	Vars  map[string]types.Type
}
