package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	dir       string
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir resolves relative package patterns from dir instead of the
// working directory.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/users").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register every package first so isExternalPackage sees the whole set.
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{
			Path:  pkg.PkgPath,
			Name:  pkg.Name,
			Dir:   packageDir(pkg),
			Funcs: make(map[string]*types.Signature),
			Vars:  make(map[string]types.Type),
		}
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}

	return ""
}

// processPackage extracts types, their directives and constants, and the
// package-level funcs and vars from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	for _, file := range pkg.Syntax {
		fileName := filepath.Base(pkg.Fset.Position(file.Pos()).Filename)

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if ts.Assign.IsValid() || ts.TypeParams != nil {
					continue
				}

				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}

				id := TypeID{PkgPath: pkg.PkgPath, Name: obj.Name()}
				info := a.analyzeType(obj.Type())
				info.ID = id
				info.File = fileName
				info.Directives = directives(pkg.Fset, ts.Doc, gen)

				a.graph.Types[id] = info
				pkgInfo.Types = append(pkgInfo.Types, id)
			}
		}
	}

	// Constants after all types, so declarations may appear in any order.
	for _, file := range pkg.Syntax {
		a.collectConsts(pkg, file)
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.Func:
			pkgInfo.Funcs[name] = obj.Type().(*types.Signature)
		case *types.Var:
			pkgInfo.Vars[name] = obj.Type()
		}
	}

	return nil
}

// directives reads //tablemap: lines from the type spec's doc, falling back
// to the GenDecl doc for single-spec declarations.
func directives(fset *token.FileSet, doc *ast.CommentGroup, gen *ast.GenDecl) []Directive {
	if doc == nil && len(gen.Specs) == 1 {
		doc = gen.Doc
	}
	if doc == nil {
		return nil
	}

	var out []Directive
	for _, c := range doc.List {
		if d, ok := ParseDirective(c.Text); ok {
			d.Line = fset.Position(c.Pos()).Line
			out = append(out, d)
		}
	}

	return out
}

func (a *Analyzer) collectConsts(pkg *packages.Package, file *ast.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}

		for _, spec := range gen.Specs {
			for _, ident := range spec.(*ast.ValueSpec).Names {
				c, ok := pkg.TypesInfo.Defs[ident].(*types.Const)
				if !ok || ident.Name == "_" {
					continue
				}

				named, ok := c.Type().(*types.Named)
				if !ok || named.Obj().Pkg() != pkg.Types {
					continue
				}

				info := a.graph.Types[TypeID{PkgPath: pkg.PkgPath, Name: named.Obj().Name()}]
				if info == nil {
					continue
				}

				info.Consts = append(info.Consts, ConstInfo{Name: c.Name(), Value: c.Val()})
			}
		}
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	default:
		// Maps, interfaces, channels, etc. have no column codec.
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Universe types such as error.
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindExternal
		return
	}

	info.ID = TypeID{
		PkgPath: obj.Pkg().Path(),
		Name:    obj.Name(),
	}

	if a.isExternalPackage(obj.Pkg().Path()) {
		// time.Time, sql.NullString and friends are opaque; codecs are chosen
		// by identity, not structure.
		info.Kind = TypeKindExternal
		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	default:
		// e.g. type Gender int, type Path string
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		// Unexported fields never map to columns.
		if !field.Exported() {
			continue
		}

		fieldInfo := FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		}

		info.Fields = append(info.Fields, fieldInfo)
	}
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}
	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}
	return info, nil
}
