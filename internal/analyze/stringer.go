package analyze

import (
	"go/types"
	"sort"
	"strings"

	"tablemap/internal/common"
)

// TypeStringer renders type expressions as they must be written inside one
// package, recording the imports the expressions need.
type TypeStringer struct {
	pkgPath string
	imports map[string]string // path -> name
}

// NewTypeStringer creates a TypeStringer for code living in pkgPath.
func NewTypeStringer(pkgPath string) *TypeStringer {
	return &TypeStringer{
		pkgPath: pkgPath,
		imports: make(map[string]string),
	}
}

// TypeString returns the Go expression of t, e.g. "*time.Time" or "Gender".
func (s *TypeStringer) TypeString(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

func (s *TypeStringer) qualifier(p *types.Package) string {
	if p.Path() == s.pkgPath {
		return ""
	}

	s.imports[p.Path()] = p.Name()
	return p.Name()
}

// Import records an extra import and returns the name to refer to it by.
func (s *TypeStringer) Import(path string) string {
	if path == s.pkgPath {
		return ""
	}

	name, ok := s.imports[path]
	if !ok {
		name = common.PkgAlias(path)
		s.imports[path] = name
	}

	return name
}

// Imports returns the recorded import paths, sorted.
func (s *TypeStringer) Imports() []string {
	paths := make([]string, 0, len(s.imports))
	for p := range s.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// FieldPath joins a type name and field names for diagnostics:
// ("User", "HomeDir") is "User.HomeDir".
func FieldPath(typeName string, fieldNames ...string) string {
	return strings.Join(append([]string{typeName}, fieldNames...), ".")
}
