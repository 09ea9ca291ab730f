package mapping

import (
	"sort"
	"strings"

	"tablemap/internal/analyze"
)

// ResolveTypeID resolves a type ID string like:
//   - "users.User" (short)
//   - "tablemap/examples/users.User" (full)
//   - "User" (name only, looked up in pkgPath first).
//
// Name-only lookups outside pkgPath succeed only when the name is unique in
// the graph.
func ResolveTypeID(typeIDStr, pkgPath string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	lastDot := strings.LastIndex(typeIDStr, ".")
	if lastDot < 0 {
		name := typeIDStr
		if t := graph.GetType(analyze.TypeID{PkgPath: pkgPath, Name: name}); t != nil {
			return t
		}

		return unique(graph, func(id analyze.TypeID) bool { return id.Name == name })
	}

	pkgStr := typeIDStr[:lastDot]
	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "users.User")
	return unique(graph, func(id analyze.TypeID) bool {
		return id.Name == name && strings.HasSuffix(id.PkgPath, "/"+pkgStr)
	})
}

func unique(graph *analyze.TypeGraph, ok func(analyze.TypeID) bool) *analyze.TypeInfo {
	var found *analyze.TypeInfo
	for id, t := range graph.Types {
		if !ok(id) {
			continue
		}
		if found != nil {
			return nil
		}
		found = t
	}

	return found
}

// TypeNames returns the names of the types declared in pkgPath, sorted.
func TypeNames(graph *analyze.TypeGraph, pkgPath string) []string {
	pkg := graph.Packages[pkgPath]
	if pkg == nil {
		return nil
	}

	names := make([]string, 0, len(pkg.Types))
	for _, id := range pkg.Types {
		names = append(names, id.Name)
	}
	sort.Strings(names)

	return names
}
