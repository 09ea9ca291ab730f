package mapping

import (
	"errors"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"tablemap/internal/analyze"
	"tablemap/internal/diagnostic"
	"tablemap/internal/match"
)

// Validate checks a merged declaration file against the type graph of the
// package at pkgPath. It is a structural check: types exist and have the
// right shape, tables and field overrides are well formed. Codec selection
// and column naming are left to the resolver.
func Validate(mf *MappingFile, graph *analyze.TypeGraph, pkgPath string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	if !mf.Naming.IsValid() {
		res.AddError(diagnostic.CodeUnknownOption,
			fmt.Sprintf("naming %q is not one of snake, exact", mf.Naming), "", "")
	}

	v := &validator{graph: graph, pkgPath: pkgPath, res: res}

	tables := make(map[string]string)
	seen := make(map[*analyze.TypeInfo]bool)

	for i := range mf.Models {
		m := &mf.Models[i]

		t := v.structType(m.Type)
		if t == nil {
			continue
		}

		if seen[t] {
			res.AddError(diagnostic.CodeDuplicateOverride, "type declared as a model twice", m.Type, "")
			continue
		}
		seen[t] = true

		if m.Table == "" {
			res.AddError(diagnostic.CodeMissingTable, "model has no table name", m.Type, "")
		} else if other, dup := tables[strings.ToLower(m.Table)]; dup {
			res.AddError(diagnostic.CodeDuplicateTable,
				fmt.Sprintf("table %q is already mapped by %s", m.Table, other), m.Type, "")
		} else {
			tables[strings.ToLower(m.Table)] = m.Type
		}

		if m.Check != "" {
			v.checkSchemaPath(m.Type, m.Check)
		}

		v.fields(m.Type, t, m.Fields)
	}

	seenRecords := make(map[*analyze.TypeInfo]bool)
	for i := range mf.Records {
		r := &mf.Records[i]

		t := v.structType(r.Type)
		if t == nil {
			continue
		}

		if seen[t] {
			res.AddError(diagnostic.CodeDuplicateOverride, "type declared both as a model and as a record", r.Type, "")
			continue
		}

		if seenRecords[t] {
			res.AddError(diagnostic.CodeDuplicateOverride, "type declared as a record twice", r.Type, "")
			continue
		}
		seenRecords[t] = true

		v.fields(r.Type, t, r.Fields)
	}

	seenEnums := make(map[*analyze.TypeInfo]bool)
	for i := range mf.Enums {
		e := &mf.Enums[i]

		t := v.lookup(e.Type)
		if t == nil {
			continue
		}

		if seenEnums[t] {
			res.AddError(diagnostic.CodeDuplicateOverride, "type declared as an enum twice", e.Type, "")
			continue
		}
		seenEnums[t] = true

		v.enum(e, t)
	}

	return res
}

type validator struct {
	graph   *analyze.TypeGraph
	pkgPath string
	res     *diagnostic.Diagnostics
}

func (v *validator) lookup(name string) *analyze.TypeInfo {
	t := ResolveTypeID(name, v.pkgPath, v.graph)
	if t == nil {
		v.res.AddError(diagnostic.CodeTypeNotFound, fmt.Sprintf("type %q not found", name), name, "")
		v.res.Suggest(match.Suggest(name, TypeNames(v.graph, v.pkgPath), 3)...)
	}

	return t
}

func (v *validator) structType(name string) *analyze.TypeInfo {
	t := v.lookup(name)
	if t == nil {
		return nil
	}

	if t.Kind != analyze.TypeKindStruct {
		v.res.AddError(diagnostic.CodeNotAStruct,
			fmt.Sprintf("type %s is not a struct (kind: %s)", t.ID, t.Kind), name, "")
		return nil
	}

	return t
}

func (v *validator) fields(subject string, t *analyze.TypeInfo, defs []FieldDef) {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}

	seen := make(map[string]bool)
	for _, fd := range defs {
		path := analyze.FieldPath(t.ID.Name, fd.Name)

		if _, ok := t.Field(fd.Name); !ok {
			v.res.AddError(diagnostic.CodeUnknownField,
				fmt.Sprintf("%s has no exported field %q", t.ID.Name, fd.Name), subject, path)
			v.res.Suggest(match.Suggest(fd.Name, names, 3)...)
			continue
		}

		if seen[fd.Name] {
			v.res.AddError(diagnostic.CodeDuplicateOverride, "field listed twice in YAML", subject, path)
			continue
		}
		seen[fd.Name] = true

		if err := fd.FieldOptions.Check(); err != nil {
			AddOptionError(v.res, err, subject, path)
		}
	}
}

func (v *validator) enum(e *EnumDef, t *analyze.TypeInfo) {
	if t.Kind == analyze.TypeKindStruct {
		v.res.AddError(diagnostic.CodeNoVariants, "a struct cannot be an enum", e.Type, "")
		return
	}

	if len(t.Consts) == 0 {
		v.res.AddError(diagnostic.CodeNoVariants,
			fmt.Sprintf("no constants of type %s are declared", t.ID.Name), e.Type, "")
		return
	}

	if e.Stable && !isStableInteger(t.GoType) {
		v.res.AddError(diagnostic.CodeEnumNotInteger,
			fmt.Sprintf("stable enum %s must have an integer underlying type other than uint64 or uintptr", t.ID.Name), e.Type, "")
	}
}

func (v *validator) checkSchemaPath(subject, rel string) {
	pkg := v.graph.Packages[v.pkgPath]
	if pkg == nil || pkg.Dir == "" {
		return
	}

	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(pkg.Dir, rel)
	}

	if _, err := os.Stat(path); err != nil {
		v.res.AddError(diagnostic.CodeSchemaNotFound,
			fmt.Sprintf("schema file %s: %v", rel, err), subject, "")
	}
}

// isStableInteger reports whether values of t are stored as themselves by
// sqlrow.EnumByValue, which excludes kinds that do not fit in int64.
func isStableInteger(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	if !ok || b.Info()&types.IsInteger == 0 {
		return false
	}

	switch b.Kind() {
	case types.Uint64, types.Uintptr:
		return false
	default:
		return true
	}
}

// AddOptionError records err, keeping the code of an OptionError.
func AddOptionError(res *diagnostic.Diagnostics, err error, subject, path string) {
	var oe *OptionError
	if errors.As(err, &oe) {
		res.AddError(oe.Code, oe.Message, subject, path)
		return
	}

	res.AddError(diagnostic.CodeUnknownOption, err.Error(), subject, path)
}
