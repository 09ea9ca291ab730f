package mapping

import (
	"fmt"
	"strconv"

	"tablemap/internal/analyze"
	"tablemap/internal/diagnostic"
)

// Directive kinds.
const (
	DirectiveModel  = "model"
	DirectiveRecord = "record"
	DirectiveEnum   = "enum"
)

// FromDirectives builds the declarations written as //tablemap: comments
// in the package at pkgPath, in source order.
func FromDirectives(graph *analyze.TypeGraph, pkgPath string) (*MappingFile, *diagnostic.Diagnostics) {
	mf := &MappingFile{Version: SchemaVersion, Naming: NamingSnake}

	diags := &diagnostic.Diagnostics{}

	pkg := graph.Packages[pkgPath]
	if pkg == nil {
		diags.AddError(diagnostic.CodeTypeNotFound, fmt.Sprintf("package %s was not loaded", pkgPath), "", "")
		return mf, diags
	}

	for _, id := range pkg.Types {
		t := graph.GetType(id)
		for _, d := range t.Directives {
			addDirective(mf, diags, id.Name, d)
		}
	}

	return mf, diags
}

func addDirective(mf *MappingFile, diags *diagnostic.Diagnostics, name string, d analyze.Directive) {
	allowed := map[string][]string{
		DirectiveModel:  {"table", "check"},
		DirectiveRecord: nil,
		DirectiveEnum:   {"stable"},
	}

	keys, known := allowed[d.Kind]
	if !known {
		diags.AddError(diagnostic.CodeUnknownOption,
			fmt.Sprintf("unknown directive //tablemap:%s (line %d)", d.Kind, d.Line), name, "")
		return
	}

	for _, k := range d.Order {
		if !contains(keys, k) {
			diags.AddError(diagnostic.CodeUnknownOption,
				fmt.Sprintf("unknown option %q on //tablemap:%s (line %d)", k, d.Kind, d.Line), name, "")
		}
	}

	switch d.Kind {
	case DirectiveModel:
		mf.Models = append(mf.Models, ModelDef{
			Type:   name,
			Table:  d.Args["table"],
			Check:  d.Args["check"],
			Origin: OriginDirective,
		})

	case DirectiveRecord:
		mf.Records = append(mf.Records, RecordDef{Type: name, Origin: OriginDirective})

	case DirectiveEnum:
		stable := false
		if v, ok := d.Args["stable"]; ok {
			b, err := strconv.ParseBool(v)
			if err != nil && v != "" {
				diags.AddError(diagnostic.CodeUnknownOption,
					fmt.Sprintf("stable=%q is not a boolean (line %d)", v, d.Line), name, "")
			}
			stable = b || v == ""
		}
		mf.Enums = append(mf.Enums, EnumDef{Type: name, Stable: stable, Origin: OriginDirective})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}

// Merge folds the declarations of file into base. A type declared in both
// is merged; settings stated in both places are reported as duplicate
// overrides.
func Merge(base, file *MappingFile, graph *analyze.TypeGraph, pkgPath string) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	if file.Naming != "" {
		base.Naming = file.Naming
	}

	same := func(a, b string) bool {
		if a == b {
			return true
		}
		ta := ResolveTypeID(a, pkgPath, graph)
		return ta != nil && ta == ResolveTypeID(b, pkgPath, graph)
	}

	for _, m := range file.Models {
		i := indexOf(len(base.Models), func(i int) bool {
			return base.Models[i].Origin == OriginDirective && same(base.Models[i].Type, m.Type)
		})
		if i < 0 {
			m.Origin = OriginYAML
			base.Models = append(base.Models, m)
			continue
		}

		dst := &base.Models[i]
		dst.Origin = OriginBoth
		mergeString(diags, m.Type, "table", &dst.Table, m.Table)
		mergeString(diags, m.Type, "check", &dst.Check, m.Check)
		dst.Fields = append(dst.Fields, m.Fields...)
	}

	for _, r := range file.Records {
		i := indexOf(len(base.Records), func(i int) bool {
			return base.Records[i].Origin == OriginDirective && same(base.Records[i].Type, r.Type)
		})
		if i < 0 {
			r.Origin = OriginYAML
			base.Records = append(base.Records, r)
			continue
		}

		base.Records[i].Origin = OriginBoth
		base.Records[i].Fields = append(base.Records[i].Fields, r.Fields...)
	}

	for _, e := range file.Enums {
		i := indexOf(len(base.Enums), func(i int) bool {
			return base.Enums[i].Origin == OriginDirective && same(base.Enums[i].Type, e.Type)
		})
		if i < 0 {
			e.Origin = OriginYAML
			base.Enums = append(base.Enums, e)
			continue
		}

		base.Enums[i].Origin = OriginBoth
		if e.Stable {
			if base.Enums[i].Stable {
				diags.AddError(diagnostic.CodeDuplicateOverride,
					"stable set both in the directive and in YAML", e.Type, "")
			}
			base.Enums[i].Stable = true
		}
	}

	return diags
}

func mergeString(diags *diagnostic.Diagnostics, subject, name string, dst *string, v string) {
	if v == "" {
		return
	}
	if *dst != "" {
		diags.AddError(diagnostic.CodeDuplicateOverride,
			fmt.Sprintf("%s set both in the directive and in YAML", name), subject, "")
		return
	}
	*dst = v
}

func indexOf(n int, ok func(int) bool) int {
	for i := range n {
		if ok(i) {
			return i
		}
	}

	return -1
}
