package plan

import (
	"errors"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"strings"

	"go.uber.org/zap"

	"tablemap/internal/analyze"
	"tablemap/internal/diagnostic"
	"tablemap/internal/mapping"
	"tablemap/internal/match"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// RuntimePath is the import path of the sqlrow runtime package; codec
	// variables passed to codec= are checked against its Codec type.
	RuntimePath string
	// StrictMode turns warnings into errors.
	StrictMode bool
}

// DefaultRuntimePath is the import path of the runtime package.
const DefaultRuntimePath = "tablemap/sqlrow"

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		RuntimePath: DefaultRuntimePath,
		StrictMode:  false,
	}
}

// Resolver performs the resolution pipeline for one package.
type Resolver struct {
	graph      *analyze.TypeGraph
	pkg        *analyze.PackageInfo
	mappingDef *mapping.MappingFile
	config     ResolutionConfig
	log        *zap.SugaredLogger
	codecs     codecRegistry
}

// NewResolver creates a new Resolver. mappingDef must already be merged
// and validated; see mapping.FromDirectives, mapping.Merge and
// mapping.Validate.
func NewResolver(
	graph *analyze.TypeGraph,
	pkgPath string,
	mappingDef *mapping.MappingFile,
	config ResolutionConfig,
	log *zap.SugaredLogger,
) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var pkg *analyze.PackageInfo
	if graph != nil {
		pkg = graph.Packages[pkgPath]
	}

	return &Resolver{
		graph:      graph,
		pkg:        pkg,
		mappingDef: mappingDef,
		config:     config,
		log:        log,
		codecs:     codecRegistry{enums: make(map[*types.TypeName]string)},
	}
}

// Resolve runs the full resolution pipeline and returns a Plan. Problems
// with individual declarations are reported through Plan.Diagnostics; an
// error is returned only when nothing can be resolved at all, or in strict
// mode when diagnostics contain errors.
func (r *Resolver) Resolve() (*Plan, error) {
	if r.mappingDef == nil {
		return nil, errors.New("mapping definition is required")
	}

	if r.pkg == nil {
		return nil, errors.New("package was not loaded")
	}

	plan := &Plan{
		Package:   r.pkg,
		TypeGraph: r.graph,
	}

	// Enums first: fields of enum types use the generated codec.
	for i := range r.mappingDef.Enums {
		if e, ok := r.resolveEnum(&r.mappingDef.Enums[i], &plan.Diagnostics); ok {
			plan.Enums = append(plan.Enums, e)
			r.codecs.enums[e.Type.GoType.(*types.Named).Obj()] = e.Var
		}
	}

	for i := range r.mappingDef.Models {
		md := &r.mappingDef.Models[i]

		t := r.lookup(md.Type)
		if t == nil {
			continue
		}

		fields := r.resolveFields(t, md.Fields, &plan.Diagnostics)
		plan.Models = append(plan.Models, ResolvedModel{
			Type:   t,
			Var:    t.ID.Name + "Table",
			Table:  md.Table,
			Check:  md.Check,
			Fields: fields,
		})

		r.log.Debugw("model resolved", "type", t.ID.Name, "table", md.Table, "fields", len(fields))
	}

	for i := range r.mappingDef.Records {
		rd := &r.mappingDef.Records[i]

		t := r.lookup(rd.Type)
		if t == nil {
			continue
		}

		fields := r.resolveFields(t, rd.Fields, &plan.Diagnostics)
		plan.Records = append(plan.Records, ResolvedRecord{
			Type:   t,
			Var:    t.ID.Name + "Record",
			Fields: fields,
		})

		r.log.Debugw("record resolved", "type", t.ID.Name, "fields", len(fields))
	}

	if r.config.StrictMode && len(plan.Diagnostics.Warnings) > 0 {
		for _, w := range plan.Diagnostics.Warnings {
			plan.Diagnostics.AddError(w.Code, w.Message, w.Subject, w.FieldPath)
		}
	}

	for _, w := range plan.Diagnostics.Warnings {
		r.log.Warnw("resolution warning", "code", w.Code, "subject", w.Subject, "msg", w.Message)
	}

	if r.config.StrictMode && plan.Diagnostics.HasErrors() {
		return plan, errors.New("strict mode: resolution failed with errors")
	}

	return plan, nil
}

func (r *Resolver) lookup(name string) *analyze.TypeInfo {
	t := mapping.ResolveTypeID(name, r.pkg.Path, r.graph)
	if t == nil || t.Kind != analyze.TypeKindStruct {
		// Reported by mapping.Validate.
		return nil
	}

	return t
}

// resolveEnum collects the variants of an enum in source order. Constants
// repeating an earlier value are aliases and are left out.
func (r *Resolver) resolveEnum(ed *mapping.EnumDef, diags *diagnostic.Diagnostics) (ResolvedEnum, bool) {
	t := mapping.ResolveTypeID(ed.Type, r.pkg.Path, r.graph)
	if t == nil || len(t.Consts) == 0 {
		return ResolvedEnum{}, false
	}

	if _, ok := t.GoType.(*types.Named); !ok {
		return ResolvedEnum{}, false
	}

	if t.ID.PkgPath != r.pkg.Path {
		diags.AddError(diagnostic.CodeTypeNotFound,
			fmt.Sprintf("enum %s must be declared in package %s", t.ID, r.pkg.Path), ed.Type, "")
		return ResolvedEnum{}, false
	}

	e := ResolvedEnum{Type: t, Var: t.ID.Name + "Enum", Stable: ed.Stable}

	var values []constant.Value
	for _, c := range t.Consts {
		dup := false
		for _, v := range values {
			if constant.Compare(v, token.EQL, c.Value) {
				dup = true
				break
			}
		}
		if dup {
			diags.AddInfo(diagnostic.CodeFieldSkipped,
				fmt.Sprintf("constant %s repeats an earlier value and is treated as an alias", c.Name), ed.Type, "")
			continue
		}

		values = append(values, c.Value)
		e.Variants = append(e.Variants, c.Name)
	}

	if !ed.Stable && !isOrdinal(values) {
		diags.AddWarning(diagnostic.CodeEnumOrderUnstable,
			fmt.Sprintf("%s is stored by declaration position, not by value; reordering its constants changes stored data (set stable=true to store values)", t.ID.Name),
			ed.Type, "")
	}

	return e, true
}

// isOrdinal reports whether values are exactly the integers 0..n-1 in order.
func isOrdinal(values []constant.Value) bool {
	for i, v := range values {
		n, exact := constant.Int64Val(constant.ToInt(v))
		if !exact || v.Kind() != constant.Int || n != int64(i) {
			return false
		}
	}

	return true
}

// resolveFields maps the exported fields of t to columns.
func (r *Resolver) resolveFields(t *analyze.TypeInfo, defs []mapping.FieldDef, diags *diagnostic.Diagnostics) []ResolvedField {
	subject := t.ID.Name

	byName := make(map[string]mapping.FieldOptions, len(defs))
	for _, d := range defs {
		byName[d.Name] = d.FieldOptions
	}

	naming := r.mappingDef.Naming
	columns := make(map[string]string)
	errs := len(diags.Errors)

	var fields []ResolvedField
	for i := range t.Fields {
		f := &t.Fields[i]
		path := analyze.FieldPath(subject, f.Name)

		var tagOpts mapping.FieldOptions
		if tag, ok := f.SQLTag(); ok {
			opts, err := mapping.ParseTag(tag)
			if err != nil {
				mapping.AddOptionError(diags, err, subject, path)
				continue
			}
			tagOpts = opts
		}

		fileOpts := byName[f.Name]
		opts, err := mapping.MergeOptions(tagOpts, fileOpts)
		if err != nil {
			mapping.AddOptionError(diags, err, subject, path)
			continue
		}

		if opts.Skip {
			diags.AddInfo(diagnostic.CodeFieldSkipped, "field is skipped", subject, path)
			continue
		}

		source := FieldSourceDefault
		switch {
		case !fileOpts.IsZero():
			source = FieldSourceYAML
		case !tagOpts.IsZero():
			source = FieldSourceTag
		}

		column := opts.Column
		if column == "" {
			column = columnName(naming, f.Name)
		}

		key := strings.ToLower(column)
		if other, dup := columns[key]; dup {
			diags.AddError(diagnostic.CodeDuplicateColumn,
				fmt.Sprintf("column %q is already used by %s", column, other), subject, path)
			continue
		}
		columns[key] = f.Name

		codec, ok := r.fieldCodec(f, opts, diags, subject, path)
		if !ok {
			continue
		}

		fields = append(fields, ResolvedField{
			Member: f.Name,
			Column: column,
			GoType: f.Type.GoType,
			Codec:  codec,
			Source: source,
		})
	}

	if len(fields) == 0 && len(diags.Errors) == errs {
		diags.AddError(diagnostic.CodeNoFields, "no field maps to a column", subject, "")
	}

	return fields
}

func columnName(naming mapping.Naming, member string) string {
	if naming == mapping.NamingExact {
		return member
	}

	return match.SnakeCase(member)
}

// fieldCodec picks the codec of one field: an explicit codec= variable, a
// custom codec from bind= and extract=, or the registry default.
func (r *Resolver) fieldCodec(
	f *analyze.FieldInfo,
	opts mapping.FieldOptions,
	diags *diagnostic.Diagnostics,
	subject, path string,
) (*Codec, bool) {
	ft := f.Type.GoType

	if opts.Codec != "" {
		if !r.checkCodecVar(opts.Codec, ft, diags, subject, path) {
			return nil, false
		}
		return &Codec{Kind: CodecVar, Name: opts.Codec}, true
	}

	base, hasBase := r.codecs.lookup(ft)

	if opts.Bind == "" && opts.Extract == "" {
		if !hasBase {
			diags.AddError(diagnostic.CodeNoCodec,
				fmt.Sprintf("type %s has no standard column representation; add codec= or bind= and extract=", ft),
				subject, path)
			return nil, false
		}
		return base, true
	}

	ok := true
	if opts.Bind != "" {
		ok = r.checkBind(opts.Bind, ft, diags, subject, path) && ok
	}
	if opts.Extract != "" {
		ok = r.checkExtract(opts.Extract, ft, diags, subject, path) && ok
	}
	if !ok {
		return nil, false
	}

	if !hasBase {
		if opts.Bind == "" || opts.Extract == "" {
			diags.AddError(diagnostic.CodeNoCodec,
				fmt.Sprintf("type %s has no standard codec to complete; give both bind= and extract=", ft),
				subject, path)
			return nil, false
		}
		base = nil
	}

	affinity := ""
	if base != nil {
		affinity = base.Affinity
	}

	return &Codec{Kind: CodecCustom, Inner: base, Bind: opts.Bind, Extract: opts.Extract, Affinity: affinity}, true
}

// funcSignature returns the signature of a package-level func or func-typed
// var. Qualified names (pkg.F) are not checked and yield nil, true.
func (r *Resolver) funcSignature(name string, diags *diagnostic.Diagnostics, subject, path string) (*types.Signature, bool) {
	if strings.ContainsAny(name, ".()[]") {
		return nil, true
	}

	if sig, ok := r.pkg.Funcs[name]; ok {
		return sig, true
	}

	if t, ok := r.pkg.Vars[name]; ok {
		if sig, ok := t.Underlying().(*types.Signature); ok {
			return sig, true
		}
	}

	diags.AddError(diagnostic.CodeNoCodec, fmt.Sprintf("function %s not found in package %s", name, r.pkg.Name), subject, path)
	diags.Suggest(match.Suggest(name, funcNames(r.pkg), 3)...)

	return nil, false
}

func funcNames(pkg *analyze.PackageInfo) []string {
	names := make([]string, 0, len(pkg.Funcs))
	for n := range pkg.Funcs {
		names = append(names, n)
	}

	return names
}

// checkBind requires func(T) (driver.Value, error).
func (r *Resolver) checkBind(name string, ft types.Type, diags *diagnostic.Diagnostics, subject, path string) bool {
	sig, ok := r.funcSignature(name, diags, subject, path)
	if !ok || sig == nil {
		return ok
	}

	if sig.Params().Len() == 1 && sig.Results().Len() == 2 &&
		match.Relate(ft, sig.Params().At(0).Type()) == match.TypeIdentical &&
		isDriverValue(sig.Results().At(0).Type()) && isError(sig.Results().At(1).Type()) {
		return true
	}

	msg := fmt.Sprintf("bind function %s must have signature func(%s) (driver.Value, error), has %s", name, ft, sig)
	if sig.Params().Len() == 1 {
		msg += relationHint(sig.Params().At(0).Type(), ft)
	}
	diags.AddError(diagnostic.CodeCodecSignature, msg, subject, path)

	return false
}

// checkExtract requires func(any) (T, error).
func (r *Resolver) checkExtract(name string, ft types.Type, diags *diagnostic.Diagnostics, subject, path string) bool {
	sig, ok := r.funcSignature(name, diags, subject, path)
	if !ok || sig == nil {
		return ok
	}

	if sig.Params().Len() == 1 && sig.Results().Len() == 2 &&
		isEmptyInterface(sig.Params().At(0).Type()) &&
		match.Relate(sig.Results().At(0).Type(), ft) == match.TypeIdentical &&
		isError(sig.Results().At(1).Type()) {
		return true
	}

	msg := fmt.Sprintf("extract function %s must have signature func(any) (%s, error), has %s", name, ft, sig)
	if sig.Results().Len() == 2 {
		msg += relationHint(sig.Results().At(0).Type(), ft)
	}
	diags.AddError(diagnostic.CodeCodecSignature, msg, subject, path)

	return false
}

// relationHint explains a near miss between the type in a codec signature
// and the field type.
func relationHint(have, want types.Type) string {
	rel := match.Relate(have, want)
	if rel == match.TypeIdentical || !types.Identical(have.Underlying(), want.Underlying()) {
		return ""
	}

	return fmt.Sprintf("; %s is only %s to %s", have, rel, want)
}

// checkCodecVar requires a package-level variable of type Codec[T] from the
// runtime package. Expressions and qualified names are accepted unchecked.
func (r *Resolver) checkCodecVar(name string, ft types.Type, diags *diagnostic.Diagnostics, subject, path string) bool {
	if strings.ContainsAny(name, ".()[]") {
		return true
	}

	vt, ok := r.pkg.Vars[name]
	if !ok {
		diags.AddError(diagnostic.CodeNoCodec, fmt.Sprintf("codec variable %s not found in package %s", name, r.pkg.Name), subject, path)
		return false
	}

	named, ok := types.Unalias(vt).(*types.Named)
	if ok && named.Obj().Name() == "Codec" && named.Obj().Pkg() != nil &&
		named.Obj().Pkg().Path() == r.config.RuntimePath &&
		named.TypeArgs().Len() == 1 && types.Identical(named.TypeArgs().At(0), ft) {
		return true
	}

	diags.AddError(diagnostic.CodeCodecSignature,
		fmt.Sprintf("codec variable %s has type %s, want sqlrow.Codec[%s]", name, vt, ft), subject, path)

	return false
}

func isDriverValue(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	return ok && named.Obj().Pkg() != nil &&
		named.Obj().Pkg().Path() == "database/sql/driver" && named.Obj().Name() == "Value"
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func isEmptyInterface(t types.Type) bool {
	i, ok := types.Unalias(t).Underlying().(*types.Interface)
	return ok && i.Empty()
}
