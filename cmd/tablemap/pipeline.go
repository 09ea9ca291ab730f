package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"tablemap/internal/analyze"
	"tablemap/internal/config"
	"tablemap/internal/diagnostic"
	"tablemap/internal/gen"
	"tablemap/internal/logger"
	"tablemap/internal/mapping"
	"tablemap/internal/plan"
)

// result is the outcome for one package.
type result struct {
	pkg     *analyze.PackageInfo
	plan    *plan.Plan
	diags   diagnostic.Diagnostics
	files   []gen.GeneratedFile
	removed []string
}

func (r *result) failed(strict bool) bool {
	return r.diags.HasErrors() || strict && len(r.diags.Warnings) > 0
}

func runPipeline(name string, args []string, write bool, stdout, stderr io.Writer) int {
	f, err := parseFlags(name, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	cfg, err := config.Load(f.options())
	if err != nil {
		fmt.Fprintln(stderr, "tablemap:", err)
		return exitUsage
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, Console: stderr})
	if err != nil {
		fmt.Fprintln(stderr, "tablemap:", err)
		return exitUsage
	}
	defer func() { _ = log.Sync() }()

	log.Debugw("config loaded", "file", cfg.File, "package", cfg.Package, "runtime", cfg.Runtime, "strict", cfg.Strict)

	results, err := process(cfg, log, write)
	if err != nil {
		log.Errorw("tablemap failed", "err", err)
		return exitDiags
	}

	code := exitOK
	for _, r := range results {
		report(stdout, r)
		if f.dump && r.plan != nil {
			dump(stdout, r.plan, cfg.Runtime)
		}
		if r.failed(cfg.Strict) {
			code = exitDiags
		}
	}

	return code
}

// process runs the pipeline for every package matched by cfg.Package:
// directives and tags, the optional tablemap.yaml, validation, resolution
// and, when write is set, generation.
func process(cfg *config.Config, log *zap.SugaredLogger, write bool) ([]*result, error) {
	graph, err := analyze.NewAnalyzer().LoadPackages(cfg.Package)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(graph.Packages))
	for path := range graph.Packages {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if cfg.Output != "" && len(paths) > 1 {
		return nil, fmt.Errorf("-out needs a single package, %q matched %d", cfg.Package, len(paths))
	}

	results := make([]*result, 0, len(paths))
	for _, path := range paths {
		r, err := processPackage(cfg, log.With("package", path), graph, graph.Packages[path], write)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}

	return results, nil
}

func processPackage(
	cfg *config.Config,
	log *zap.SugaredLogger,
	graph *analyze.TypeGraph,
	pkg *analyze.PackageInfo,
	write bool,
) (*result, error) {
	r := &result{pkg: pkg}

	mf, diags := mapping.FromDirectives(graph, pkg.Path)
	r.diags.Merge(*diags)

	file, err := mapping.LoadOptional(filepath.Join(pkg.Dir, mapping.DefaultFile))
	if err != nil {
		return nil, err
	}
	r.diags.Merge(*mapping.Merge(mf, file, graph, pkg.Path))
	r.diags.Merge(*mapping.Validate(mf, graph, pkg.Path))

	if r.diags.HasErrors() {
		return r, nil
	}

	p, err := plan.NewResolver(graph, pkg.Path, mf, plan.ResolutionConfig{
		RuntimePath: cfg.Runtime,
		StrictMode:  cfg.Strict,
	}, log).Resolve()
	if p == nil {
		return nil, err
	}
	r.plan = p
	r.diags.Merge(p.Diagnostics)

	if r.failed(cfg.Strict) || !write {
		return r, nil
	}

	dir := pkg.Dir
	if cfg.Output != "" {
		dir = cfg.Output
	}

	r.files, err = gen.NewGenerator(gen.GeneratorConfig{
		RuntimePath:      cfg.Runtime,
		ModulePath:       modulePath(cfg),
		OutputDir:        dir,
		GenerateTests:    cfg.Tests,
		GenerateComments: cfg.Comments,
	}, log).Generate(p)
	if err != nil {
		return nil, err
	}

	if err := gen.WriteFiles(r.files, dir); err != nil {
		return nil, err
	}

	r.removed, err = gen.RemoveStale(dir, r.files)
	if err != nil {
		return nil, err
	}

	log.Infow("files written", "dir", dir, "written", len(r.files), "removed", len(r.removed))

	return r, nil
}

// modulePath returns the configured module, or the first element of the
// runtime import path when it cannot be a standard library path.
func modulePath(cfg *config.Config) string {
	if cfg.Module != "" {
		return cfg.Module
	}

	first, _, _ := strings.Cut(cfg.Runtime, "/")
	if strings.Contains(first, ".") {
		return ""
	}

	return first
}

func report(w io.Writer, r *result) {
	for _, list := range [][]diagnostic.Diagnostic{r.diags.Errors, r.diags.Warnings, r.diags.Infos} {
		for _, d := range list {
			fmt.Fprintf(w, "%s: %s: %s\n", r.pkg.Path, d.Severity, d)
		}
	}

	for _, f := range r.files {
		fmt.Fprintf(w, "%s: wrote %s\n", r.pkg.Path, f.Filename)
	}
	for _, name := range r.removed {
		fmt.Fprintf(w, "%s: removed %s\n", r.pkg.Path, name)
	}
}

// dumpedStruct is the printable form of a resolved model or record.
type dumpedStruct struct {
	Type   string
	Table  string
	Fields []string
}

func dump(w io.Writer, p *plan.Plan, runtime string) {
	s := analyze.NewTypeStringer(p.Package.Path)
	rt := s.Import(runtime)

	describe := func(typ, table string, fields []plan.ResolvedField) dumpedStruct {
		d := dumpedStruct{Type: typ, Table: table}
		for _, f := range fields {
			d.Fields = append(d.Fields, fmt.Sprintf("%s -> %s via %s", f.Member, f.Column, f.Codec.Expr(s, rt)))
		}
		return d
	}

	var out []dumpedStruct
	for _, m := range p.Models {
		out = append(out, describe(m.Type.ID.Name, m.Table, m.Fields))
	}
	for _, rec := range p.Records {
		out = append(out, describe(rec.Type.ID.Name, "", rec.Fields))
	}

	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cs.Fdump(w, out)
}
