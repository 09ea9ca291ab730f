package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"tablemap/internal/analyze"
	"tablemap/internal/common"
	"tablemap/internal/plan"
)

// Suffixes of generated files. For models.go the generator writes
// models_tablemap.go and, when a model has a schema to check,
// models_tablemap_test.go.
const (
	FileSuffix     = "_tablemap.go"
	TestFileSuffix = "_tablemap_test.go"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// RuntimePath is the import path of the sqlrow runtime.
	RuntimePath string
	// ModulePath groups imports of the current module after third-party ones,
	// in a block of their own.
	ModulePath string
	// OutputDir is where debug sidecars go when formatting fails.
	OutputDir string
	// GenerateTests emits a schema conformance test per model with a check
	// file.
	GenerateTests bool
	// GenerateComments emits doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RuntimePath:      plan.DefaultRuntimePath,
		ModulePath:       "tablemap",
		GenerateTests:    true,
		GenerateComments: true,
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
	log    *zap.SugaredLogger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Generator{config: config, log: log}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "models_tablemap.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per source file declaring models, records or
// enums, plus the schema tests. Output order follows source order and is
// deterministic.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if p.Diagnostics.HasErrors() {
		return nil, fmt.Errorf("plan has errors: %w", p.Diagnostics.Error())
	}

	var files []GeneratedFile

	for _, src := range p.Files() {
		base := strings.TrimSuffix(src, filepath.Ext(src))

		data := g.fileData(p, src)
		file, err := g.render(codeTemplate, base+FileSuffix, data)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", src, err)
		}
		files = append(files, *file)

		if !g.config.GenerateTests {
			continue
		}

		if test := g.testData(p, src); test != nil {
			file, err := g.render(testTemplate, base+TestFileSuffix, test)
			if err != nil {
				return nil, fmt.Errorf("generating tests for %s: %w", src, err)
			}
			files = append(files, *file)
		}
	}

	g.log.Infow("code generated", "package", p.Package.Path, "files", len(files),
		"models", len(p.Models), "records", len(p.Records), "enums", len(p.Enums))

	return files, nil
}

// templateData is the input of codeTemplate.
type templateData struct {
	PackageName string
	Comments    bool
	// ImportLines lists import paths; an empty line separates the
	// standard library group from the rest.
	ImportLines []string
	// RT is the name the runtime package is referred to by.
	RT      string
	Enums   []enumData
	Models  []structData
	Records []structData
}

type enumData struct {
	Type     string
	Var      string
	Ctor     string
	Variants []string
	Stable   bool
}

type structData struct {
	Type   string
	Var    string
	Table  string
	Check  string
	Fields []fieldData
}

type fieldData struct {
	Member string
	Column string
	GoType string
	Codec  string
}

func (g *Generator) fileData(p *plan.Plan, src string) *templateData {
	s := analyze.NewTypeStringer(p.Package.Path)
	rt := s.Import(g.config.RuntimePath)

	data := &templateData{
		PackageName: p.Package.Name,
		Comments:    g.config.GenerateComments,
		RT:          rt,
	}

	for _, e := range p.Enums {
		if e.Type.File != src {
			continue
		}

		ctor := "Enum"
		if e.Stable {
			ctor = "EnumByValue"
		}

		data.Enums = append(data.Enums, enumData{
			Type:     e.Type.ID.Name,
			Var:      e.Var,
			Ctor:     ctor,
			Variants: e.Variants,
			Stable:   e.Stable,
		})
	}

	for _, m := range p.Models {
		if m.Type.File != src {
			continue
		}

		data.Models = append(data.Models, structData{
			Type:   m.Type.ID.Name,
			Var:    m.Var,
			Table:  m.Table,
			Check:  m.Check,
			Fields: fields(s, rt, m.Fields),
		})
	}

	for _, r := range p.Records {
		if r.Type.File != src {
			continue
		}

		data.Records = append(data.Records, structData{
			Type:   r.Type.ID.Name,
			Var:    r.Var,
			Fields: fields(s, rt, r.Fields),
		})
	}

	if len(data.Models) > 0 {
		s.Import("context")
	}

	data.ImportLines = g.importLines(s.Imports())

	return data
}

func fields(s *analyze.TypeStringer, rt string, in []plan.ResolvedField) []fieldData {
	out := make([]fieldData, 0, len(in))
	for _, f := range in {
		out = append(out, fieldData{
			Member: f.Member,
			Column: f.Column,
			GoType: s.TypeString(f.GoType),
			Codec:  f.Codec.Expr(s, rt),
		})
	}

	return out
}

// importLines groups sorted paths goimports style: standard library, then
// third-party packages, then packages of ModulePath.
func (g *Generator) importLines(paths []string) []string {
	var std, other, local []string
	for _, p := range paths {
		switch {
		case common.IsStdlib(p, g.config.ModulePath):
			std = append(std, p)
		case common.InModule(p, g.config.ModulePath):
			local = append(local, p)
		default:
			other = append(other, p)
		}
	}

	var lines []string
	for _, group := range [][]string{std, other, local} {
		if len(group) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, group...)
	}

	return lines
}

// testTemplateData is the input of testTemplate.
type testTemplateData struct {
	PackageName string
	ImportLines []string
	Models      []structData
}

func (g *Generator) testData(p *plan.Plan, src string) *testTemplateData {
	data := &testTemplateData{PackageName: p.Package.Name}

	for _, m := range p.Models {
		if m.Type.File == src && m.Check != "" {
			data.Models = append(data.Models, structData{Type: m.Type.ID.Name, Var: m.Var, Table: m.Table, Check: m.Check})
		}
	}

	if len(data.Models) == 0 {
		return nil
	}

	data.ImportLines = g.importLines([]string{
		"context",
		"testing",
		"github.com/stretchr/testify/require",
		strings.TrimSuffix(g.config.RuntimePath, "/") + "/schemacheck",
	})

	return data
}

func (g *Generator) render(tmpl *template.Template, filename string, data any) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}
