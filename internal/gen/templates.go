package gen

import "text/template"

// Header starts every generated file.
const Header = "// Code generated by tablemap. DO NOT EDIT."

var codeTemplate = template.Must(template.New("code").Parse(Header + `

package {{.PackageName}}

import (
{{- range .ImportLines}}
{{if .}}	"{{.}}"{{end}}
{{- end}}
)
{{$rt := .RT}}{{$comments := .Comments}}
{{- range .Enums}}
{{if $comments}}{{if .Stable}}// {{.Var}} stores {{.Type}} as the value of each constant.
{{else}}// {{.Var}} stores {{.Type}} as its position in the declaration.
{{end}}{{end -}}
var {{.Var}} = {{$rt}}.{{.Ctor}}({{range $i, $v := .Variants}}{{if $i}}, {{end}}{{$v}}{{end}})
{{end}}
{{- range .Models}}
{{$type := .Type}}{{if $comments}}// {{.Var}} maps {{.Type}} to table {{.Table}}.
{{end -}}
var {{.Var}} = {{$rt}}.MustTable({{printf "%q" .Table}}, []{{$rt}}.Field[{{.Type}}]{
{{- range .Fields}}
	{{$rt}}.Col({{printf "%q" .Member}}, {{printf "%q" .Column}}, func(v *{{$type}}) *{{.GoType}} { return &v.{{.Member}} }, {{.Codec}}),
{{- end}}
}{{if .Check}}, {{$rt}}.WithSchema({{printf "%q" .Check}}){{end}})

{{if $comments}}// Insert inserts m into {{.Table}}.
{{end -}}
func (m *{{.Type}}) Insert(ctx context.Context, conn {{$rt}}.Execer) error {
	_, err := {{.Var}}.Insert(ctx, conn, m)
	return err
}

{{if $comments}}// InsertOr inserts m into {{.Table}}, resolving conflicts with strategy.
{{end -}}
func (m *{{.Type}}) InsertOr(ctx context.Context, conn {{$rt}}.Execer, strategy {{$rt}}.OnConflict) error {
	_, err := {{.Var}}.InsertOr(ctx, conn, m, strategy)
	return err
}

{{if $comments}}// InsertWith executes stmt, prepared from {{.Var}}.StatementText(), for m.
{{end -}}
func (m *{{.Type}}) InsertWith(ctx context.Context, stmt {{$rt}}.StmtExecer) error {
	_, err := {{.Var}}.InsertWith(ctx, stmt, m)
	return err
}

{{if $comments}}// Model returns the table descriptor of {{.Type}}.
{{end -}}
func (m *{{.Type}}) Model() {{$rt}}.Model { return {{.Var}} }

{{if $comments}}// {{.Type}}FromRow rebuilds a {{.Type}} from a row of {{.Table}}, in column order.
{{end -}}
func {{.Type}}FromRow(row {{$rt}}.Row) ({{.Type}}, error) { return {{.Var}}.FromRow(row) }
{{end}}
{{- range .Records}}
{{$type := .Type}}{{if $comments}}// {{.Var}} builds {{.Type}} from query rows.
{{end -}}
var {{.Var}} = {{$rt}}.MustRecord(
{{- range .Fields}}
	{{$rt}}.Col({{printf "%q" .Member}}, {{printf "%q" .Column}}, func(v *{{$type}}) *{{.GoType}} { return &v.{{.Member}} }, {{.Codec}}),
{{- end}}
)

{{if $comments}}// {{.Type}}FromRow builds a {{.Type}} from a row whose columns are in declaration order.
{{end -}}
func {{.Type}}FromRow(row {{$rt}}.Row) ({{.Type}}, error) { return {{.Var}}.FromRow(row) }
{{end}}`))

var testTemplate = template.Must(template.New("test").Parse(Header + `

package {{.PackageName}}

import (
{{- range .ImportLines}}
{{if .}}	"{{.}}"{{end}}
{{- end}}
)
{{range .Models}}
func Test{{.Var}}MatchesSchema(t *testing.T) {
	report, err := schemacheck.CheckFile(context.Background(), {{.Var}}.SchemaPath(), {{.Var}})
	require.NoError(t, err)
	require.NoError(t, report.Err())
}
{{end}}`))
