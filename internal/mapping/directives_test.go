package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablemap/internal/analyze"
	"tablemap/internal/diagnostic"
)

const (
	shopPkg   = "tablemap/internal/testdata/shop"
	brokenPkg = "tablemap/internal/testdata/broken"
)

func loadGraph(t *testing.T, patterns ...string) *analyze.TypeGraph {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages(patterns...)
	require.NoError(t, err)
	return graph
}

func TestFromDirectives(t *testing.T) {
	graph := loadGraph(t, shopPkg)

	mf, diags := FromDirectives(graph, shopPkg)
	require.True(t, diags.IsValid(), "%v", diags.Errors)

	require.Len(t, mf.Models, 1)
	assert.Equal(t, ModelDef{Type: "Order", Table: "orders", Check: "schema.sql", Origin: OriginDirective}, mf.Models[0])

	require.Len(t, mf.Records, 1)
	assert.Equal(t, "OrderTotal", mf.Records[0].Type)

	require.Len(t, mf.Enums, 2)
	assert.Equal(t, EnumDef{Type: "Status", Origin: OriginDirective}, mf.Enums[0])
	assert.Equal(t, EnumDef{Type: "Priority", Stable: true, Origin: OriginDirective}, mf.Enums[1])

	assert.True(t, Validate(mf, graph, shopPkg).IsValid())
}

func TestFromDirectives_Broken(t *testing.T) {
	graph := loadGraph(t, brokenPkg)

	mf, diags := FromDirectives(graph, brokenPkg)
	require.True(t, diags.IsValid(), "%v", diags.Errors)

	res := Validate(mf, graph, brokenPkg)
	codes := res.Codes(diagnostic.DiagnosticError)
	assert.Contains(t, codes, diagnostic.CodeMissingTable)
	assert.Contains(t, codes, diagnostic.CodeNoVariants)
	assert.Contains(t, codes, diagnostic.CodeNotAStruct)
}

func TestFromDirectives_UnknownPackage(t *testing.T) {
	_, diags := FromDirectives(analyze.NewTypeGraph(), "nowhere")
	assert.Equal(t, []string{diagnostic.CodeTypeNotFound}, diags.Codes(diagnostic.DiagnosticError))
}

func TestFromDirectives_UnknownOptions(t *testing.T) {
	graph := buildTestTypeGraph()
	user := graph.Types[analyze.TypeID{PkgPath: testPkg, Name: "User"}]
	for _, line := range []string{
		"//tablemap:model table=users nullable=true",
		"//tablemap:entity",
	} {
		d, ok := analyze.ParseDirective(line)
		require.True(t, ok)
		user.Directives = append(user.Directives, d)
	}

	gender := graph.Types[analyze.TypeID{PkgPath: testPkg, Name: "Gender"}]
	d, _ := analyze.ParseDirective("//tablemap:enum stable=maybe")
	gender.Directives = append(gender.Directives, d)

	mf, diags := FromDirectives(graph, testPkg)
	assert.Equal(t, []string{
		diagnostic.CodeUnknownOption,
		diagnostic.CodeUnknownOption,
		diagnostic.CodeUnknownOption,
	}, diags.Codes(diagnostic.DiagnosticError))
	require.Len(t, mf.Models, 1)
	assert.Equal(t, "users", mf.Models[0].Table)
}

func TestMerge(t *testing.T) {
	graph := loadGraph(t, shopPkg)
	base, _ := FromDirectives(graph, shopPkg)

	file, err := Parse([]byte(`
naming: exact
models:
  - type: shop.Order
    fields:
      - name: Paid
        column: is_paid
  - type: Address
    table: addresses
    check: schema.sql
records:
  - type: OrderTotal
    fields:
      - name: Total
        column: sum_total
enums:
  - type: Status
`))
	require.NoError(t, err)

	diags := Merge(base, file, graph, shopPkg)
	require.True(t, diags.IsValid(), "%v", diags.Errors)

	assert.Equal(t, NamingExact, base.Naming)
	require.Len(t, base.Models, 2)
	assert.Equal(t, OriginBoth, base.Models[0].Origin)
	assert.Equal(t, "orders", base.Models[0].Table)
	assert.Equal(t, "is_paid", base.Models[0].Fields[0].Column)
	assert.Equal(t, OriginYAML, base.Models[1].Origin)

	assert.Equal(t, OriginBoth, base.Records[0].Origin)
	assert.Len(t, base.Records[0].Fields, 1)
	assert.Len(t, base.Enums, 2)

	assert.True(t, Validate(base, graph, shopPkg).IsValid())
}

func TestMerge_DuplicateSettings(t *testing.T) {
	graph := loadGraph(t, shopPkg)
	base, _ := FromDirectives(graph, shopPkg)

	file, err := Parse([]byte(`
models:
  - type: Order
    table: orders
enums:
  - type: Priority
    stable: true
`))
	require.NoError(t, err)

	diags := Merge(base, file, graph, shopPkg)
	assert.Equal(t, []string{
		diagnostic.CodeDuplicateOverride,
		diagnostic.CodeDuplicateOverride,
	}, diags.Codes(diagnostic.DiagnosticError))
}
