package analyze

import (
	"go/constant"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopPkg = "tablemap/internal/testdata/shop"

func loadShop(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(shopPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadShop(t)

	require.Contains(t, graph.Packages, shopPkg)
	pkg := graph.Packages[shopPkg]
	assert.Equal(t, "shop", pkg.Name)
	assert.Equal(t, "shop", filepath.Base(pkg.Dir))

	// Source order, not alphabetical.
	var names []string
	for _, id := range pkg.Types {
		names = append(names, id.Name)
	}
	assert.Equal(t, []string{"Status", "Priority", "SKU", "Order", "OrderTotal", "Labels", "Address"}, names)
}

func TestAnalyzer_OrderFields(t *testing.T) {
	graph := loadShop(t)

	order := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, TypeKindStruct, order.Kind)
	assert.Equal(t, "shop.go", order.File)

	var names []string
	for _, f := range order.Fields {
		names = append(names, f.Name)
	}
	assert.NotContains(t, names, "revision", "unexported fields are dropped")
	assert.Equal(t, "ID", names[0])
	assert.Contains(t, names, "Cache")

	customer, ok := order.Field("Customer")
	require.True(t, ok)
	tag, ok := customer.SQLTag()
	assert.True(t, ok)
	assert.Equal(t, "customer_name", tag)

	id, _ := order.Field("ID")
	_, ok = id.SQLTag()
	assert.False(t, ok)
}

func TestAnalyzer_FieldKinds(t *testing.T) {
	graph := loadShop(t)
	order := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Order"})
	require.NotNil(t, order)

	kinds := map[string]TypeKind{
		"ID":      TypeKindBasic,
		"SKU":     TypeKindAlias,
		"Status":  TypeKindAlias,
		"Note":    TypeKindPointer,
		"Coupon":  TypeKindExternal,
		"Placed":  TypeKindExternal,
		"Receipt": TypeKindSlice,
		"Labels":  TypeKindAlias,
		"Cache":   TypeKindUnknown,
	}
	for name, want := range kinds {
		f, ok := order.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, want, f.Type.Kind, name)
	}

	placed, _ := order.Field("Placed")
	assert.Equal(t, TypeID{PkgPath: "time", Name: "Time"}, placed.Type.ID)
}

func TestAnalyzer_Directives(t *testing.T) {
	graph := loadShop(t)

	order := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Order"})
	d, ok := order.Directive("model")
	require.True(t, ok)
	assert.Equal(t, "orders", d.Args["table"])
	assert.Equal(t, "schema.sql", d.Args["check"])
	assert.Equal(t, []string{"table", "check"}, d.Order)
	assert.Positive(t, d.Line)

	total := graph.GetType(TypeID{PkgPath: shopPkg, Name: "OrderTotal"})
	_, ok = total.Directive("record")
	assert.True(t, ok)

	address := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Address"})
	assert.Empty(t, address.Directives)
}

func TestAnalyzer_EnumConsts(t *testing.T) {
	graph := loadShop(t)

	status := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Status"})
	require.Len(t, status.Consts, 3)
	assert.Equal(t, "StatusNew", status.Consts[0].Name)
	assert.Equal(t, "StatusShipped", status.Consts[2].Name)

	n, exact := constant.Int64Val(status.Consts[1].Value)
	assert.True(t, exact)
	assert.EqualValues(t, 1, n)

	prio := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Priority"})
	d, ok := prio.Directive("enum")
	require.True(t, ok)
	assert.Equal(t, "true", d.Args["stable"])
	require.Len(t, prio.Consts, 2)
}

func TestAnalyzer_FuncsAndVars(t *testing.T) {
	graph := loadShop(t)
	pkg := graph.Packages[shopPkg]

	require.Contains(t, pkg.Funcs, "BindLabels")
	assert.Equal(t, 1, pkg.Funcs["BindLabels"].Params().Len())
	assert.Equal(t, 2, pkg.Funcs["ExtractLabels"].Results().Len())
	assert.Contains(t, pkg.Vars, "ReceiptCodec")
}

func TestAnalyzer_GetStruct(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.LoadPackages(shopPkg)
	require.NoError(t, err)

	_, err = a.GetStruct(shopPkg, "Order")
	require.NoError(t, err)

	_, err = a.GetStruct(shopPkg, "Status")
	assert.ErrorContains(t, err, "not a struct")

	_, err = a.GetStruct(shopPkg, "Missing")
	assert.ErrorContains(t, err, "not found")
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("tablemap/internal/testdata/does_not_exist")
	assert.Error(t, err)
}

func TestParseDirective(t *testing.T) {
	d, ok := ParseDirective("//tablemap:model table=users check=schema.sql")
	require.True(t, ok)
	assert.Equal(t, "model", d.Kind)
	assert.Equal(t, map[string]string{"table": "users", "check": "schema.sql"}, d.Args)

	d, ok = ParseDirective("//tablemap:enum")
	require.True(t, ok)
	assert.Empty(t, d.Args)

	_, ok = ParseDirective("// tablemap:model")
	assert.False(t, ok)
	_, ok = ParseDirective("//tablemap:")
	assert.False(t, ok)
	_, ok = ParseDirective("//go:generate stringer")
	assert.False(t, ok)
}
