package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "User", FieldPath("User"))
	assert.Equal(t, "User.HomeDir", FieldPath("User", "HomeDir"))
}

func TestTypeStringer(t *testing.T) {
	graph := loadShop(t)
	order := graph.GetType(TypeID{PkgPath: shopPkg, Name: "Order"})
	require.NotNil(t, order)

	s := NewTypeStringer(shopPkg)

	want := map[string]string{
		"ID":      "int64",
		"SKU":     "SKU",
		"Note":    "*string",
		"Coupon":  "sql.NullString",
		"Placed":  "time.Time",
		"Receipt": "[]byte",
		"Cache":   "map[string]string",
	}
	for name, expr := range want {
		f, ok := order.Field(name)
		require.True(t, ok)
		assert.Equal(t, expr, s.TypeString(f.Type.GoType), name)
	}

	assert.Equal(t, "sqlrow", s.Import("tablemap/sqlrow"))
	assert.Equal(t, "", s.Import(shopPkg))
	assert.Equal(t, []string{"database/sql", "tablemap/sqlrow", "time"}, s.Imports())
}
