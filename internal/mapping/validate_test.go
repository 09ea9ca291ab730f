package mapping

import (
	"go/constant"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablemap/internal/analyze"
	"tablemap/internal/diagnostic"
)

const testPkg = "example.com/users"

// buildTestTypeGraph creates a small type graph for testing validation.
func buildTestTypeGraph() *analyze.TypeGraph {
	graph := analyze.NewTypeGraph()

	stringType := &analyze.TypeInfo{Kind: analyze.TypeKindBasic, GoType: types.Typ[types.String]}
	bytesType := &analyze.TypeInfo{Kind: analyze.TypeKindSlice, GoType: types.NewSlice(types.Typ[types.Byte])}

	user := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: testPkg, Name: "User"},
		Kind: analyze.TypeKindStruct,
		Fields: []analyze.FieldInfo{
			{Name: "Username", Exported: true, Type: stringType, Index: 0},
			{Name: "HomeDir", Exported: true, Type: stringType, Index: 1},
			{Name: "Password", Exported: true, Type: bytesType, Index: 2},
		},
	}

	personAge := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: testPkg, Name: "PersonAge"},
		Kind: analyze.TypeKindStruct,
		Fields: []analyze.FieldInfo{
			{Name: "Name", Exported: true, Type: stringType, Index: 0},
			{Name: "Age", Exported: true, Type: &analyze.TypeInfo{Kind: analyze.TypeKindBasic, GoType: types.Typ[types.Int]}, Index: 1},
		},
	}

	gender := &analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: testPkg, Name: "Gender"},
		Kind:   analyze.TypeKindAlias,
		GoType: types.Typ[types.Int],
		Consts: []analyze.ConstInfo{
			{Name: "Male", Value: constant.MakeInt64(0)},
			{Name: "Female", Value: constant.MakeInt64(1)},
		},
	}

	mood := &analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: testPkg, Name: "Mood"},
		Kind:   analyze.TypeKindAlias,
		GoType: types.Typ[types.String],
		Consts: []analyze.ConstInfo{{Name: "Happy", Value: constant.MakeString("happy")}},
	}

	flags := &analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: testPkg, Name: "Flags"},
		Kind:   analyze.TypeKindAlias,
		GoType: types.Typ[types.Uint64],
		Consts: []analyze.ConstInfo{{Name: "FlagA", Value: constant.MakeUint64(1)}},
	}

	pkg := &analyze.PackageInfo{Path: testPkg, Name: "users"}
	for _, t := range []*analyze.TypeInfo{user, personAge, gender, mood, flags} {
		graph.Types[t.ID] = t
		pkg.Types = append(pkg.Types, t.ID)
	}
	graph.Packages[testPkg] = pkg

	return graph
}

func validate(t *testing.T, yaml string) *diagnostic.Diagnostics {
	t.Helper()

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	return Validate(mf, buildTestTypeGraph(), testPkg)
}

func TestValidate_ValidDeclaration(t *testing.T) {
	res := validate(t, `
models:
  - type: User
    table: users
    fields:
      - name: Password
        column: pwd
records:
  - type: users.PersonAge
enums:
  - type: Gender
    stable: true
`)
	assert.True(t, res.IsValid(), "expected valid declaration, got errors: %v", res.Errors)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"type not found", "models:\n  - {type: Usr, table: users}\n", diagnostic.CodeTypeNotFound},
		{"not a struct", "models:\n  - {type: Gender, table: g}\n", diagnostic.CodeNotAStruct},
		{"missing table", "models:\n  - {type: User}\n", diagnostic.CodeMissingTable},
		{"record not a struct", "records:\n  - {type: Gender}\n", diagnostic.CodeNotAStruct},
		{"model and record", "models:\n  - {type: User, table: users}\nrecords:\n  - {type: User}\n", diagnostic.CodeDuplicateOverride},
		{"unknown field", "models:\n  - type: User\n    table: users\n    fields:\n      - {name: Pasword, column: pwd}\n", diagnostic.CodeUnknownField},
		{"field twice", "models:\n  - type: User\n    table: users\n    fields:\n      - {name: Password, column: pwd}\n      - {name: Password, column: pass}\n", diagnostic.CodeDuplicateOverride},
		{"codec conflict", "models:\n  - type: User\n    table: users\n    fields:\n      - {name: HomeDir, codec: C, bind: B}\n", diagnostic.CodeCodecConflict},
		{"model twice", "models:\n  - {type: User, table: a}\n  - {type: User, table: b}\n", diagnostic.CodeDuplicateOverride},
		{"naming", "naming: kebab\n", diagnostic.CodeUnknownOption},
		{"enum without consts", "enums:\n  - {type: User}\n", diagnostic.CodeNoVariants},
		{"stable string enum", "enums:\n  - {type: Mood, stable: true}\n", diagnostic.CodeEnumNotInteger},
		{"stable uint64 enum", "enums:\n  - {type: Flags, stable: true}\n", diagnostic.CodeEnumNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(t, tt.yaml)
			require.False(t, res.IsValid())
			assert.Contains(t, res.Codes(diagnostic.DiagnosticError), tt.code)
		})
	}
}

func TestValidate_DuplicateTable(t *testing.T) {
	graph := buildTestTypeGraph()
	other := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: testPkg, Name: "Admin"},
		Kind: analyze.TypeKindStruct,
	}
	graph.Types[other.ID] = other

	mf, err := Parse([]byte("models:\n  - {type: User, table: users}\n  - {type: Admin, table: USERS}\n"))
	require.NoError(t, err)

	res := Validate(mf, graph, testPkg)
	assert.Equal(t, []string{diagnostic.CodeDuplicateTable}, res.Codes(diagnostic.DiagnosticError))
}

func TestValidate_Suggestions(t *testing.T) {
	res := validate(t, "models:\n  - type: User\n    table: users\n    fields:\n      - {name: Pasword, column: pwd}\n")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, []string{"Password"}, res.Errors[0].Suggestions)
	assert.Equal(t, "User.Pasword", res.Errors[0].FieldPath)

	res = validate(t, "models:\n  - {type: Usr, table: users}\n")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Suggestions, "User")
}

func TestValidate_Nil(t *testing.T) {
	assert.False(t, Validate(nil, buildTestTypeGraph(), testPkg).IsValid())
	assert.False(t, Validate(&MappingFile{}, nil, testPkg).IsValid())
}

func TestResolveTypeID(t *testing.T) {
	graph := buildTestTypeGraph()

	for _, s := range []string{"User", "users.User", testPkg + ".User"} {
		got := ResolveTypeID(s, testPkg, graph)
		require.NotNil(t, got, s)
		assert.Equal(t, "User", got.ID.Name)
	}

	// Name-only lookup falls back to a unique match elsewhere.
	assert.NotNil(t, ResolveTypeID("User", "other/pkg", graph))

	assert.Nil(t, ResolveTypeID("", testPkg, graph))
	assert.Nil(t, ResolveTypeID("orders.User", testPkg, graph))
	assert.Nil(t, ResolveTypeID("User", testPkg, nil))

	assert.Equal(t, []string{"Gender", "Mood", "User"}, TypeNames(graph, testPkg))
}
