// Package mapping reads the declarations that drive generation.
//
// A declaration says which structs map to tables (models), which are built
// from ad-hoc query rows (records), and which named types are enumerations.
// Declarations come from two places that are merged:
//
//   - //tablemap: directives on type declarations, plus sql struct tags;
//   - a tablemap.yaml file next to the package.
//
// # Directives
//
//	//tablemap:model table=users check=schema.sql
//	//tablemap:record
//	//tablemap:enum stable=true
//
// # Struct tags
//
//	Username string `sql:"username"`
//	HomeDir  Path   `sql:"home_dir,bind=BindPath,extract=ExtractPath"`
//	Secret   []byte `sql:"pwd,codec=SecretCodec"`
//	Cache    []byte `sql:"-"`
//
// # YAML
//
//	version: "1"
//	naming: snake          # or exact
//	models:
//	  - type: User
//	    table: users
//	    check: schema.sql
//	    fields:
//	      - name: Password
//	        column: pwd
//	records:
//	  - type: PersonAge
//	enums:
//	  - type: Gender
//	    stable: false
//
// A setting stated both in a directive or tag and in YAML is rejected as a
// duplicate override, even when the two agree. Validate reports structural
// problems; see package diagnostic for the codes.
package mapping
