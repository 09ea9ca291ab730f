// Package gen writes the Go source for a resolved plan.
//
// Generation uses text/template + go/format. For each source file that
// declares models, records or enums, one <file>_tablemap.go is written next
// to it holding:
//   - a sqlrow.Enum or sqlrow.EnumByValue variable per enum;
//   - a sqlrow.MustTable variable per model, with Insert, InsertOr,
//     InsertWith and Model methods and a <Type>FromRow function;
//   - a sqlrow.MustRecord variable per record and its <Type>FromRow.
//
// Models with a check file also get a test in <file>_tablemap_test.go that
// runs the schema conformance check against the DDL.
package gen
