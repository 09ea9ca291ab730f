// Package plan turns validated declarations into a Plan consumed by code
// generation.
//
// Resolution pipeline:
//  1. Analyze packages → type graph
//  2. Read directives and tablemap.yaml → merge → validate
//  3. Resolve enums: variants in source order, aliases dropped, a warning
//     when positional storage would not match the declared values
//  4. For each model and record field:
//     - merge sql tag and YAML options
//     - derive the column name (snake_case or exact)
//     - pick the codec: codec= variable, bind=/extract= overrides checked
//     against their signatures, or the registry default
//  5. Emit diagnostics (duplicate columns, fields without codec, ...)
package plan
