// Package analyze loads Go packages and extracts what the generator needs
// from them.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build a
// type graph of the declared types. Each named type carries its exported
// fields with their struct tags, the //tablemap: directives on its
// declaration, the source file it lives in, and its constants in source
// order. Packages record their funcs and vars so codec overrides named in
// tags can be checked.
package analyze
