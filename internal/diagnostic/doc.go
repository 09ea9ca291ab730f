// Package diagnostic collects the errors, warnings and notes produced while
// a mapping declaration is validated and resolved.
//
// Every diagnostic carries a stable Code so tests and tooling can match on
// it without parsing messages. Generation stops when any error is present;
// warnings are reported and generation continues.
package diagnostic
