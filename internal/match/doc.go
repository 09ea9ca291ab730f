// Package match compares names and types for the generator and the schema
// checker: default column names, "did you mean" suggestions, ranking of live
// columns as renames of expected ones, and classification of codec
// signature types.
package match
