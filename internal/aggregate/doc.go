// Package aggregate turns a sparse answer store into per-indicator tallies
// and the lookups a chart or listing needs.
//
// Every function in this package is pure and total: the same inputs always
// produce the same output, and missing, unknown or orphaned data is skipped
// rather than reported. Report generation must succeed for every state a
// session can reach, including an empty selection.
package aggregate
