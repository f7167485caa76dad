// Package store provides sqlite snapshot import/export for relation
// contents.
//
// A snapshot captures every relation's rows in append order, stamped
// with the tick and run token they were taken at. Snapshots seed
// later runs (extensional rows restore directly; intensional rows are
// recomputed on the first tick) and give external tools a queryable
// view of a run's state.
//
// The engine itself never reads sqlite during evaluation: evaluation
// is entirely in-memory, and this package is tooling at the edge.
package store
