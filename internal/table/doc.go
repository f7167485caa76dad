// Package table implements relations: the materialized extension of
// one named predicate.
//
// A relation is either extensional (stored facts, fed through a
// pending-input queue drained once per tick) or intensional (derived
// rows, repopulated by an externally supplied definition when dirty).
//
// MUTATION DISCIPLINE:
//
// Rows change through exactly two paths:
//   - EnsureCurrent() runs the definition of a dirty intensional
//     relation and replaces its rows.
//   - AppendPendingInputs() drains an extensional relation's queue and
//     appends each fact in arrival order.
//
// Only the owning scheduler triggers either, and only the scheduler
// calls MarkDirty. Everything else reads: scans enumerate rows by
// position or through a declared column-subset index, and never
// mutate.
//
// Enqueue is the one concurrency-safe entry point: external writers
// may queue facts from any goroutine between ticks. All other methods
// belong to the engine's single thread.
package table
