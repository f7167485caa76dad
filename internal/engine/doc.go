// Package engine implements the TED tick scheduler.
//
// The scheduler owns the set of relations for one simulation instance
// and drives the per-tick recompute/append cycle that makes derived
// relations current and admits queued input facts.
//
// ARCHITECTURE:
//
// Single-Threaded Tick Loop:
// All evaluation happens in one goroutine for deterministic behavior.
// This ensures:
// - Predictable rule evaluation order
// - Reproducible traces across runs
// - Simple reasoning about which tick a fact becomes visible in
//
// Tick Processing Flow:
// 1. RecomputeAll marks every intensional relation dirty, then
//    ensures every relation current in registration order. Relation
//    recompute is self-recursive: scanning a dirty relation forces it
//    first, so registration order is a visit order, not a dependency
//    order.
// 2. AppendAllInputs drains every extensional relation's pending
//    queue, appending facts in arrival order.
//
// RunTick runs the two phases strictly in that order, never
// interleaved: tick n's derived rows are computed from extensional
// data as it stood at the end of tick n-1, before tick n's new facts
// are admitted. Readers during recompute see a consistent, unmutated
// view of every relation.
//
// The only concurrency-safe entry point is Relation.Enqueue; external
// fact producers feed queues from any goroutine and the facts become
// visible at the next tick boundary.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Ticks are stamped with a monotonic counter from Clock.Next().
// Never wall-clock time; replays must order identically.
//
// Deterministic Scheduling:
// Relations are visited in registration order, rules evaluate in
// declaration order, rows enumerate in append order. No randomness,
// no concurrency, no non-determinism.
package engine
