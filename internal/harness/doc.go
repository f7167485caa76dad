// Package harness provides a scenario-driven conformance framework for
// the tick engine.
//
// A scenario is a YAML file naming a program directory, seed facts,
// per-tick input batches, and assertions over the final relation
// contents. The harness compiles the program, drives a real scheduler
// with a fixed run token, and records the per-tick traces so a run is
// reproducible byte for byte.
//
// Golden files under testdata/golden capture the full trace and final
// state of a scenario. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
