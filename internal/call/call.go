// Package call implements the runtime cursors that enumerate solutions
// to one goal instantiation, and the constructor that turns a goal
// into the right cursor for its argument binding pattern.
//
// THE CONTRACT:
//
// A Call is a restartable enumeration, not a consume-once iterator.
// Reset re-initializes cursor state; NextSolution finds the next
// solution and writes its bindings through the shared binding store.
// Any number of Reset/enumerate cycles may run over a call's lifetime.
// Once NextSolution returns false it keeps returning false until the
// next Reset - exhaustion is sticky, enumeration never restarts
// itself.
//
// Calls are created on demand to answer one query during one
// recompute and discarded after use. A call exclusively owns any
// sub-call it wraps and is responsible for resetting it; nested calls
// are driven strictly by their owner. Only one enumeration may be
// active on a call at a time.
//
// The set of call kinds is closed: exhaustive table scan, indexed
// table scan, and negation. Dispatch is through this interface, not
// open inheritance.
package call

// Call is the runtime cursor for one instantiation of a predicate
// application.
type Call interface {
	// Reset re-initializes cursor state so the next NextSolution
	// starts enumeration from the first candidate. Idempotent;
	// callable any number of times, including immediately after
	// construction and after exhaustion.
	Reset()

	// NextSolution attempts to find and bind the next solution.
	// Returns true exactly when a solution was found and its bindings
	// were written to the shared store; false when no further
	// solutions exist for the current Reset cycle.
	NextSolution() bool
}
