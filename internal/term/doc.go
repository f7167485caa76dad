// Package term defines the value and term model for the TED engine.
//
// Values are the things stored in relation rows: symbols, strings,
// integers, and booleans. The set is sealed and deliberately small.
// NO floats - a tick must replay to value-identical rows, and float
// arithmetic breaks that guarantee.
//
// Every value has a canonical text form. Canonical text is the single
// serialization used for index keys, duplicate suppression, snapshot
// storage, and golden traces:
//
//	(alice, "free text", 3, true)
//
// Strings are NFC normalized before printing so that visually identical
// tuples canonicalize identically. The form is parseable: ParseTuple
// and ParseValue invert it.
//
// Terms are the things that appear in goal and rule arguments: a
// Constant wrapping a value, or a named Variable. Variables start with
// an upper-case letter in the text syntax; "_" is an anonymous
// wildcard that matches anything and binds nothing.
package term
