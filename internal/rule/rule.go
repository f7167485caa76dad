// Package rule turns declarative rules into the defining computations
// that repopulate intensional relations.
//
// A rule is a head atom and a body of literals:
//
//	Mutual(X, Y) :- Friend(X, Y), Friend(Y, X)
//	Lonely(X)    :- Person(X), !Friend(X, _)   <- rejected: negation must be ground
//
// Compilation validates the rule against the registered relations and
// precomputes binding modes; evaluation is a depth-first backtracking
// join over calls, producing derived rows in first-derivation order
// with duplicates suppressed by canonical key.
package rule

import "github.com/ianhorswill/ted/internal/term"

// Atom is one predicate application in rule text: a predicate name
// and argument terms.
type Atom struct {
	Pred string
	Args []term.Term
}

// Literal is a body atom, possibly negated.
type Literal struct {
	Atom
	Negated bool
}

// Rule is one declarative rule: derive Head rows from solutions of
// Body. Body literals evaluate left to right; a variable is bound by
// the first positive literal that mentions it.
type Rule struct {
	// Name identifies the rule in errors and traces (its label in the
	// program file).
	Name string

	Head Atom
	Body []Literal
}
