// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"fmt"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/call"
	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// MustTuple parses tuple text like "(alice, bob)" and panics on error.
// Use only in tests where the text is a literal.
func MustTuple(text string) term.Tuple {
	t, err := term.ParseTuple(text)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad tuple %q: %v", text, err))
	}
	return t
}

// MustTerm parses a single term and panics on error.
func MustTerm(text string) term.Term {
	t, err := term.ParseTerm(text)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad term %q: %v", text, err))
	}
	return t
}

// MustTerms parses each argument as a term.
func MustTerms(texts ...string) []term.Term {
	terms := make([]term.Term, len(texts))
	for i, s := range texts {
		terms[i] = MustTerm(s)
	}
	return terms
}

// NewRelation builds an unregistered extensional relation seeded with
// the given tuples. Panics on error; tests pass literal rows.
func NewRelation(name string, arity int, rows ...string) *table.Relation {
	rel, err := table.NewExtensional(nil, name, arity)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	for _, row := range rows {
		if err := rel.Insert(MustTuple(row)); err != nil {
			panic(fmt.Sprintf("testutil: insert %q: %v", row, err))
		}
	}
	return rel
}

// Solutions drains a call, resolving the named variables after each
// solution. Each entry holds the canonical form of every variable in
// order, so assertions read as plain string slices.
func Solutions(c call.Call, st *binding.Store, vars ...string) [][]string {
	var out [][]string
	c.Reset()
	for c.NextSolution() {
		row := make([]string, len(vars))
		for i, name := range vars {
			v, ok := st.Lookup(name)
			if !ok {
				row[i] = "?"
				continue
			}
			row[i] = v.Canonical()
		}
		out = append(out, row)
	}
	return out
}
