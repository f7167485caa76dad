package rule

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ianhorswill/ted/internal/term"
)

// ParseAtom parses "Pred(arg1, arg2, ...)" into an Atom. Arguments
// follow term syntax: upper-case leading runes (and "_") are
// variables, everything else is a value. Zero-argument atoms are
// written "Pred()".
func ParseAtom(s string) (Atom, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Atom{}, fmt.Errorf("atom must have the form Pred(args): %q", s)
	}
	pred := strings.TrimSpace(s[:open])
	if !isPredicateName(pred) {
		return Atom{}, fmt.Errorf("invalid predicate name %q", pred)
	}
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return Atom{Pred: pred}, nil
	}
	parts, err := term.SplitArgs(inner)
	if err != nil {
		return Atom{}, fmt.Errorf("atom %q: %w", s, err)
	}
	args := make([]term.Term, len(parts))
	for i, p := range parts {
		t, err := term.ParseTerm(p)
		if err != nil {
			return Atom{}, fmt.Errorf("atom %q: %w", s, err)
		}
		args[i] = t
	}
	return Atom{Pred: pred, Args: args}, nil
}

// ParseLiteral parses a body literal: an atom, optionally prefixed
// with "!" for negation.
func ParseLiteral(s string) (Literal, error) {
	s = strings.TrimSpace(s)
	negated := false
	if strings.HasPrefix(s, "!") {
		negated = true
		s = strings.TrimSpace(s[1:])
	}
	a, err := ParseAtom(s)
	if err != nil {
		return Literal{}, err
	}
	return Literal{Atom: a, Negated: negated}, nil
}

// isPredicateName accepts identifiers with a leading letter followed
// by letters, digits, '_' or '-'. Case carries no meaning for
// predicate names.
func isPredicateName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
