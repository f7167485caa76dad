package term

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ParseValue parses the canonical text form of a single value.
//
//	alice    -> Symbol
//	"hi"     -> String
//	-3       -> Int
//	true     -> Bool
//
// Bare tokens starting with an upper-case letter are rejected: that
// form is reserved for variables, which are not values.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	if s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s: %w", s, err)
		}
		return String(norm.NFC.String(unq)), nil
	}
	if s == "true" {
		return Bool(true), nil
	}
	if s == "false" {
		return Bool(false), nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n), nil
	}
	if !isSymbolToken(s) {
		if isVariableToken(s) {
			return nil, fmt.Errorf("%q is a variable, not a value", s)
		}
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return Symbol(norm.NFC.String(s)), nil
}

// ParseTerm parses a goal argument: a value or a variable.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	if isVariableToken(s) {
		return Variable{Name: s}, nil
	}
	v, err := ParseValue(s)
	if err != nil {
		return nil, err
	}
	return Constant{Val: v}, nil
}

// ParseTuple parses the canonical tuple form: "(v1, v2, ...)".
// The empty tuple is "()".
func ParseTuple(s string) (Tuple, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("tuple must be parenthesized: %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return Tuple{}, nil
	}
	parts, err := SplitArgs(inner)
	if err != nil {
		return nil, fmt.Errorf("tuple %q: %w", s, err)
	}
	t := make(Tuple, len(parts))
	for i, p := range parts {
		v, err := ParseValue(p)
		if err != nil {
			return nil, fmt.Errorf("tuple %q: %w", s, err)
		}
		t[i] = v
	}
	return t, nil
}

// SplitArgs splits a comma-separated argument list at the top level,
// respecting double-quoted strings. Used for tuple and goal argument
// parsing.
func SplitArgs(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inString && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inString = !inString
		case r == ',' && !inString:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if inString {
		return nil, fmt.Errorf("unterminated string literal")
	}
	last := strings.TrimSpace(cur.String())
	if last == "" && len(parts) > 0 {
		return nil, fmt.Errorf("trailing comma")
	}
	parts = append(parts, last)
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("empty argument")
		}
	}
	return parts, nil
}

// isVariableToken reports whether s is variable syntax: an upper-case
// leading rune, or the bare wildcard "_".
func isVariableToken(s string) bool {
	if s == "_" {
		return true
	}
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	return unicode.IsUpper(first) && isIdentTail(s)
}

// isSymbolToken reports whether s is a bare symbol: a lower-case
// leading letter followed by letters, digits, '_' or '-'.
func isSymbolToken(s string) bool {
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	return unicode.IsLower(first) && isIdentTail(s)
}

func isIdentTail(s string) bool {
	for i, r := range s {
		if i == 0 {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
