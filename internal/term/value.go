package term

import (
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface over the row value types.
// Only Symbol, String, Int, and Bool implement it.
// NO Float - floats are forbidden (they break tick-replay determinism).
type Value interface {
	value() // Sealed - only these types implement it

	// Canonical returns the canonical text form of the value.
	Canonical() string
}

// Symbol is an interned-style identifier value (entity names, tags).
// Symbols print bare: alice, room_12. A symbol used in parseable text
// must start with a lower-case letter; upper-case leading runes are
// reserved for variables.
type Symbol string

func (Symbol) value() {}

// Canonical returns the NFC-normalized bare form.
func (s Symbol) Canonical() string {
	return norm.NFC.String(string(s))
}

// String is free-text value. Prints double-quoted.
type String string

func (String) value() {}

// Canonical returns the NFC-normalized quoted form.
func (s String) Canonical() string {
	return strconv.Quote(norm.NFC.String(string(s)))
}

// Int is an integer value. Always int64.
type Int int64

func (Int) value() {}

// Canonical returns the decimal form.
func (i Int) Canonical() string {
	return strconv.FormatInt(int64(i), 10)
}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Canonical returns "true" or "false".
func (b Bool) Canonical() string {
	if b {
		return "true"
	}
	return "false"
}

// Equal reports whether two values are the same type and content.
// Symbols and Strings compare after NFC normalization, matching the
// canonical form.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Symbol:
		bv, ok := b.(Symbol)
		return ok && norm.NFC.String(string(av)) == norm.NFC.String(string(bv))
	case String:
		bv, ok := b.(String)
		return ok && norm.NFC.String(string(av)) == norm.NFC.String(string(bv))
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}
