package term

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Tuple is one relation row: an ordered sequence of values.
// Row order within a relation is append order and is semantically
// visible (it is scan enumeration order).
type Tuple []Value

// Canonical returns the canonical text form of the tuple:
//
//	(alice, "hi", 3, true)
//
// Canonical text is the identity used for index keys and duplicate
// suppression, and the storage form in snapshots.
func (t Tuple) Canonical() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range t {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Canonical())
	}
	b.WriteByte(')')
	return b.String()
}

// EqualTuples reports element-wise equality.
func EqualTuples(a, b Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Domain prefix for content-addressed fact identity.
// Version suffix enables future algorithm migration.
const domainFact = "ted/fact/v1"

// FactID computes the content-addressed identity of a fact: a
// SHA-256 over the relation name and the canonical tuple text, with
// domain separation. Stable across runs given the same fact.
//
// Format: SHA256(domain + 0x00 + relation + 0x00 + canonical)
// The null separators prevent boundary ambiguity between fields.
func FactID(relation string, t Tuple) string {
	h := sha256.New()
	h.Write([]byte(domainFact))
	h.Write([]byte{0x00})
	h.Write([]byte(relation))
	h.Write([]byte{0x00})
	h.Write([]byte(t.Canonical()))
	return hex.EncodeToString(h.Sum(nil))
}
