// Package binding implements the shared variable binding store that
// calls write solutions through, and unification of goal argument
// patterns against stored rows.
//
// The store is trail-based: every Bind is recorded, and UndoTo rolls
// the store back to an earlier Mark. Scan calls take a mark at Reset
// and undo to it before trying each candidate row, which makes
// per-row backtracking a constant-time pointer move plus the unbinds.
//
// The store is owned by one evaluation at a time and is not safe for
// concurrent use - the engine is single-threaded by design.
package binding

import "github.com/ianhorswill/ted/internal/term"

// Store holds the current variable bindings for one evaluation.
type Store struct {
	vals  map[string]term.Value
	trail []string
}

// NewStore creates an empty binding store.
func NewStore() *Store {
	return &Store{
		vals: make(map[string]term.Value),
	}
}

// Lookup returns the value bound to name, if any.
func (s *Store) Lookup(name string) (term.Value, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Bind binds name to v and records the binding on the trail.
// Binding an already-bound name is a caller bug; unification compares
// instead of rebinding. The wildcard "_" is never bound.
func (s *Store) Bind(name string, v term.Value) {
	if name == "_" {
		return
	}
	s.vals[name] = v
	s.trail = append(s.trail, name)
}

// Mark returns the current trail position for later UndoTo.
func (s *Store) Mark() int {
	return len(s.trail)
}

// UndoTo unbinds everything recorded after mark, restoring the store
// to its state when Mark was taken.
func (s *Store) UndoTo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		delete(s.vals, s.trail[i])
	}
	s.trail = s.trail[:mark]
}

// Resolve returns the value a term denotes under the current bindings:
// the wrapped value for a constant, the bound value for a bound
// variable. ok is false for unbound (including anonymous) variables.
func (s *Store) Resolve(t term.Term) (term.Value, bool) {
	switch tt := t.(type) {
	case term.Constant:
		return tt.Val, true
	case term.Variable:
		if tt.Anonymous() {
			return nil, false
		}
		return s.Lookup(tt.Name)
	default:
		return nil, false
	}
}
