package binding

import "github.com/ianhorswill/ted/internal/term"

// Unify matches a goal argument pattern against a stored row.
//
// For each position: a resolved term (constant or bound variable) must
// equal the row value; an unbound variable is bound to it. A variable
// repeated in the pattern must therefore match the same value at every
// occurrence. The wildcard "_" matches anything and binds nothing.
//
// All-or-nothing: on failure every binding made during this attempt is
// undone before returning. On success the new bindings remain; the
// caller undoes them via its own mark when moving to the next row.
//
// Pattern and row lengths must agree; arity is validated at call
// construction, not here.
func Unify(pattern []term.Term, row term.Tuple, s *Store) bool {
	mark := s.Mark()
	for i, t := range pattern {
		if v, ok := s.Resolve(t); ok {
			if !term.Equal(v, row[i]) {
				s.UndoTo(mark)
				return false
			}
			continue
		}
		// Unbound variable (or wildcard, which Bind ignores).
		if tv, ok := t.(term.Variable); ok {
			s.Bind(tv.Name, row[i])
		}
	}
	return true
}
