package call

import "github.com/ianhorswill/ted/internal/binding"

// negationCall implements negation-as-failure over a ground goal:
// it succeeds at most once per Reset cycle, iff the wrapped call has
// no solution on its first attempt.
//
// This is an existence check, not backtracking negation: it never
// enumerates multiple ways for the inner goal to fail. Construction
// rejects non-ground inner goals, so standard left-to-right safety
// discipline (negation evaluated once otherwise fully bound) holds.
type negationCall struct {
	inner     Call
	st        *binding.Store
	attempted bool
}

func newNegationCall(inner Call, st *binding.Store) *negationCall {
	return &negationCall{inner: inner, st: st}
}

// Reset clears the one-shot flag. The inner call is not eagerly
// reset; it is reset by NextSolution at the single attempt.
func (c *negationCall) Reset() {
	c.attempted = false
}

// NextSolution runs the inner call exactly once per Reset cycle and
// returns the logical negation of its result. Any bindings the inner
// attempt made are undone: negation exports no bindings.
func (c *negationCall) NextSolution() bool {
	if c.attempted {
		return false
	}
	c.attempted = true

	mark := c.st.Mark()
	c.inner.Reset()
	found := c.inner.NextSolution()
	c.st.UndoTo(mark)
	return !found
}
