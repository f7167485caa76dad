package call

import (
	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// exhaustiveScan enumerates every row of a relation in storage order,
// unifying the argument pattern against the row at the cursor. Used
// when no declared index covers the bound columns.
type exhaustiveScan struct {
	rel     *table.Relation
	pattern []term.Term
	st      *binding.Store

	cursor int
	mark   int
}

func newExhaustiveScan(rel *table.Relation, pattern []term.Term, st *binding.Store) *exhaustiveScan {
	return &exhaustiveScan{
		rel:     rel,
		pattern: pattern,
		st:      st,
		mark:    st.Mark(),
	}
}

// Reset positions the cursor at the first row. The trail mark is
// retaken so per-row undo restores exactly the caller's bindings at
// Reset time.
func (c *exhaustiveScan) Reset() {
	c.cursor = 0
	c.mark = c.st.Mark()
}

// NextSolution undoes the previous row's bindings, then advances the
// cursor to the next row that unifies, leaving the cursor just past
// it. Once the cursor passes the last row every call returns false.
func (c *exhaustiveScan) NextSolution() bool {
	c.st.UndoTo(c.mark)
	for c.cursor < c.rel.Len() {
		row := c.rel.RowAt(c.cursor)
		c.cursor++
		if binding.Unify(c.pattern, row, c.st) {
			return true
		}
	}
	return false
}

// indexedScan has the same contract as exhaustiveScan but narrows the
// candidate set up front: at Reset it projects the bound argument
// values onto the index's columns and fetches the matching bucket,
// then visits only those rows. Bucket positions are in append order,
// so solution order matches the exhaustive variant exactly.
type indexedScan struct {
	rel     *table.Relation
	pattern []term.Term
	st      *binding.Store
	idx     *table.Index

	bucket []int
	pos    int
	mark   int
}

func newIndexedScan(rel *table.Relation, pattern []term.Term, st *binding.Store, idx *table.Index) *indexedScan {
	return &indexedScan{
		rel:     rel,
		pattern: pattern,
		st:      st,
		idx:     idx,
		mark:    st.Mark(),
	}
}

// Reset resolves the index key under the caller's current bindings
// and fetches the candidate bucket. Construction guarantees every
// indexed column is bound by Reset time.
func (c *indexedScan) Reset() {
	c.mark = c.st.Mark()
	c.pos = 0
	key := make(term.Tuple, 0, len(c.idx.Cols()))
	for _, col := range c.idx.Cols() {
		v, ok := c.st.Resolve(c.pattern[col])
		if !ok {
			// Unreachable for a correctly constructed call; an
			// unresolved key column means the mode analysis and the
			// runtime disagree. Fail closed: no candidates.
			c.bucket = nil
			return
		}
		key = append(key, v)
	}
	c.bucket = c.idx.Bucket(key)
}

func (c *indexedScan) NextSolution() bool {
	c.st.UndoTo(c.mark)
	for c.pos < len(c.bucket) {
		row := c.rel.RowAt(c.bucket[c.pos])
		c.pos++
		if binding.Unify(c.pattern, row, c.st) {
			return true
		}
	}
	return false
}
