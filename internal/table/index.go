package table

import (
	"fmt"
	"slices"

	"github.com/ianhorswill/ted/internal/term"
)

// Index maps a column subset's projected values to the positions of
// matching rows, in append order. Buckets preserve storage order, so
// an indexed scan visits candidates in the same order an exhaustive
// scan would.
type Index struct {
	cols    []int // ascending column positions
	buckets map[string][]int
}

func newIndex(cols []int) *Index {
	sorted := slices.Clone(cols)
	slices.Sort(sorted)
	return &Index{
		cols:    sorted,
		buckets: make(map[string][]int),
	}
}

// Cols returns the indexed column positions, ascending.
func (x *Index) Cols() []int {
	return x.cols
}

// Bucket returns the positions of rows whose indexed columns equal
// key, in append order. key holds the values in ascending column
// order, matching Cols.
func (x *Index) Bucket(key term.Tuple) []int {
	return x.buckets[key.Canonical()]
}

// add records a newly appended row. Positions within a bucket stay
// ascending because rows only ever append.
func (x *Index) add(pos int, row term.Tuple) {
	k := x.project(row).Canonical()
	x.buckets[k] = append(x.buckets[k], pos)
}

// rebuild recomputes all buckets from scratch after a repopulation.
func (x *Index) rebuild(rows []term.Tuple) {
	x.buckets = make(map[string][]int, len(rows))
	for i, row := range rows {
		x.add(i, row)
	}
}

func (x *Index) project(row term.Tuple) term.Tuple {
	key := make(term.Tuple, len(x.cols))
	for i, c := range x.cols {
		key[i] = row[c]
	}
	return key
}

// AddIndex declares an index on a column subset. Indexes are declared
// at setup, before any rows exist; declaring one on a populated
// relation backfills it. Column positions must be in range and
// distinct.
func (r *Relation) AddIndex(cols ...int) (*Index, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("relation %q: index needs at least one column", r.name)
	}
	seen := make(map[int]bool, len(cols))
	for _, c := range cols {
		if c < 0 || c >= r.arity {
			return nil, fmt.Errorf("relation %q: index column %d out of range [0,%d)", r.name, c, r.arity)
		}
		if seen[c] {
			return nil, fmt.Errorf("relation %q: duplicate index column %d", r.name, c)
		}
		seen[c] = true
	}
	x := newIndex(cols)
	x.rebuild(r.rows)
	r.indexes = append(r.indexes, x)
	return x, nil
}

// BestIndex returns the declared index covering the most columns all
// of which are bound in the caller's argument pattern, or nil if no
// declared index is usable. Ties keep the earliest declaration.
func (r *Relation) BestIndex(bound map[int]bool) *Index {
	var best *Index
	for _, x := range r.indexes {
		usable := true
		for _, c := range x.cols {
			if !bound[c] {
				usable = false
				break
			}
		}
		if usable && (best == nil || len(x.cols) > len(best.cols)) {
			best = x
		}
	}
	return best
}
