package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianhorswill/ted/internal/term"
)

func TestAddIndex_Validation(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)

	_, err := rel.AddIndex()
	assert.ErrorContains(t, err, "at least one column")

	_, err = rel.AddIndex(2)
	assert.ErrorContains(t, err, "out of range")

	_, err = rel.AddIndex(-1)
	assert.ErrorContains(t, err, "out of range")

	_, err = rel.AddIndex(0, 0)
	assert.ErrorContains(t, err, "duplicate index column")
}

func TestIndex_BucketsPreserveAppendOrder(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)
	idx, err := rel.AddIndex(0)
	require.NoError(t, err)

	require.NoError(t, rel.Insert(tup(sym("a"), sym("b"))))
	require.NoError(t, rel.Insert(tup(sym("b"), sym("c"))))
	require.NoError(t, rel.Insert(tup(sym("a"), sym("d"))))

	assert.Equal(t, []int{0, 2}, idx.Bucket(tup(sym("a"))))
	assert.Equal(t, []int{1}, idx.Bucket(tup(sym("b"))))
	assert.Nil(t, idx.Bucket(tup(sym("z"))))
}

func TestAddIndex_BackfillsExistingRows(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)
	require.NoError(t, rel.Insert(tup(sym("a"), sym("b"))))
	require.NoError(t, rel.Insert(tup(sym("a"), sym("c"))))

	idx, err := rel.AddIndex(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, idx.Bucket(tup(sym("a"))))
}

func TestIndex_ColsSortedAscending(t *testing.T) {
	rel, _ := NewExtensional(nil, "Triple", 3)
	idx, err := rel.AddIndex(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx.Cols())

	// Key order follows ascending columns.
	require.NoError(t, rel.Insert(tup(sym("x"), sym("m"), sym("y"))))
	assert.Equal(t, []int{0}, idx.Bucket(tup(sym("x"), sym("y"))))
}

func TestIndex_RebuildOnRecompute(t *testing.T) {
	rel, _ := NewIntensional(nil, "Path", 2)
	idx, err := rel.AddIndex(0)
	require.NoError(t, err)

	gen := [][]term.Tuple{
		{tup(sym("a"), sym("b"))},
		{tup(sym("c"), sym("d"))},
	}
	i := 0
	require.NoError(t, rel.SetDefinition(func() ([]term.Tuple, error) {
		out := gen[i]
		i++
		return out, nil
	}))

	require.NoError(t, rel.EnsureCurrent())
	assert.Equal(t, []int{0}, idx.Bucket(tup(sym("a"))))

	rel.MarkDirty()
	require.NoError(t, rel.EnsureCurrent())

	// Stale buckets are gone after repopulation.
	assert.Nil(t, idx.Bucket(tup(sym("a"))))
	assert.Equal(t, []int{0}, idx.Bucket(tup(sym("c"))))
}

func TestBestIndex(t *testing.T) {
	rel, _ := NewExtensional(nil, "Triple", 3)
	one, err := rel.AddIndex(0)
	require.NoError(t, err)
	two, err := rel.AddIndex(0, 1)
	require.NoError(t, err)

	// Widest fully-bound index wins.
	assert.Same(t, two, rel.BestIndex(map[int]bool{0: true, 1: true}))
	assert.Same(t, one, rel.BestIndex(map[int]bool{0: true}))
	assert.Same(t, two, rel.BestIndex(map[int]bool{0: true, 1: true, 2: true}))

	// No usable index without the covered columns bound.
	assert.Nil(t, rel.BestIndex(map[int]bool{1: true}))
	assert.Nil(t, rel.BestIndex(nil))
}
