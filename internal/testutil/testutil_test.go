package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/call"
	"github.com/ianhorswill/ted/internal/term"
)

func TestMustTuple_Parses(t *testing.T) {
	tup := MustTuple(`(alice, "hi", 3, true)`)
	require.Len(t, tup, 4)
	assert.Equal(t, term.Symbol("alice"), tup[0])
	assert.Equal(t, term.String("hi"), tup[1])
	assert.Equal(t, term.Int(3), tup[2])
	assert.Equal(t, term.Bool(true), tup[3])
}

func TestMustTuple_PanicsOnBadText(t *testing.T) {
	assert.Panics(t, func() { MustTuple("no parens") })
}

func TestNewRelation_Seeds(t *testing.T) {
	rel := NewRelation("Edge", 2, "(a, b)", "(b, c)")
	assert.Equal(t, "Edge", rel.Name())
	assert.Equal(t, 2, rel.Len())
	assert.Equal(t, "(a, b)", rel.RowAt(0).Canonical())
}

func TestSolutions_DrainsCall(t *testing.T) {
	rel := NewRelation("Edge", 2, "(a, b)", "(a, c)", "(b, c)")
	st := binding.NewStore()

	c, err := call.Build(call.Goal{
		Relation: rel,
		Args:     MustTerms("a", "Y"),
	}, nil, st)
	require.NoError(t, err)

	got := Solutions(c, st, "Y")
	assert.Equal(t, [][]string{{"b"}, {"c"}}, got)
}
