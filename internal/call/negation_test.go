package call_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/call"
	"github.com/ianhorswill/ted/internal/testutil"
)

func TestNegation_SucceedsWhenNoRowMatches(t *testing.T) {
	rel := testutil.NewRelation("Edge", 2, "(a, b)")
	st := binding.NewStore()

	c := buildCall(t, call.Goal{
		Relation: rel,
		Args:     testutil.MustTerms("b", "a"),
		Negated:  true,
	}, nil, st)

	c.Reset()
	assert.True(t, c.NextSolution())

	// One-shot: at most one success per Reset cycle.
	assert.False(t, c.NextSolution())
	assert.False(t, c.NextSolution())
}

func TestNegation_FailsWhenRowMatches(t *testing.T) {
	rel := testutil.NewRelation("Edge", 2, "(a, b)")
	st := binding.NewStore()

	c := buildCall(t, call.Goal{
		Relation: rel,
		Args:     testutil.MustTerms("a", "b"),
		Negated:  true,
	}, nil, st)

	c.Reset()
	assert.False(t, c.NextSolution())
}

func TestNegation_ExportsNoBindings(t *testing.T) {
	rel := testutil.NewRelation("Edge", 2, "(a, b)")
	st := binding.NewStore()
	st.Bind("X", testutil.MustTuple("(b)")[0])
	st.Bind("Y", testutil.MustTuple("(a)")[0])
	mark := st.Mark()

	c := buildCall(t, call.Goal{
		Relation: rel,
		Args:     testutil.MustTerms("X", "Y"),
		Negated:  true,
	}, map[string]bool{"X": true, "Y": true}, st)

	c.Reset()
	require.True(t, c.NextSolution())
	assert.Equal(t, mark, st.Mark())
}

func TestNegation_ResetAllowsRetry(t *testing.T) {
	rel := testutil.NewRelation("Edge", 2, "(a, b)")
	st := binding.NewStore()

	c := buildCall(t, call.Goal{
		Relation: rel,
		Args:     testutil.MustTerms("b", "a"),
		Negated:  true,
	}, nil, st)

	c.Reset()
	assert.True(t, c.NextSolution())
	assert.False(t, c.NextSolution())

	c.Reset()
	assert.True(t, c.NextSolution())
}

func TestNegation_ReflectsCurrentRows(t *testing.T) {
	rel := testutil.NewRelation("Edge", 2)
	st := binding.NewStore()

	c := buildCall(t, call.Goal{
		Relation: rel,
		Args:     testutil.MustTerms("a", "b"),
		Negated:  true,
	}, nil, st)

	c.Reset()
	assert.True(t, c.NextSolution())

	// The same goal over the grown relation flips.
	require.NoError(t, rel.Insert(testutil.MustTuple("(a, b)")))
	c.Reset()
	assert.False(t, c.NextSolution())
}
