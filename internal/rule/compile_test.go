package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
	"github.com/ianhorswill/ted/internal/testutil"
)

type mapResolver map[string]*table.Relation

func (m mapResolver) Relation(name string) (*table.Relation, bool) {
	r, ok := m[name]
	return r, ok
}

// mkRule assembles a Rule from text forms.
func mkRule(t *testing.T, name, head string, body ...string) Rule {
	t.Helper()
	h, err := ParseAtom(head)
	require.NoError(t, err)
	r := Rule{Name: name, Head: h}
	for _, b := range body {
		l, err := ParseLiteral(b)
		require.NoError(t, err)
		r.Body = append(r.Body, l)
	}
	return r
}

// socialWorld is a small fixture: stored friendships plus empty
// derived relations to compile against.
func socialWorld(t *testing.T) mapResolver {
	t.Helper()
	friend := testutil.NewRelation("Friend", 2,
		"(alice, bob)", "(bob, alice)", "(bob, carol)")
	mutual, err := table.NewIntensional(nil, "Mutual", 2)
	require.NoError(t, err)
	oneWay, err := table.NewIntensional(nil, "OneWay", 2)
	require.NoError(t, err)
	return mapResolver{
		"Friend": friend,
		"Mutual": mutual,
		"OneWay": oneWay,
	}
}

func rows(tuples []term.Tuple) []string {
	out := make([]string, len(tuples))
	for i, tp := range tuples {
		out[i] = tp.Canonical()
	}
	return out
}

func TestCompile_UnknownHeadPredicate(t *testing.T) {
	res := socialWorld(t)
	_, err := Compile(mkRule(t, "r", "Ghost(X)", "Friend(X, _)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnknownPredicate))
}

func TestCompile_UnknownBodyPredicate(t *testing.T) {
	res := socialWorld(t)
	_, err := Compile(mkRule(t, "r", "Mutual(X, Y)", "Ghost(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnknownPredicate))
}

func TestCompile_ExtensionalHead(t *testing.T) {
	res := socialWorld(t)
	_, err := Compile(mkRule(t, "r", "Friend(X, Y)", "Mutual(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeExtensionalHead))
}

func TestCompile_ArityMismatch(t *testing.T) {
	res := socialWorld(t)

	_, err := Compile(mkRule(t, "r", "Mutual(X)", "Friend(X, _)"), res)
	assert.True(t, IsCompileError(err, ErrCodeArityMismatch))

	_, err = Compile(mkRule(t, "r", "Mutual(X, Y)", "Friend(X, Y, Z)"), res)
	assert.True(t, IsCompileError(err, ErrCodeArityMismatch))
}

func TestCompile_EmptyBody(t *testing.T) {
	res := socialWorld(t)
	_, err := Compile(mkRule(t, "r", "Mutual(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeEmptyBody))
}

func TestCompile_UnsafeHeadVariable(t *testing.T) {
	res := socialWorld(t)

	_, err := Compile(mkRule(t, "r", "Mutual(X, Z)", "Friend(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnsafeHeadVariable))

	// Wildcard heads are never safe.
	_, err = Compile(mkRule(t, "r", "Mutual(X, _)", "Friend(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnsafeHeadVariable))

	// A variable appearing only under negation does not count.
	_, err = Compile(mkRule(t, "r", "Mutual(X, Y)", "Friend(X, X)", "!Friend(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnboundNegation))
}

func TestCompile_UnboundNegation(t *testing.T) {
	res := socialWorld(t)

	_, err := Compile(mkRule(t, "r", "Mutual(X, Y)", "!Friend(X, Y)", "Friend(X, Y)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnboundNegation))

	// Wildcards under negation are unbound by definition.
	_, err = Compile(mkRule(t, "r", "OneWay(X, Y)", "Friend(X, Y)", "!Friend(Y, _)"), res)
	assert.True(t, IsCompileError(err, ErrCodeUnboundNegation))
}

func TestCompile_ValidRule(t *testing.T) {
	res := socialWorld(t)
	cr, err := Compile(mkRule(t, "mutual", "Mutual(X, Y)", "Friend(X, Y)", "Friend(Y, X)"), res)
	require.NoError(t, err)
	assert.Same(t, res["Mutual"], cr.Head())
}

func TestDefinition_Join(t *testing.T) {
	res := socialWorld(t)
	cr, err := Compile(mkRule(t, "mutual", "Mutual(X, Y)", "Friend(X, Y)", "Friend(Y, X)"), res)
	require.NoError(t, err)

	got, err := Definition([]*CompiledRule{cr})()
	require.NoError(t, err)
	assert.Equal(t, []string{"(alice, bob)", "(bob, alice)"}, rows(got))
}

func TestDefinition_Negation(t *testing.T) {
	res := socialWorld(t)
	cr, err := Compile(mkRule(t, "one_way", "OneWay(X, Y)", "Friend(X, Y)", "!Friend(Y, X)"), res)
	require.NoError(t, err)

	got, err := Definition([]*CompiledRule{cr})()
	require.NoError(t, err)
	assert.Equal(t, []string{"(bob, carol)"}, rows(got))
}

func TestDefinition_ConstantsInBody(t *testing.T) {
	res := socialWorld(t)
	cr, err := Compile(mkRule(t, "of_bob", "OneWay(bob, Y)", "Friend(bob, Y)"), res)
	require.NoError(t, err)

	got, err := Definition([]*CompiledRule{cr})()
	require.NoError(t, err)
	assert.Equal(t, []string{"(bob, alice)", "(bob, carol)"}, rows(got))
}

func TestDefinition_DeduplicatesByCanonicalKey(t *testing.T) {
	res := socialWorld(t)
	// X joins to both alice and carol via bob, deriving (bob) twice.
	source, err := table.NewIntensional(nil, "Social", 1)
	require.NoError(t, err)
	res["Social"] = source

	cr, err := Compile(mkRule(t, "social", "Social(X)", "Friend(X, Y)"), res)
	require.NoError(t, err)

	got, err := Definition([]*CompiledRule{cr})()
	require.NoError(t, err)
	assert.Equal(t, []string{"(alice)", "(bob)"}, rows(got))
}

func TestDefinition_MultiRuleFirstDerivationOrder(t *testing.T) {
	res := socialWorld(t)
	r1, err := Compile(mkRule(t, "direct", "Mutual(X, Y)", "Friend(X, Y)"), res)
	require.NoError(t, err)
	r2, err := Compile(mkRule(t, "flipped", "Mutual(Y, X)", "Friend(X, Y)"), res)
	require.NoError(t, err)

	got, err := Definition([]*CompiledRule{r1, r2})()
	require.NoError(t, err)

	// Rule order then row order; the second rule's rederivations of
	// the first rule's rows are suppressed.
	assert.Equal(t, []string{
		"(alice, bob)", "(bob, alice)", "(bob, carol)",
		"(carol, bob)",
	}, rows(got))
}

func TestDefinition_MixedHeadsPanics(t *testing.T) {
	res := socialWorld(t)
	r1, err := Compile(mkRule(t, "a", "Mutual(X, Y)", "Friend(X, Y)"), res)
	require.NoError(t, err)
	r2, err := Compile(mkRule(t, "b", "OneWay(X, Y)", "Friend(X, Y)"), res)
	require.NoError(t, err)

	assert.Panics(t, func() { Definition([]*CompiledRule{r1, r2}) })
}

func TestDefinition_SelfRecursionReportsCycle(t *testing.T) {
	res := socialWorld(t)
	self := res["Mutual"]
	cr, err := Compile(mkRule(t, "loop", "Mutual(X, Y)", "Mutual(X, Y)"), res)
	require.NoError(t, err)
	require.NoError(t, self.SetDefinition(Definition([]*CompiledRule{cr})))

	self.MarkDirty()
	err = self.EnsureCurrent()
	var cycle *table.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "Mutual", cycle.Relation)
}
