package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianhorswill/ted/internal/term"
)

func tup(vals ...term.Value) term.Tuple { return term.Tuple(vals) }

func sym(s string) term.Value { return term.Symbol(s) }

// recordingRegistry captures registration calls.
type recordingRegistry struct {
	registered []*Relation
	fail       error
}

func (r *recordingRegistry) Register(rel *Relation) error {
	if r.fail != nil {
		return r.fail
	}
	r.registered = append(r.registered, rel)
	return nil
}

func TestNewExtensional_Registers(t *testing.T) {
	reg := &recordingRegistry{}
	rel, err := NewExtensional(reg, "Edge", 2)
	require.NoError(t, err)

	require.Len(t, reg.registered, 1)
	assert.Same(t, rel, reg.registered[0])
	assert.Equal(t, Extensional, rel.Kind())
	assert.False(t, rel.Dirty())
}

func TestNewIntensional_StartsDirty(t *testing.T) {
	rel, err := NewIntensional(nil, "Path", 2)
	require.NoError(t, err)
	assert.Equal(t, Intensional, rel.Kind())
	assert.True(t, rel.Dirty())
}

func TestInsert_AppendsInOrder(t *testing.T) {
	rel, err := NewExtensional(nil, "Edge", 2)
	require.NoError(t, err)

	require.NoError(t, rel.Insert(tup(sym("a"), sym("b"))))
	require.NoError(t, rel.Insert(tup(sym("b"), sym("c"))))

	require.Equal(t, 2, rel.Len())
	assert.Equal(t, "(a, b)", rel.RowAt(0).Canonical())
	assert.Equal(t, "(b, c)", rel.RowAt(1).Canonical())
}

func TestInsert_ChecksArityAndKind(t *testing.T) {
	ext, _ := NewExtensional(nil, "Edge", 2)
	err := ext.Insert(tup(sym("a")))
	var arityErr *ArityError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, 2, arityErr.Want)

	intn, _ := NewIntensional(nil, "Path", 2)
	err = intn.Insert(tup(sym("a"), sym("b")))
	var kindErr *KindError
	require.ErrorAs(t, err, &kindErr)
}

func TestEnqueue_DoesNotAppendUntilDrained(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)
	require.NoError(t, rel.Enqueue(tup(sym("a"), sym("b"))))

	assert.Equal(t, 0, rel.Len())
	assert.Equal(t, 1, rel.PendingLen())

	n, err := rel.AppendPendingInputs()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, rel.Len())
	assert.Equal(t, 0, rel.PendingLen())
}

func TestEnqueue_MisuseCheckedAtCallSite(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)

	var arityErr *ArityError
	require.ErrorAs(t, rel.Enqueue(tup(sym("a"))), &arityErr)

	intn, _ := NewIntensional(nil, "Path", 2)
	var kindErr *KindError
	require.ErrorAs(t, intn.Enqueue(tup(sym("a"), sym("b"))), &kindErr)
}

func TestAppendPendingInputs_PreservesArrivalOrder(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 1)
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, rel.Enqueue(tup(sym(s))))
	}

	n, err := rel.AppendPendingInputs()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "(a)", rel.RowAt(0).Canonical())
	assert.Equal(t, "(b)", rel.RowAt(1).Canonical())
	assert.Equal(t, "(c)", rel.RowAt(2).Canonical())
}

func TestEnqueue_SafeFromManyGoroutines(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = rel.Enqueue(tup(sym("x")))
			}
		}()
	}
	wg.Wait()

	n, err := rel.AppendPendingInputs()
	require.NoError(t, err)
	assert.Equal(t, 800, n)
}

func TestEnsureCurrent_RunsDefinitionWhenDirty(t *testing.T) {
	rel, _ := NewIntensional(nil, "Path", 1)
	runs := 0
	require.NoError(t, rel.SetDefinition(func() ([]term.Tuple, error) {
		runs++
		return []term.Tuple{tup(sym("a"))}, nil
	}))

	require.NoError(t, rel.EnsureCurrent())
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, rel.Len())
	assert.False(t, rel.Dirty())

	// Clean: no-op.
	require.NoError(t, rel.EnsureCurrent())
	assert.Equal(t, 1, runs)

	// Dirty again: recomputes and replaces.
	rel.MarkDirty()
	require.NoError(t, rel.EnsureCurrent())
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, rel.Len())
}

func TestEnsureCurrent_NoOpForExtensional(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 1)
	rel.MarkDirty() // no effect on extensional
	assert.False(t, rel.Dirty())
	require.NoError(t, rel.EnsureCurrent())
}

func TestEnsureCurrent_MissingDefinition(t *testing.T) {
	rel, _ := NewIntensional(nil, "Path", 1)
	var missing *MissingDefinitionError
	require.ErrorAs(t, rel.EnsureCurrent(), &missing)
	assert.Equal(t, "Path", missing.Relation)
}

func TestEnsureCurrent_DetectsCycle(t *testing.T) {
	rel, _ := NewIntensional(nil, "Path", 1)
	var got error
	require.NoError(t, rel.SetDefinition(func() ([]term.Tuple, error) {
		// A self-referential rule body would re-enter through its scan.
		got = rel.EnsureCurrent()
		return nil, got
	}))

	err := rel.EnsureCurrent()
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "Path", cycle.Relation)
	require.ErrorAs(t, got, &cycle)
}

func TestEnsureCurrent_QuotaExceeded(t *testing.T) {
	rel, _ := NewIntensional(nil, "Blowup", 1)
	rel.LimitRows(2)
	require.NoError(t, rel.SetDefinition(func() ([]term.Tuple, error) {
		return []term.Tuple{tup(sym("a")), tup(sym("b")), tup(sym("c"))}, nil
	}))

	err := rel.EnsureCurrent()
	var quota *QuotaError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 2, quota.Limit)
	assert.Equal(t, 3, quota.Rows)

	// Failed recompute leaves the relation dirty.
	assert.True(t, rel.Dirty())
}

func TestEnsureCurrent_RejectsWrongArityRows(t *testing.T) {
	rel, _ := NewIntensional(nil, "Path", 2)
	require.NoError(t, rel.SetDefinition(func() ([]term.Tuple, error) {
		return []term.Tuple{tup(sym("a"))}, nil
	}))

	var arityErr *ArityError
	require.ErrorAs(t, rel.EnsureCurrent(), &arityErr)
}

func TestSetDefinition_ExtensionalRefused(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 2)
	var kindErr *KindError
	require.ErrorAs(t, rel.SetDefinition(func() ([]term.Tuple, error) { return nil, nil }), &kindErr)
}

func TestAppendPendingInputs_QuotaExceeded(t *testing.T) {
	rel, _ := NewExtensional(nil, "Edge", 1)
	rel.LimitRows(1)
	require.NoError(t, rel.Enqueue(tup(sym("a"))))
	require.NoError(t, rel.Enqueue(tup(sym("b"))))

	_, err := rel.AppendPendingInputs()
	var quota *QuotaError
	require.ErrorAs(t, err, &quota)
}
