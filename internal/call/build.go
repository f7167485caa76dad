package call

import (
	"errors"
	"fmt"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// Goal is one predicate application: a relation and its argument
// terms, optionally negated.
type Goal struct {
	Relation *table.Relation
	Args     []term.Term
	Negated  bool
}

// BuildErrorCode categorizes malformed-goal errors.
type BuildErrorCode string

const (
	// ErrCodeArityMismatch indicates the argument count does not match
	// the relation's arity.
	ErrCodeArityMismatch BuildErrorCode = "ARITY_MISMATCH"

	// ErrCodeNonGroundNegation indicates a negated goal with an
	// argument that is neither a constant nor a bound variable.
	ErrCodeNonGroundNegation BuildErrorCode = "NON_GROUND_NEGATION"

	// ErrCodeNilRelation indicates a goal with no relation attached.
	ErrCodeNilRelation BuildErrorCode = "NIL_RELATION"
)

// BuildError is a malformed-program error raised at call construction,
// before any solving begins. Always fatal to the construction attempt.
type BuildError struct {
	Code     BuildErrorCode
	Relation string
	Message  string
}

func (e *BuildError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("%s: %s (relation=%s)", e.Code, e.Message, e.Relation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsBuildError reports whether err is a BuildError with the given
// code. Handles wrapped errors.
func IsBuildError(err error, code BuildErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Build constructs the concrete call for a goal.
//
// bound is the compile-time binding-mode result: the set of variable
// names already bound when this goal runs (its producer tracks
// left-to-right binding through the enclosing rule body). Structural
// validation happens here, fail-fast: arity mismatch and negation of
// a non-ground goal are construction errors, never solve-time ones.
//
// Build also makes the scanned relation current, recursively forcing
// any dirty relations its definition reads. Rows are then stable for
// the lifetime of the constructed call (the recompute phase never
// mutates a current relation).
//
// Strategy choice: the indexed scan is used when a declared index's
// columns are all bound in the argument pattern (preferring the widest
// such index); otherwise the exhaustive scan. Both produce identical
// solution sets and order.
func Build(g Goal, bound map[string]bool, st *binding.Store) (Call, error) {
	if g.Relation == nil {
		return nil, &BuildError{Code: ErrCodeNilRelation, Message: "goal has no relation"}
	}
	if len(g.Args) != g.Relation.Arity() {
		return nil, &BuildError{
			Code:     ErrCodeArityMismatch,
			Relation: g.Relation.Name(),
			Message:  fmt.Sprintf("relation has arity %d, goal has %d arguments", g.Relation.Arity(), len(g.Args)),
		}
	}

	boundPos := boundPositions(g.Args, bound)

	if g.Negated {
		for i, a := range g.Args {
			if !boundPos[i] {
				return nil, &BuildError{
					Code:     ErrCodeNonGroundNegation,
					Relation: g.Relation.Name(),
					Message:  fmt.Sprintf("cannot negate goal with unbound argument %s at position %d", term.TermString(a), i),
				}
			}
		}
	}

	if err := g.Relation.EnsureCurrent(); err != nil {
		return nil, fmt.Errorf("build call for %s: %w", g.Relation.Name(), err)
	}

	var c Call
	if idx := g.Relation.BestIndex(boundPos); idx != nil {
		c = newIndexedScan(g.Relation, g.Args, st, idx)
	} else {
		c = newExhaustiveScan(g.Relation, g.Args, st)
	}
	if g.Negated {
		c = newNegationCall(c, st)
	}
	return c, nil
}

// boundPositions returns the argument positions that hold a constant
// or an already-bound variable. Wildcards are never bound.
func boundPositions(args []term.Term, bound map[string]bool) map[int]bool {
	pos := make(map[int]bool, len(args))
	for i, a := range args {
		switch t := a.(type) {
		case term.Constant:
			pos[i] = true
		case term.Variable:
			if !t.Anonymous() && bound[t.Name] {
				pos[i] = true
			}
		}
	}
	return pos
}
