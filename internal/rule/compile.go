package rule

import (
	"fmt"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/call"
	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// Resolver maps predicate names to registered relations. Implemented
// by the engine's Scheduler.
type Resolver interface {
	Relation(name string) (*table.Relation, bool)
}

// CompiledRule is a validated rule bound to concrete relations, with
// binding modes precomputed for each body literal.
type CompiledRule struct {
	src  Rule
	head *table.Relation
	body []call.Goal

	// modes[i] is the set of variable names bound before body literal
	// i runs, under left-to-right evaluation.
	modes []map[string]bool
}

// Head returns the relation this rule derives into.
func (cr *CompiledRule) Head() *table.Relation {
	return cr.head
}

// Compile validates a rule against the resolver's relations.
//
// Checks, all malformed-program (fail-fast, construction-time):
//   - head and body predicates resolve, with matching arities
//   - the head relation is intensional
//   - the body is non-empty
//   - negated literals are ground under left-to-right modes (every
//     argument a constant or a variable bound by an earlier positive
//     literal; wildcards are never bound)
//   - every head variable is bound by a positive body literal
func Compile(r Rule, res Resolver) (*CompiledRule, error) {
	head, ok := res.Relation(r.Head.Pred)
	if !ok {
		return nil, &CompileError{Code: ErrCodeUnknownPredicate, Rule: r.Name,
			Message: fmt.Sprintf("head predicate %q is not a registered relation", r.Head.Pred)}
	}
	if head.Kind() != table.Intensional {
		return nil, &CompileError{Code: ErrCodeExtensionalHead, Rule: r.Name,
			Message: fmt.Sprintf("rules may only derive intensional relations; %q is %s", head.Name(), head.Kind())}
	}
	if len(r.Head.Args) != head.Arity() {
		return nil, &CompileError{Code: ErrCodeArityMismatch, Rule: r.Name,
			Message: fmt.Sprintf("head %s has %d arguments, relation arity is %d", r.Head.Pred, len(r.Head.Args), head.Arity())}
	}
	if len(r.Body) == 0 {
		return nil, &CompileError{Code: ErrCodeEmptyBody, Rule: r.Name,
			Message: "rule body is empty"}
	}

	cr := &CompiledRule{
		src:   r,
		head:  head,
		body:  make([]call.Goal, len(r.Body)),
		modes: make([]map[string]bool, len(r.Body)),
	}

	bound := make(map[string]bool)
	for i, lit := range r.Body {
		rel, ok := res.Relation(lit.Pred)
		if !ok {
			return nil, &CompileError{Code: ErrCodeUnknownPredicate, Rule: r.Name,
				Message: fmt.Sprintf("body predicate %q is not a registered relation", lit.Pred)}
		}
		if len(lit.Args) != rel.Arity() {
			return nil, &CompileError{Code: ErrCodeArityMismatch, Rule: r.Name,
				Message: fmt.Sprintf("body atom %s has %d arguments, relation arity is %d", lit.Pred, len(lit.Args), rel.Arity())}
		}

		// Snapshot the modes in force when this literal runs.
		cr.modes[i] = cloneSet(bound)
		cr.body[i] = call.Goal{Relation: rel, Args: lit.Args, Negated: lit.Negated}

		if lit.Negated {
			for _, a := range lit.Args {
				v, isVar := a.(term.Variable)
				if !isVar {
					continue
				}
				if v.Anonymous() || !bound[v.Name] {
					return nil, &CompileError{Code: ErrCodeUnboundNegation, Rule: r.Name,
						Message: fmt.Sprintf("negated literal !%s has unbound argument %s", lit.Pred, term.TermString(a))}
				}
			}
			continue
		}

		// A positive literal binds its variables for everything after.
		for _, a := range lit.Args {
			if v, isVar := a.(term.Variable); isVar && !v.Anonymous() {
				bound[v.Name] = true
			}
		}
	}

	for _, a := range r.Head.Args {
		if v, isVar := a.(term.Variable); isVar {
			if v.Anonymous() {
				return nil, &CompileError{Code: ErrCodeUnsafeHeadVariable, Rule: r.Name,
					Message: "head arguments may not be the wildcard"}
			}
			if !bound[v.Name] {
				return nil, &CompileError{Code: ErrCodeUnsafeHeadVariable, Rule: r.Name,
					Message: fmt.Sprintf("head variable %s is not bound by any positive body literal", v.Name)}
			}
		}
	}

	return cr, nil
}

// Definition assembles the defining computation for one intensional
// relation from its compiled rules, in declaration order. Derived
// rows come out in first-derivation order; a row derived again (by
// the same or a later rule) is suppressed.
//
// All rules must share the same head relation; Definition panics
// otherwise, since that is a wiring bug in the program builder, not a
// user program error.
func Definition(rules []*CompiledRule) table.Definition {
	for _, cr := range rules[1:] {
		if cr.head != rules[0].head {
			panic("rule.Definition: rules with mixed head relations")
		}
	}
	return func() ([]term.Tuple, error) {
		var out []term.Tuple
		seen := make(map[string]struct{})
		for _, cr := range rules {
			if err := cr.evaluate(func(t term.Tuple) {
				key := t.Canonical()
				if _, dup := seen[key]; dup {
					return
				}
				seen[key] = struct{}{}
				out = append(out, t)
			}); err != nil {
				return nil, fmt.Errorf("rule %s: %w", cr.src.Name, err)
			}
		}
		return out, nil
	}
}

// evaluate runs the rule's body as a depth-first backtracking join
// and emits one head tuple per solution.
//
// Calls are constructed fresh for each evaluation (calls are one
// recompute's cursors, discarded after use); construction makes every
// scanned relation current first, which is where recursive dependency
// recompute happens.
func (cr *CompiledRule) evaluate(emit func(term.Tuple)) error {
	st := binding.NewStore()
	calls := make([]call.Call, len(cr.body))
	for i, g := range cr.body {
		c, err := call.Build(g, cr.modes[i], st)
		if err != nil {
			return err
		}
		calls[i] = c
	}

	depth := 0
	calls[0].Reset()
	for depth >= 0 {
		if !calls[depth].NextSolution() {
			depth--
			continue
		}
		if depth < len(calls)-1 {
			depth++
			calls[depth].Reset()
			continue
		}
		emit(cr.project(st))
	}
	return nil
}

// project materializes the head tuple under the current bindings.
// Safety validation guarantees every head variable is bound here.
func (cr *CompiledRule) project(st *binding.Store) term.Tuple {
	out := make(term.Tuple, len(cr.src.Head.Args))
	for i, a := range cr.src.Head.Args {
		v, ok := st.Resolve(a)
		if !ok {
			panic(fmt.Sprintf("rule %s: head argument %s unbound at projection", cr.src.Name, term.TermString(a)))
		}
		out[i] = v
	}
	return out
}

func cloneSet(s map[string]bool) map[string]bool {
	c := make(map[string]bool, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
