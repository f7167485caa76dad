package table

import "fmt"

// CycleError reports that recomputing a relation re-entered itself,
// directly or through a chain of dependent relations. EnsureCurrent
// is not a fixpoint operator; recursive rule sets are refused rather
// than looped.
type CycleError struct {
	Relation string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: recompute of %q re-entered itself", e.Relation)
}

// QuotaError reports that a relation exceeded its configured row
// limit. The limit bounds runaway rule production; it is set by the
// owning scheduler at registration.
type QuotaError struct {
	Relation string
	Limit    int
	Rows     int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("relation %q exceeded row quota (%d > %d)", e.Relation, e.Rows, e.Limit)
}

// ArityError reports a tuple whose width does not match the relation.
type ArityError struct {
	Relation string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("relation %q has arity %d, got tuple of arity %d", e.Relation, e.Want, e.Got)
}

// KindError reports an operation applied to the wrong relation kind,
// e.g. enqueueing facts into an intensional relation.
type KindError struct {
	Relation string
	Op       string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s is not valid for relation %q of this kind", e.Op, e.Relation)
}

// MissingDefinitionError reports an intensional relation asked to
// recompute before a definition was installed.
type MissingDefinitionError struct {
	Relation string
}

func (e *MissingDefinitionError) Error() string {
	return fmt.Sprintf("intensional relation %q has no definition", e.Relation)
}
