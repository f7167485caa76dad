package table

import "github.com/ianhorswill/ted/internal/term"

// Kind distinguishes stored from derived relations.
type Kind int

const (
	// Extensional relations hold stored facts, changed only by the
	// per-tick input append.
	Extensional Kind = iota + 1
	// Intensional relations hold derived rows, repopulated by their
	// definition whenever dirty.
	Intensional
)

func (k Kind) String() string {
	switch k {
	case Extensional:
		return "extensional"
	case Intensional:
		return "intensional"
	default:
		return "invalid"
	}
}

// Registry is where a relation registers at construction. Implemented
// by the engine's Scheduler. A relation belongs to exactly one
// registry for its whole life; the registry is passed explicitly by
// the creator rather than captured from ambient process state, so
// multiple schedulers can coexist.
type Registry interface {
	Register(r *Relation) error
}

// Definition is the externally supplied computation that repopulates
// an intensional relation. It is built (by the rule compiler) from
// calls scanning other relations, and must return the full derived
// row set in enumeration order.
type Definition func() ([]term.Tuple, error)

// Relation is one named predicate's materialized extension.
type Relation struct {
	name  string
	arity int
	kind  Kind

	rows    []term.Tuple
	indexes []*Index

	// Intensional state. dirty means rows may not reflect current
	// extensional data; recomputing guards against definition
	// recursion re-entering this relation.
	dirty       bool
	recomputing bool
	def         Definition

	// Extensional state.
	pending *pendingQueue

	// maxRows bounds the row count when > 0. Set by the owning
	// scheduler at registration.
	maxRows int
}

// NewExtensional creates a stored-fact relation and registers it.
// A nil registry leaves the relation unregistered (tests, scratch use).
func NewExtensional(reg Registry, name string, arity int) (*Relation, error) {
	r := &Relation{
		name:    name,
		arity:   arity,
		kind:    Extensional,
		pending: newPendingQueue(),
	}
	if reg != nil {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewIntensional creates a derived relation and registers it. The
// definition is installed separately (SetDefinition) because rule
// compilation needs the full relation set to resolve body predicates.
// A new intensional relation starts dirty: it has never been computed.
func NewIntensional(reg Registry, name string, arity int) (*Relation, error) {
	r := &Relation{
		name:  name,
		arity: arity,
		kind:  Intensional,
		dirty: true,
	}
	if reg != nil {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the predicate name.
func (r *Relation) Name() string { return r.name }

// Arity returns the column count.
func (r *Relation) Arity() int { return r.arity }

// Kind returns Extensional or Intensional.
func (r *Relation) Kind() Kind { return r.kind }

// Dirty reports whether an intensional relation needs recompute.
// Always false for extensional relations, which are current by
// construction.
func (r *Relation) Dirty() bool { return r.dirty }

// Len returns the current row count.
func (r *Relation) Len() int { return len(r.rows) }

// RowAt returns the row at storage position i. The returned tuple is
// shared; callers must not mutate it.
func (r *Relation) RowAt(i int) term.Tuple { return r.rows[i] }

// Rows returns the row sequence in storage order. Shared, read-only.
func (r *Relation) Rows() []term.Tuple { return r.rows }

// SetDefinition installs the defining computation of an intensional
// relation. Calling it on an extensional relation is a setup bug and
// is reported immediately.
func (r *Relation) SetDefinition(def Definition) error {
	if r.kind != Intensional {
		return &KindError{Relation: r.name, Op: "SetDefinition"}
	}
	r.def = def
	return nil
}

// LimitRows bounds the relation's row count. Zero means unlimited.
// Called by the owning scheduler at registration.
func (r *Relation) LimitRows(n int) { r.maxRows = n }

// MarkDirty flags an intensional relation for recompute. No effect on
// extensional relations, which carry no dirty flag. Only the owning
// scheduler calls this.
func (r *Relation) MarkDirty() {
	if r.kind == Intensional {
		r.dirty = true
	}
}

// EnsureCurrent makes the relation's rows current.
//
// For a dirty intensional relation this runs the definition and
// replaces the row sequence; the definition's own scans recursively
// ensure the relations they read. Once not dirty (and always for
// extensional relations) it is a no-op, so redundant invocation in
// registration order is safe.
//
// A recompute that re-enters itself through its own definition is a
// dependency cycle and fails fast.
func (r *Relation) EnsureCurrent() error {
	if r.kind != Intensional || !r.dirty {
		return nil
	}
	if r.recomputing {
		return &CycleError{Relation: r.name}
	}
	if r.def == nil {
		return &MissingDefinitionError{Relation: r.name}
	}

	r.recomputing = true
	defer func() { r.recomputing = false }()

	rows, err := r.def()
	if err != nil {
		return err
	}
	if r.maxRows > 0 && len(rows) > r.maxRows {
		return &QuotaError{Relation: r.name, Limit: r.maxRows, Rows: len(rows)}
	}
	for _, row := range rows {
		if len(row) != r.arity {
			return &ArityError{Relation: r.name, Want: r.arity, Got: len(row)}
		}
	}

	r.rows = rows
	for _, x := range r.indexes {
		x.rebuild(rows)
	}
	r.dirty = false
	return nil
}

// Enqueue queues a fact for appension at the end of the current (or
// next) tick. This is the external writer's entry point and is safe
// from any goroutine. Arity and kind are misuse-checked here, at the
// call site, so the single-threaded append step cannot fail on bad
// input shape.
func (r *Relation) Enqueue(t term.Tuple) error {
	if r.kind != Extensional {
		return &KindError{Relation: r.name, Op: "Enqueue"}
	}
	if len(t) != r.arity {
		return &ArityError{Relation: r.name, Want: r.arity, Got: len(t)}
	}
	r.pending.enqueue(t)
	return nil
}

// PendingLen returns the number of queued, not yet appended facts.
func (r *Relation) PendingLen() int {
	if r.pending == nil {
		return 0
	}
	return r.pending.size()
}

// AppendPendingInputs drains the pending queue and appends each fact
// as a new row, preserving arrival order. No-op for intensional
// relations. Returns the number of rows appended.
func (r *Relation) AppendPendingInputs() (int, error) {
	if r.kind != Extensional {
		return 0, nil
	}
	drained := r.pending.drain()
	if len(drained) == 0 {
		return 0, nil
	}
	if r.maxRows > 0 && len(r.rows)+len(drained) > r.maxRows {
		return 0, &QuotaError{Relation: r.name, Limit: r.maxRows, Rows: len(r.rows) + len(drained)}
	}
	for _, t := range drained {
		pos := len(r.rows)
		r.rows = append(r.rows, t)
		for _, x := range r.indexes {
			x.add(pos, t)
		}
	}
	return len(drained), nil
}

// Insert appends a fact directly, bypassing the pending queue. Setup
// only: seeding initial extensional facts before the first tick, and
// snapshot restore. During a run all input goes through Enqueue.
func (r *Relation) Insert(t term.Tuple) error {
	if r.kind != Extensional {
		return &KindError{Relation: r.name, Op: "Insert"}
	}
	if len(t) != r.arity {
		return &ArityError{Relation: r.name, Want: r.arity, Got: len(t)}
	}
	if r.maxRows > 0 && len(r.rows)+1 > r.maxRows {
		return &QuotaError{Relation: r.name, Limit: r.maxRows, Rows: len(r.rows) + 1}
	}
	pos := len(r.rows)
	r.rows = append(r.rows, t)
	for _, x := range r.indexes {
		x.add(pos, t)
	}
	return nil
}
