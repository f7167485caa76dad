package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ianhorswill/ted/internal/table"
)

// DefaultMaxRows is the default per-relation row quota. It bounds
// runaway rule production; a simulation that legitimately needs more
// rows raises it with WithMaxRows.
const DefaultMaxRows = 100000

// Scheduler owns the relations of one simulation instance and drives
// the per-tick recompute/append cycle.
//
// Relations register at construction, passing the scheduler
// explicitly; there is no ambient "current instance", so multiple
// schedulers coexist safely. Registration order is preserved and is
// the deterministic visit order for both tick phases. It is not a
// dependency order: EnsureCurrent recurses through scans, and is
// idempotent once clean, so visiting each relation at least once
// suffices.
//
// INVARIANTS:
//   - relations slice order NEVER changes after registration
//   - relation names are unique
//   - only the scheduler touches dirty flags and triggers row mutation
type Scheduler struct {
	clock     *Clock
	relations []*table.Relation
	byName    map[string]*table.Relation
	runToken  string
	maxRows   int
}

// Option configures a Scheduler.
type Option func(*schedulerConfig)

type schedulerConfig struct {
	maxRows  int
	tokenGen RunTokenGenerator
	clock    *Clock
}

// WithMaxRows sets the per-relation row quota. Zero disables the
// quota entirely.
func WithMaxRows(n int) Option {
	return func(c *schedulerConfig) {
		c.maxRows = n
	}
}

// WithTokenGenerator overrides the run token generator. Tests pass a
// FixedGenerator for deterministic golden traces.
func WithTokenGenerator(g RunTokenGenerator) Option {
	return func(c *schedulerConfig) {
		c.tokenGen = g
	}
}

// WithClock installs a pre-positioned clock, for resuming a run from
// a snapshot's tick.
func WithClock(clock *Clock) Option {
	return func(c *schedulerConfig) {
		c.clock = clock
	}
}

// New creates an empty scheduler. Relations are added by constructing
// them with this scheduler as their registry.
func New(opts ...Option) *Scheduler {
	cfg := schedulerConfig{
		maxRows:  DefaultMaxRows,
		tokenGen: UUIDv7Generator{},
		clock:    NewClock(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scheduler{
		clock:    cfg.clock,
		byName:   make(map[string]*table.Relation),
		runToken: cfg.tokenGen.Generate(),
		maxRows:  cfg.maxRows,
	}
}

// Register adds a relation to this scheduler. Called by the relation
// constructors; names must be unique.
func (s *Scheduler) Register(r *table.Relation) error {
	if _, dup := s.byName[r.Name()]; dup {
		return &RuntimeError{
			Code:     ErrCodeDuplicateRelation,
			Relation: r.Name(),
			Message:  "relation name already registered",
		}
	}
	r.LimitRows(s.maxRows)
	s.byName[r.Name()] = r
	s.relations = append(s.relations, r)
	return nil
}

// Relation resolves a registered relation by name. Satisfies the rule
// compiler's Resolver.
func (s *Scheduler) Relation(name string) (*table.Relation, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Relations returns the registered relations in registration order.
// Shared, read-only.
func (s *Scheduler) Relations() []*table.Relation {
	return s.relations
}

// RunToken returns the token identifying this run.
func (s *Scheduler) RunToken() string {
	return s.runToken
}

// Tick returns the number of the most recently completed tick.
func (s *Scheduler) Tick() int64 {
	return s.clock.Current()
}

// RecomputeAll marks every intensional relation dirty, then ensures
// every relation current in registration order. A full forced
// recompute every tick: simplicity over incrementality is the
// deliberate tradeoff - no dependency diffing is attempted.
//
// On success every intensional dirty flag is false and no extensional
// row has changed. Returns the recompute trace events in visit order.
func (s *Scheduler) RecomputeAll() ([]TraceEvent, error) {
	for _, r := range s.relations {
		r.MarkDirty()
	}

	for _, r := range s.relations {
		if err := r.EnsureCurrent(); err != nil {
			return nil, &RuntimeError{
				Code:     ErrCodeRecomputeFailed,
				Relation: r.Name(),
				Tick:     s.clock.Current(),
				Message:  "recompute failed",
				Err:      err,
			}
		}
	}

	// Events are reported in registration order, one per intensional
	// relation. A relation forced early through dependency recursion
	// still reports here - the trace reflects what was recomputed,
	// not the recursion shape.
	var events []TraceEvent
	for _, r := range s.relations {
		if r.Kind() != table.Intensional {
			continue
		}
		events = append(events, TraceEvent{
			Type:     TraceRecompute,
			Relation: r.Name(),
			Rows:     r.Len(),
			Delta:    r.Len(),
		})
	}
	return events, nil
}

// AppendAllInputs drains every extensional relation's pending queue
// in registration order, appending facts in arrival order. Order
// across relations is not semantically significant; order within one
// relation's queue is preserved. Returns one append event per
// relation that admitted facts.
func (s *Scheduler) AppendAllInputs() ([]TraceEvent, error) {
	var events []TraceEvent
	for _, r := range s.relations {
		n, err := r.AppendPendingInputs()
		if err != nil {
			return nil, &RuntimeError{
				Code:     ErrCodeAppendFailed,
				Relation: r.Name(),
				Tick:     s.clock.Current(),
				Message:  "input append failed",
				Err:      err,
			}
		}
		if n > 0 {
			events = append(events, TraceEvent{
				Type:     TraceAppend,
				Relation: r.Name(),
				Rows:     r.Len(),
				Delta:    n,
			})
		}
	}
	return events, nil
}

// RunTick runs one tick: RecomputeAll, then AppendAllInputs, strictly
// in that order, never interleaved. Derived relations for this tick
// are therefore computed from extensional data as it stood at the end
// of the previous tick; facts admitted now become visible to the next
// tick's recompute.
func (s *Scheduler) RunTick() (TickTrace, error) {
	tick := s.clock.Next()
	trace := TickTrace{RunToken: s.runToken, Tick: tick}

	recompute, err := s.RecomputeAll()
	if err != nil {
		return trace, err
	}
	appended, err := s.AppendAllInputs()
	if err != nil {
		return trace, err
	}

	trace.Events = append(recompute, appended...)
	slog.Debug("tick complete",
		"run", s.runToken,
		"tick", tick,
		"recomputed", len(recompute),
		"appended", len(appended))
	return trace, nil
}

// Run drives n ticks, checking ctx between ticks. Cancellation is
// cooperative: a tick in progress always completes.
func (s *Scheduler) Run(ctx context.Context, n int) ([]TickTrace, error) {
	traces := make([]TickTrace, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return traces, fmt.Errorf("run interrupted after %d ticks: %w", i, err)
		}
		t, err := s.RunTick()
		if err != nil {
			return traces, err
		}
		traces = append(traces, t)
	}
	return traces, nil
}
