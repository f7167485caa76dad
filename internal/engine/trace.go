package engine

// TraceEventType distinguishes trace event kinds.
type TraceEventType string

const (
	// TraceRecompute records one intensional relation's repopulation.
	TraceRecompute TraceEventType = "recompute"
	// TraceAppend records one extensional relation's input append.
	TraceAppend TraceEventType = "append"
)

// TraceEvent records one phase step of a tick for one relation.
// Events appear in the order the scheduler performed them; the
// sequence is fully deterministic for a given program and input.
type TraceEvent struct {
	Type     TraceEventType `json:"type"`
	Relation string         `json:"relation"`

	// Rows is the relation's row count after the step.
	Rows int `json:"rows"`

	// Delta is the number of rows the step produced: derived rows for
	// a recompute, appended facts for an append.
	Delta int `json:"delta"`
}

// TickTrace is the full record of one tick: all recompute events,
// then all append events, in scheduler order.
type TickTrace struct {
	RunToken string       `json:"run_token"`
	Tick     int64        `json:"tick"`
	Events   []TraceEvent `json:"events"`
}
