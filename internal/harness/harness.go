package harness

import (
	"fmt"

	"github.com/ianhorswill/ted/internal/engine"
	"github.com/ianhorswill/ted/internal/program"
)

// defaultRunToken keeps golden files stable when a scenario does not
// pin its own token.
const defaultRunToken = "run-test-default"

// Result captures a scenario execution: the per-tick traces, the final
// relation contents, and any assertion failures.
type Result struct {
	RunToken string
	Traces   []engine.TickTrace
	Final    []RelationState
	Errors   []string
}

// RelationState is one relation's final content in canonical tuple form.
type RelationState struct {
	Relation string   `json:"relation"`
	Kind     string   `json:"kind"`
	Rows     []string `json:"rows"`
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// AddError records an assertion failure.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Rows returns the final rows of the named relation.
func (r *Result) Rows(relation string) ([]string, bool) {
	for _, st := range r.Final {
		if st.Relation == relation {
			return st.Rows, true
		}
	}
	return nil, false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a freshly built scheduler with a fixed
// run token, so the trace and final state are fully reproducible.
//
// Execution flow:
//  1. Compile the program directory
//  2. Build the scheduler and seed the initial facts
//  3. For each tick step, enqueue its inputs and run one tick
//  4. Capture final relation contents and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	prog, err := program.LoadDir(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	token := scenario.RunToken
	if token == "" {
		token = defaultRunToken
	}

	sched, err := program.Build(prog,
		engine.WithTokenGenerator(engine.NewFixedGenerator(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to build program: %w", err)
	}

	if err := program.SeedFacts(sched, scenario.Facts); err != nil {
		return nil, fmt.Errorf("failed to seed facts: %w", err)
	}

	result := &Result{RunToken: sched.RunToken()}

	for i, step := range scenario.Ticks {
		if err := program.EnqueueFacts(sched, step.Inputs); err != nil {
			return nil, fmt.Errorf("tick %d: failed to enqueue inputs: %w", i, err)
		}
		trace, err := sched.RunTick()
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", i, err)
		}
		result.Traces = append(result.Traces, trace)
	}

	result.Final = captureState(sched)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// captureState snapshots every relation's rows in registration order.
func captureState(sched *engine.Scheduler) []RelationState {
	relations := sched.Relations()
	final := make([]RelationState, 0, len(relations))
	for _, rel := range relations {
		rows := make([]string, 0, rel.Len())
		for _, row := range rel.Rows() {
			rows = append(rows, row.Canonical())
		}
		final = append(final, RelationState{
			Relation: rel.Name(),
			Kind:     rel.Kind().String(),
			Rows:     rows,
		})
	}
	return final
}
