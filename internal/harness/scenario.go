package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios run a program for a fixed number of ticks, feeding input
// batches between ticks, and assert on the final relation contents.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name for trace comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the directory holding the CUE program files.
	// Relative paths are resolved against the scenario file location
	// when loaded through LoadScenarioWithBasePath.
	Program string `yaml:"program"`

	// Facts contains seed tuples per extensional relation, inserted
	// before the first tick. Tuples use the text form "(a, b, c)".
	Facts map[string][]string `yaml:"facts,omitempty"`

	// Ticks lists the tick steps to run, in order. Each step's inputs
	// are enqueued before that tick runs, so they become visible to
	// derived relations on the FOLLOWING tick.
	Ticks []TickStep `yaml:"ticks"`

	// Assertions validate the final relation contents after the last
	// tick. Supported types: relation_contains, relation_absent,
	// relation_count, relation_equals.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, defaults to "run-test-default" so golden files remain
	// stable across runs.
	RunToken string `yaml:"run_token,omitempty"`
}

// TickStep describes one tick of the scenario.
type TickStep struct {
	// Inputs maps extensional relation names to tuples to enqueue
	// before the tick runs. May be empty for a quiescent tick.
	Inputs map[string][]string `yaml:"inputs,omitempty"`
}

// Assertion validates the final state of one relation.
type Assertion struct {
	// Type specifies the assertion type:
	// - "relation_contains": Tuple must appear in the relation
	// - "relation_absent": Tuple must not appear in the relation
	// - "relation_count": Relation must hold exactly Count rows
	// - "relation_equals": Relation must hold exactly Rows, in order
	Type string `yaml:"type"`

	// Relation names the relation under assertion.
	Relation string `yaml:"relation"`

	// Tuple is the tuple text (used by relation_contains, relation_absent).
	Tuple string `yaml:"tuple,omitempty"`

	// Count is the expected row count (used by relation_count).
	Count int `yaml:"count,omitempty"`

	// Rows is the full expected content in order (used by relation_equals).
	Rows []string `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertRelationContains = "relation_contains"
	AssertRelationAbsent   = "relation_absent"
	AssertRelationCount    = "relation_count"
	AssertRelationEquals   = "relation_equals"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the program path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Program != "" && !filepath.IsAbs(scenario.Program) && basePath != "" {
		scenario.Program = filepath.Join(basePath, scenario.Program)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Program == "" {
		return fmt.Errorf("program directory is required")
	}
	if info, err := os.Stat(s.Program); err != nil || !info.IsDir() {
		return fmt.Errorf("program directory not found: %s", s.Program)
	}

	if len(s.Ticks) == 0 {
		return fmt.Errorf("ticks list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Relation == "" {
		return fmt.Errorf("assertions[%d]: relation is required", index)
	}

	switch a.Type {
	case AssertRelationContains, AssertRelationAbsent:
		if a.Tuple == "" {
			return fmt.Errorf("assertions[%d]: tuple is required for %s", index, a.Type)
		}
	case AssertRelationCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for relation_count", index)
		}
	case AssertRelationEquals:
		// An empty rows list asserts the relation is empty; nothing
		// further to check.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
