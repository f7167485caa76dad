package program

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ianhorswill/ted/internal/engine"
	"github.com/ianhorswill/ted/internal/term"
)

// FactFile is a YAML fact file: initial facts seeded before the first
// tick, and per-tick inputs enqueued before each subsequent tick.
//
//	facts:
//	  Friend:
//	    - (alice, bob)
//	ticks:
//	  - facts:
//	      Friend: ["(bob, carol)"]
type FactFile struct {
	Facts map[string][]string `yaml:"facts"`
	Ticks []TickInputs        `yaml:"ticks"`
}

// TickInputs is one tick's incoming facts by relation name.
type TickInputs struct {
	Facts map[string][]string `yaml:"facts"`
}

// LoadFactFile parses a YAML fact file.
func LoadFactFile(path string) (*FactFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fact file: %w", err)
	}
	var ff FactFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse fact file %s: %w", path, err)
	}
	return &ff, nil
}

// SeedFacts inserts initial facts directly, before the first tick.
// Relations are seeded in sorted name order for determinism; facts
// within a relation keep file order.
func SeedFacts(s *engine.Scheduler, facts map[string][]string) error {
	return eachFact(s, facts, func(r factTarget, t term.Tuple) error {
		return r.Insert(t)
	})
}

// EnqueueFacts queues facts onto pending-input queues; they are
// admitted at the end of the next tick.
func EnqueueFacts(s *engine.Scheduler, facts map[string][]string) error {
	return eachFact(s, facts, func(r factTarget, t term.Tuple) error {
		return r.Enqueue(t)
	})
}

type factTarget interface {
	Insert(t term.Tuple) error
	Enqueue(t term.Tuple) error
}

func eachFact(s *engine.Scheduler, facts map[string][]string, apply func(factTarget, term.Tuple) error) error {
	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r, ok := s.Relation(name)
		if !ok {
			return fmt.Errorf("fact file references unknown relation %q", name)
		}
		for _, text := range facts[name] {
			t, err := term.ParseTuple(text)
			if err != nil {
				return fmt.Errorf("relation %s: %w", name, err)
			}
			if err := apply(r, t); err != nil {
				return err
			}
		}
	}
	return nil
}
