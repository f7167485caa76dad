package harness

import (
	"fmt"

	"github.com/ianhorswill/ted/internal/term"
)

// EvaluateAssertions checks every assertion against the result's final
// state and returns one message per failure. An empty slice means all
// assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %s", i, a.Type, msg))
		}
	}
	return errors
}

func evaluateAssertion(result *Result, a *Assertion) string {
	rows, ok := result.Rows(a.Relation)
	if !ok {
		return fmt.Sprintf("relation %q not found", a.Relation)
	}

	switch a.Type {
	case AssertRelationContains:
		want, err := canonicalTuple(a.Tuple)
		if err != nil {
			return err.Error()
		}
		if !containsRow(rows, want) {
			return fmt.Sprintf("%s does not contain %s", a.Relation, want)
		}

	case AssertRelationAbsent:
		want, err := canonicalTuple(a.Tuple)
		if err != nil {
			return err.Error()
		}
		if containsRow(rows, want) {
			return fmt.Sprintf("%s contains %s but should not", a.Relation, want)
		}

	case AssertRelationCount:
		if len(rows) != a.Count {
			return fmt.Sprintf("%s has %d rows, expected %d", a.Relation, len(rows), a.Count)
		}

	case AssertRelationEquals:
		if len(rows) != len(a.Rows) {
			return fmt.Sprintf("%s has %d rows, expected %d", a.Relation, len(rows), len(a.Rows))
		}
		for i, raw := range a.Rows {
			want, err := canonicalTuple(raw)
			if err != nil {
				return err.Error()
			}
			if rows[i] != want {
				return fmt.Sprintf("%s row %d is %s, expected %s", a.Relation, i, rows[i], want)
			}
		}
	}

	return ""
}

// canonicalTuple normalizes assertion tuple text so comparisons do not
// depend on the spacing the scenario author used.
func canonicalTuple(text string) (string, error) {
	t, err := term.ParseTuple(text)
	if err != nil {
		return "", fmt.Errorf("bad tuple %q: %w", text, err)
	}
	return t.Canonical(), nil
}

func containsRow(rows []string, want string) bool {
	for _, row := range rows {
		if row == want {
			return true
		}
	}
	return false
}
