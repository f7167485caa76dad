package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueryOptions(format string) *QueryOptions {
	return &QueryOptions{
		RootOptions: &RootOptions{Format: format},
		Facts:       "testdata/friends.yaml",
	}
}

func TestRunQuery_Text(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	require.NoError(t, runQuery(opts, "testdata/friends", "Mutual(alice, X)", &buf))
	assert.Equal(t, "solution 1: X=bob\n", buf.String())
}

func TestRunQuery_MultipleSolutions(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	require.NoError(t, runQuery(opts, "testdata/friends", "Friend(bob, X)", &buf))
	assert.Equal(t, "solution 1: X=alice\nsolution 2: X=carol\n", buf.String())
}

func TestRunQuery_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("json")

	require.NoError(t, runQuery(opts, "testdata/friends", "Mutual(X, Y)", &buf))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Mutual(X, Y)", data["goal"])

	sols, ok := data["solutions"].([]any)
	require.True(t, ok)
	require.Len(t, sols, 2)
	first, ok := sols[0].(map[string]any)
	require.True(t, ok)
	bindings, ok := first["bindings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", bindings["X"])
	assert.Equal(t, "bob", bindings["Y"])
}

func TestRunQuery_GroundNegation(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	require.NoError(t, runQuery(opts, "testdata/friends", "!Friend(alice, carol)", &buf))
	assert.Equal(t, "solution 1: yes\n", buf.String())
}

func TestRunQuery_NoSolutions(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	require.NoError(t, runQuery(opts, "testdata/friends", "Mutual(carol, X)", &buf))
	assert.Equal(t, "no solutions\n", buf.String())
}

func TestRunQuery_StrictNoSolutions(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")
	opts.Strict = true

	err := runQuery(opts, "testdata/friends", "Mutual(carol, X)", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [NO_SOLUTIONS]")
}

func TestRunQuery_NonGroundNegation(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	err := runQuery(opts, "testdata/friends", "!Friend(X, carol)", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [GOAL]")
}

func TestRunQuery_UnknownPredicate(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	err := runQuery(opts, "testdata/friends", "Enemy(alice, X)", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), `unknown predicate "Enemy"`)
}

func TestRunQuery_BadGoalSyntax(t *testing.T) {
	var buf bytes.Buffer
	opts := testQueryOptions("text")

	err := runQuery(opts, "testdata/friends", "not a goal", &buf)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [GOAL]")
}
