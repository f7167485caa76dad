package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ianhorswill/ted/internal/binding"
	"github.com/ianhorswill/ted/internal/call"
	"github.com/ianhorswill/ted/internal/program"
	"github.com/ianhorswill/ted/internal/rule"
	"github.com/ianhorswill/ted/internal/term"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Facts  string
	Strict bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <program-dir> <goal>",
		Short: "Evaluate one goal against a program's current state",
		Long: `Compile the program, seed facts, make derived relations
current, and enumerate the goal's solutions. Variables in the goal
(upper-case leading letter) are reported per solution; a negated goal
("!Pred(...)") must be ground.

Example:
  ted query ./examples/friends --facts friends.yaml 'Mutual(alice, X)'
  ted query ./examples/friends --facts friends.yaml '!Friend(alice, carol)'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], args[1], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Facts, "facts", "", "YAML fact file with initial facts")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when the goal has no solutions")

	return cmd
}

// querySolution is one solution's variable bindings, in goal
// appearance order.
type querySolution struct {
	Bindings map[string]string `json:"bindings"`
}

type queryResult struct {
	Goal      string          `json:"goal"`
	Solutions []querySolution `json:"solutions"`
}

func runQuery(opts *QueryOptions, dir, goalText string, out io.Writer) error {
	f := &OutputFormatter{Format: opts.Format, Writer: out, Verbose: opts.Verbose}

	prog, err := program.LoadDir(dir)
	if err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "failed to compile program", err)
	}
	sched, err := program.Build(prog)
	if err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "failed to build program", err)
	}
	if opts.Facts != "" {
		ff, err := program.LoadFactFile(opts.Facts)
		if err != nil {
			f.Error("FACTS", err.Error())
			return WrapExitError(ExitCommandError, "failed to load fact file", err)
		}
		if err := program.SeedFacts(sched, ff.Facts); err != nil {
			f.Error("FACTS", err.Error())
			return WrapExitError(ExitCommandError, "failed to seed facts", err)
		}
	}

	lit, err := rule.ParseLiteral(goalText)
	if err != nil {
		f.Error("GOAL", err.Error())
		return WrapExitError(ExitCommandError, "failed to parse goal", err)
	}
	rel, ok := sched.Relation(lit.Pred)
	if !ok {
		msg := fmt.Sprintf("unknown predicate %q", lit.Pred)
		f.Error("GOAL", msg)
		return NewExitError(ExitCommandError, msg)
	}

	// Make derived relations current against the seeded facts. Build
	// forces the queried relation's dependencies recursively, but
	// forcing them all keeps query output independent of goal shape.
	if _, err := sched.RecomputeAll(); err != nil {
		f.Error("RUN", err.Error())
		return WrapExitError(ExitFailure, "recompute failed", err)
	}

	st := binding.NewStore()
	c, err := call.Build(call.Goal{Relation: rel, Args: lit.Args, Negated: lit.Negated}, nil, st)
	if err != nil {
		f.Error("GOAL", err.Error())
		return WrapExitError(ExitCommandError, "failed to build call", err)
	}

	vars := goalVariables(lit.Args)
	result := queryResult{Goal: goalText, Solutions: []querySolution{}}
	c.Reset()
	for c.NextSolution() {
		sol := querySolution{Bindings: make(map[string]string, len(vars))}
		for _, name := range vars {
			if v, ok := st.Lookup(name); ok {
				sol.Bindings[name] = v.Canonical()
			}
		}
		result.Solutions = append(result.Solutions, sol)
	}

	if opts.Strict && len(result.Solutions) == 0 {
		f.Error("NO_SOLUTIONS", "goal has no solutions")
		return NewExitError(ExitFailure, "goal has no solutions")
	}

	return f.Success(result, func(w io.Writer) {
		if len(result.Solutions) == 0 {
			fmt.Fprintln(w, "no solutions")
			return
		}
		for i, sol := range result.Solutions {
			if len(vars) == 0 {
				fmt.Fprintf(w, "solution %d: yes\n", i+1)
				continue
			}
			fmt.Fprintf(w, "solution %d:", i+1)
			for _, name := range vars {
				fmt.Fprintf(w, " %s=%s", name, sol.Bindings[name])
			}
			fmt.Fprintln(w)
		}
	})
}

// goalVariables returns the named variables in appearance order,
// without duplicates.
func goalVariables(args []term.Term) []string {
	var names []string
	seen := make(map[string]bool)
	for _, a := range args {
		if v, ok := a.(term.Variable); ok && !v.Anonymous() && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	}
	return names
}
