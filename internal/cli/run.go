package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ianhorswill/ted/internal/engine"
	"github.com/ianhorswill/ted/internal/program"
	"github.com/ianhorswill/ted/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Ticks    int
	Facts    string
	Database string
	MaxRows  int

	// TokenGenerator overrides the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator engine.RunTokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <program-dir>",
		Short: "Run a program for a number of ticks",
		Long: `Compile the program, seed initial facts, and drive the tick
loop: each tick recomputes every derived relation against the facts as
they stood at the end of the previous tick, then admits that tick's
queued inputs.

With --db, extensional facts restore from the snapshot before the run
(the tick counter resumes too) and the final state is saved back.

Example:
  ted run ./examples/friends --ticks 3 --facts friends.yaml
  ted run ./examples/friends --ticks 10 --db run.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Ticks, "ticks", 1, "number of ticks to run")
	cmd.Flags().StringVar(&opts.Facts, "facts", "", "YAML fact file (initial facts and per-tick inputs)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "sqlite snapshot to restore from and save to")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", engine.DefaultMaxRows, "per-relation row quota (0 = unlimited)")

	return cmd
}

// runResult is the run command's output payload.
type runResult struct {
	RunToken string             `json:"run_token"`
	Ticks    []engine.TickTrace `json:"ticks"`
	State    []relationState    `json:"state"`
}

type relationState struct {
	Relation string   `json:"relation"`
	Kind     string   `json:"kind"`
	Rows     []string `json:"rows"`
}

func runProgram(opts *RunOptions, dir string, out io.Writer) error {
	f := &OutputFormatter{Format: opts.Format, Writer: out, Verbose: opts.Verbose}
	ctx := context.Background()

	prog, err := program.LoadDir(dir)
	if err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "failed to compile program", err)
	}

	var ff *program.FactFile
	if opts.Facts != "" {
		ff, err = program.LoadFactFile(opts.Facts)
		if err != nil {
			f.Error("FACTS", err.Error())
			return WrapExitError(ExitCommandError, "failed to load fact file", err)
		}
	}

	var snap *store.Store
	startTick := int64(0)
	if opts.Database != "" {
		snap, err = store.Open(opts.Database)
		if err != nil {
			f.Error("SNAPSHOT", err.Error())
			return WrapExitError(ExitCommandError, "failed to open snapshot", err)
		}
		defer func() {
			if closeErr := snap.Close(); closeErr != nil {
				slog.Error("error closing snapshot", "error", closeErr)
			}
		}()
		startTick, err = snap.LastTick(ctx)
		if err != nil {
			f.Error("SNAPSHOT", err.Error())
			return WrapExitError(ExitCommandError, "failed to read snapshot", err)
		}
	}

	engOpts := []engine.Option{
		engine.WithMaxRows(opts.MaxRows),
		engine.WithClock(engine.NewClockAt(startTick)),
	}
	if opts.TokenGenerator != nil {
		engOpts = append(engOpts, engine.WithTokenGenerator(opts.TokenGenerator))
	}
	sched, err := program.Build(prog, engOpts...)
	if err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "failed to build program", err)
	}

	if snap != nil {
		if err := snap.RestoreExtensional(ctx, sched.Relations()); err != nil {
			f.Error("SNAPSHOT", err.Error())
			return WrapExitError(ExitCommandError, "failed to restore snapshot", err)
		}
	}
	if ff != nil {
		if err := program.SeedFacts(sched, ff.Facts); err != nil {
			f.Error("FACTS", err.Error())
			return WrapExitError(ExitCommandError, "failed to seed facts", err)
		}
	}

	slog.Info("run starting", "run", sched.RunToken(), "ticks", opts.Ticks, "from_tick", startTick)

	traces := make([]engine.TickTrace, 0, opts.Ticks)
	for i := 0; i < opts.Ticks; i++ {
		if ff != nil && i < len(ff.Ticks) {
			if err := program.EnqueueFacts(sched, ff.Ticks[i].Facts); err != nil {
				f.Error("FACTS", err.Error())
				return WrapExitError(ExitCommandError, "failed to enqueue tick inputs", err)
			}
		}
		t, err := sched.RunTick()
		if err != nil {
			f.Error("RUN", err.Error())
			return WrapExitError(ExitFailure, "tick failed", err)
		}
		traces = append(traces, t)
	}

	if snap != nil {
		if err := snap.SaveSnapshot(ctx, sched.Relations(), sched.Tick(), sched.RunToken()); err != nil {
			f.Error("SNAPSHOT", err.Error())
			return WrapExitError(ExitCommandError, "failed to save snapshot", err)
		}
	}

	result := runResult{RunToken: sched.RunToken(), Ticks: traces}
	for _, r := range sched.Relations() {
		st := relationState{Relation: r.Name(), Kind: r.Kind().String(), Rows: make([]string, 0, r.Len())}
		for _, row := range r.Rows() {
			st.Rows = append(st.Rows, row.Canonical())
		}
		result.State = append(result.State, st)
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "run %s: %d ticks\n", result.RunToken, len(result.Ticks))
		for _, t := range result.Ticks {
			fmt.Fprintf(w, "tick %d:\n", t.Tick)
			for _, e := range t.Events {
				fmt.Fprintf(w, "  %-9s %s rows=%d delta=%d\n", e.Type, e.Relation, e.Rows, e.Delta)
			}
		}
		fmt.Fprintln(w, "state:")
		for _, st := range result.State {
			fmt.Fprintf(w, "  %s (%s):\n", st.Relation, st.Kind)
			for _, row := range st.Rows {
				fmt.Fprintf(w, "    %s\n", row)
			}
		}
	})
}
