package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ianhorswill/ted/internal/program"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program-dir>",
		Short: "Compile a program and report errors without running it",
		Long: `Compile the CUE program in the given directory: relation
declarations, indexes, and rules, including rule safety analysis.
Exits 0 if the program is well-formed.

Example:
  ted validate ./examples/friends`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

type validateSummary struct {
	Relations int `json:"relations"`
	Rules     int `json:"rules"`
}

func runValidate(rootOpts *RootOptions, dir string, out io.Writer) error {
	f := &OutputFormatter{Format: rootOpts.Format, Writer: out, Verbose: rootOpts.Verbose}

	prog, err := program.LoadDir(dir)
	if err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "program does not compile", err)
	}
	// Building performs the checks compilation alone cannot: rule
	// safety, arity agreement, index bounds.
	if _, err := program.Build(prog); err != nil {
		f.Error("COMPILE", err.Error())
		return WrapExitError(ExitCommandError, "program does not validate", err)
	}

	return f.Success(
		validateSummary{Relations: len(prog.Relations), Rules: len(prog.Rules)},
		func(w io.Writer) {
			fmt.Fprintf(w, "ok: %d relations, %d rules\n", len(prog.Relations), len(prog.Rules))
		},
	)
}
