package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/recopt/internal/harness"
	"github.com/roach88/recopt/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompile the compile log and verify determinism",
		Long: `Recompile every logged descriptor in log order and compare the result
with what was recorded.

A logged success matches when the recompiled output is byte-identical
canonical JSON. A logged failure matches when recompiling fails with the
same error code.

Exit codes:
  0 - Every compilation replayed identically
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  recopt replay --db ./recopt.db
  recopt replay --db ./recopt.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite compile log (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := context.Background()

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	result, err := st.Replay(ctx, harness.Recompile)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}
	formatter.VerboseLog("Replayed %d compilation(s)", result.Total)

	if formatter.Format == "json" {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result store.ReplayResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		TraceID: formatter.TraceID,
	}

	if !result.Deterministic() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeNondeterministic,
			Message: "determinism verification failed",
		}
	}

	if err := formatter.encode(response); err != nil {
		return err
	}

	if !result.Deterministic() {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(formatter *OutputFormatter, result store.ReplayResult) error {
	w := formatter.Writer

	if result.Total == 0 {
		fmt.Fprintln(w, "No compilations found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d compilation(s), %d matched\n", result.Total, result.Matched)

	for _, m := range result.Mismatches {
		fmt.Fprintf(w, "\n✗ seq %d (%s)\n", m.Seq, m.ID)
		fmt.Fprintf(w, "  stored:   %s\n", m.Stored)
		fmt.Fprintf(w, "  replayed: %s\n", m.Replayed)
	}
	fmt.Fprintln(w)

	if result.Deterministic() {
		fmt.Fprintln(w, "✓ All compilations verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
