package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/recopt/internal/canonical"
	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/options"
	"github.com/roach88/recopt/internal/schema"
	"github.com/roach88/recopt/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output     string // output file path
	Database   string // compile log path
	SchemaDir  string
	Collection string
	MaxDepth   int
}

// CompileResult is the JSON payload of a successful compile.
type CompileResult struct {
	Output   options.Descriptor `json:"output"`
	ID       string             `json:"id,omitempty"`
	Seq      int64              `json:"seq,omitempty"`
	Inserted bool               `json:"inserted,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <descriptor-file>",
		Short: "Compile a query option descriptor",
		Long: `Compile a YAML or JSON option descriptor into request parameters.

fields and expand trees are flattened, filter and sort pass through, and
every other key is kept as-is. Use "-" to read the descriptor from stdin.

With --schema and --collection the descriptor is also checked against a
CUE collection schema. With --db the compilation is appended to a compile
log that "recopt replay" can verify later.

Exit codes:
  0 - Compiled (and valid against the schema, if given)
  1 - Descriptor rejected by the compiler or the schema
  2 - Command error (unreadable file, bad schema, database error)

Examples:
  recopt compile query.yaml
  recopt compile query.yaml --schema ./schema --collection posts
  recopt compile query.yaml --db ./recopt.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical JSON output to file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append the compilation to this compile log")
	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE schema directory to validate against")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "collection the descriptor targets")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", expand.DefaultMaxDepth, "maximum expansion depth")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := context.Background()

	if opts.SchemaDir != "" && opts.Collection == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--collection is required with --schema", nil)
	}
	if opts.MaxDepth < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("--max-depth must be at least 1, got %d", opts.MaxDepth), nil)
	}

	d, err := readDescriptor(cmd, path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}
	formatter.VerboseLog("Read descriptor with %d key(s) from %s", len(d), path)

	var issues []schema.Issue
	if opts.SchemaDir != "" {
		sch, code, err := loadSchema(opts.SchemaDir)
		if err != nil {
			return formatter.Fail(ExitCommandError, code, err.Error(), nil)
		}
		v := &schema.Validator{Schema: sch, MaxDepth: opts.MaxDepth}
		issues = v.Validate(opts.Collection, d).Issues
		formatter.VerboseLog("Validated against collection %s: %d issue(s)", opts.Collection, len(issues))
	}

	compiler := &options.Compiler{MaxDepth: opts.MaxDepth}
	out, compileErr := compiler.Process(d)
	opts.logger(formatter.GetErrWriter()).Debug("compiled descriptor",
		"trace_id", formatter.TraceID,
		"max_depth", opts.MaxDepth,
		"params", len(out),
		"error", compileErr)

	result := CompileResult{Output: out}
	if opts.Database != "" {
		stored, inserted, err := logCompilation(ctx, opts, formatter.TraceID, d, out, compileErr, issues)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
		}
		result.ID, result.Seq, result.Inserted = stored.ID, stored.Seq, inserted
		formatter.VerboseLog("Logged compilation %s (seq %d, new=%t)", stored.ID, stored.Seq, inserted)
	}

	if compileErr != nil {
		return formatter.Fail(ExitFailure, ErrCodeCompileFailed, compileErr.Error(),
			map[string]string{"error_code": store.ErrorCode(compileErr)})
	}

	if len(issues) > 0 {
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "✗ Descriptor does not match collection %s\n\n", opts.Collection)
			renderIssues(formatter.Writer, issues)
			return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(issues)))
		}
		return formatter.Fail(ExitFailure, ErrCodeSchemaIssues,
			fmt.Sprintf("%d schema issue(s)", len(issues)), issues)
	}

	if opts.Output != "" {
		if err := writeCanonical(out, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func logCompilation(ctx context.Context, opts *CompileOptions, traceID string, in, out options.Descriptor, compileErr error, issues []schema.Issue) (store.Compilation, bool, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return store.Compilation{}, false, err
	}
	defer st.Close()

	c, err := store.NewCompilation(opts.Collection, opts.MaxDepth, in, out, compileErr)
	if err != nil {
		return store.Compilation{}, false, err
	}
	c.TraceID = traceID
	c.Issues = issues

	return st.WriteCompilation(ctx, c)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result CompileResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d parameter(s)\n\n", len(result.Output))
	if err := renderParams(w, result.Output); err != nil {
		return err
	}

	if result.ID != "" {
		fmt.Fprintf(w, "\nLogged compilation %s (seq %d)\n", result.ID, result.Seq)
	}
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote canonical JSON to %s\n", outputFile)
	}
	return nil
}

// writeCanonical writes d to filename as canonical JSON.
func writeCanonical(d options.Descriptor, filename string) error {
	data, err := canonical.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
