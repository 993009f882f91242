package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Collection string
	MaxDepth   int
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema-dir> <descriptor-file>",
		Short: "Check a descriptor against a collection schema",
		Long: `Check a YAML or JSON option descriptor against a collection schema
declared in CUE, without printing the compiled parameters.

Every field path, expansion path and sort token must resolve in the target
collection. Filters are not inspected.

Exit codes:
  0 - Descriptor is valid
  1 - One or more schema issues
  2 - Command error (unreadable file, bad schema)

Examples:
  recopt validate ./schema query.yaml --collection posts
  recopt validate ./schema - --collection posts --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Collection, "collection", "", "collection the descriptor targets (required)")
	_ = cmd.MarkFlagRequired("collection")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", expand.DefaultMaxDepth, "maximum expansion depth")

	return cmd
}

func runValidate(opts *ValidateOptions, schemaDir, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sch, code, err := loadSchema(schemaDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded %d collection(s) from %s", len(sch.Collections), schemaDir)

	d, err := readDescriptor(cmd, path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}

	v := &schema.Validator{Schema: sch, MaxDepth: opts.MaxDepth}
	res := v.Validate(opts.Collection, d)

	if formatter.Format == "json" {
		if res.Valid {
			return formatter.Success(res)
		}
		_ = formatter.encode(CLIResponse{
			Status: "error",
			Data:   res,
			Error: &CLIError{
				Code:    ErrCodeSchemaIssues,
				Message: fmt.Sprintf("%d schema issue(s)", len(res.Issues)),
			},
			TraceID: formatter.TraceID,
		})
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(res.Issues)))
	}

	w := formatter.Writer
	if res.Valid {
		fmt.Fprintf(w, "✓ Descriptor is valid for collection %s\n", opts.Collection)
		return nil
	}
	fmt.Fprintf(w, "✗ Validation failed with %d issue(s)\n\n", len(res.Issues))
	renderIssues(w, res.Issues)
	return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(res.Issues)))
}
