package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recopt/internal/canonical"
	"github.com/roach88/recopt/internal/harness"
	"github.com/roach88/recopt/internal/options"
	"github.com/roach88/recopt/internal/schema"
)

// readDescriptor loads a YAML or JSON descriptor from path, or from stdin
// when path is "-". An empty document is an empty descriptor.
func readDescriptor(cmd *cobra.Command, path string) (options.Descriptor, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	d, err := harness.ParseDescriptor(data)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = options.Descriptor{}
	}
	return d, nil
}

// loadSchema loads a schema directory and maps its failure to a CLI code.
func loadSchema(dir string) (*schema.Schema, string, error) {
	s, err := schema.Load(dir)
	if err != nil {
		var le *schema.LoadError
		if errors.As(err, &le) {
			return nil, le.Code, le
		}
		return nil, ErrCodeGeneric, err
	}
	return s, "", nil
}

// renderParams prints a compiled descriptor one parameter per line, sorted
// by key. Strings print raw; everything else prints as canonical JSON.
func renderParams(w io.Writer, d options.Descriptor) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := d[k].(string); ok {
			fmt.Fprintf(w, "  %s=%s\n", k, s)
			continue
		}
		data, err := canonical.Marshal(d[k])
		if err != nil {
			return fmt.Errorf("rendering %s: %w", k, err)
		}
		fmt.Fprintf(w, "  %s=%s\n", k, data)
	}
	return nil
}

// renderIssues prints schema issues, one per line.
func renderIssues(w io.Writer, issues []schema.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s\n", strings.TrimSpace(issue.String()))
	}
}
