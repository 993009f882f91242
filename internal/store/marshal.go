package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/recopt/internal/canonical"
	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/options"
	"github.com/roach88/recopt/internal/schema"
)

// Compilation is one compile-log row.
type Compilation struct {
	// ID is content addressed, see CompilationID.
	ID  string `json:"id"`
	Seq int64  `json:"seq"`

	TraceID    string `json:"trace_id,omitempty"`
	Collection string `json:"collection,omitempty"`
	MaxDepth   int    `json:"max_depth"`

	// Input and Output are canonical JSON. Output is empty when the
	// compilation failed.
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	OutputHash string `json:"output_hash,omitempty"`

	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`

	Issues []schema.Issue `json:"issues,omitempty"`
}

// Failed reports whether the recorded compilation returned an error.
func (c Compilation) Failed() bool {
	return c.ErrorCode != "" || c.Error != ""
}

// CompilationID hashes the parts of a compilation that determine its
// output.
func CompilationID(collection string, maxDepth int, input string) string {
	return canonical.HashBytes(canonical.DomainInput,
		[]byte(fmt.Sprintf("%s\x00%d\x00%s", collection, maxDepth, input)))
}

// NewCompilation builds a row from a descriptor and the result of compiling
// it. compileErr, when non-nil, is recorded in place of the output. Seq is
// assigned by WriteCompilation. Unset input keys are not recorded.
func NewCompilation(collection string, maxDepth int, input, output options.Descriptor, compileErr error) (Compilation, error) {
	in, err := canonical.Marshal(withoutUnset(input))
	if err != nil {
		return Compilation{}, fmt.Errorf("marshal input: %w", err)
	}

	c := Compilation{
		Collection: collection,
		MaxDepth:   maxDepth,
		Input:      string(in),
	}
	c.ID = CompilationID(collection, maxDepth, c.Input)

	if compileErr != nil {
		c.ErrorCode = ErrorCode(compileErr)
		c.Error = compileErr.Error()
		return c, nil
	}

	out, err := canonical.Marshal(output)
	if err != nil {
		return Compilation{}, fmt.Errorf("marshal output: %w", err)
	}
	c.Output = string(out)
	c.OutputHash = canonical.HashBytes(canonical.DomainCompilation, out)
	return c, nil
}

func withoutUnset(d options.Descriptor) options.Descriptor {
	if d == nil {
		return nil
	}
	out := make(options.Descriptor, len(d))
	for k, v := range d {
		if !options.IsUnset(v) {
			out[k] = v
		}
	}
	return out
}

// ErrorCode classifies a compile error by the code of the typed error it
// wraps.
func ErrorCode(err error) string {
	var ve *options.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var te *expand.TreeError
	if errors.As(err, &te) {
		return string(te.Code)
	}
	return "UNKNOWN"
}

// DecodeInput parses the stored input back into a descriptor.
func (c Compilation) DecodeInput() (options.Descriptor, error) {
	return decodeDescriptor(c.Input)
}

func decodeDescriptor(data string) (options.Descriptor, error) {
	if data == "" || data == "null" {
		return nil, nil
	}
	var d options.Descriptor
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("unmarshal descriptor: %w", err)
	}
	return d, nil
}

func marshalIssues(issues []schema.Issue) (string, error) {
	if len(issues) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(issues)
	if err != nil {
		return "", fmt.Errorf("marshal issues: %w", err)
	}
	return string(data), nil
}

func unmarshalIssues(data string) ([]schema.Issue, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var issues []schema.Issue
	if err := json.Unmarshal([]byte(data), &issues); err != nil {
		return nil, fmt.Errorf("unmarshal issues: %w", err)
	}
	return issues, nil
}
