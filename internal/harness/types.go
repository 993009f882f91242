package harness

import (
	"fmt"

	"github.com/roach88/recopt/internal/options"
	"github.com/roach88/recopt/internal/schema"
)

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Output is the compiled descriptor; nil when compilation failed.
	Output options.Descriptor `json:"output,omitempty"`

	// ErrorCode classifies the compile error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Issues are the schema issues found, if a schema was given.
	Issues []schema.Issue `json:"issues,omitempty"`

	// Errors contains the failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
