package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/recopt/internal/canonical"
)

// Snapshot is the part of a Result that golden files pin down. Issue
// messages are left out so that rewording one does not churn every file.
type Snapshot struct {
	Scenario  string
	Output    map[string]any
	ErrorCode string
	Issues    []IssueRef
}

// IssueRef identifies a schema issue by code and path.
type IssueRef struct {
	Code string
	Path string
}

// NewSnapshot builds the snapshot of result for the named scenario.
func NewSnapshot(name string, result *Result) Snapshot {
	snap := Snapshot{
		Scenario:  name,
		ErrorCode: result.ErrorCode,
	}
	if result.Output != nil {
		snap.Output = map[string]any(result.Output)
	}
	for _, issue := range result.Issues {
		snap.Issues = append(snap.Issues, IssueRef{Code: issue.Code, Path: issue.Path})
	}
	return snap
}

// toCanonicalMap converts the snapshot to the generic shape canonical.Marshal
// encodes without a JSON round trip.
func (s Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{"scenario": s.Scenario}
	if s.Output != nil {
		m["output"] = s.Output
	}
	if s.ErrorCode != "" {
		m["error_code"] = s.ErrorCode
	}
	if len(s.Issues) > 0 {
		issues := make([]any, len(s.Issues))
		for i, ref := range s.Issues {
			issues[i] = map[string]any{"code": ref.Code, "path": ref.Path}
		}
		m["issues"] = issues
	}
	return m
}

// MarshalCanonical encodes the snapshot as canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	return canonical.Marshal(s.toCanonicalMap())
}

// RunWithGolden runs a scenario and compares its snapshot with
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
