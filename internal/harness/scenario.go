package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one compilation test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is an optional CUE schema directory. Relative paths are
	// resolved against the scenario file's directory.
	Schema string `yaml:"schema,omitempty"`

	// Collection is the collection the input targets. Required with Schema.
	Collection string `yaml:"collection,omitempty"`

	// MaxDepth bounds expansion depth; 0 selects the default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Input is the descriptor to compile, kept as a node so that !unset
	// tags survive.
	Input yaml.Node `yaml:"input"`

	// Expect lists compiled keys and their expected values. Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Absent lists keys that must not appear in the output.
	Absent []string `yaml:"absent,omitempty"`

	// ExpectError is the error code compilation must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectIssues lists the schema issue codes validation must report, in
	// order.
	ExpectIssues []string `yaml:"expect_issues,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Schema != "" && !filepath.IsAbs(s.Schema) {
		s.Schema = filepath.Join(filepath.Dir(path), s.Schema)
	}
	if s.Schema != "" {
		if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: invalid scenario: schema directory not found: %s", path, s.Schema)
		}
	}

	return s, nil
}

// ParseScenario parses scenario YAML. Schema paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Input.Kind == 0 {
		return fmt.Errorf("input is required")
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative")
	}
	if s.Schema != "" && s.Collection == "" {
		return fmt.Errorf("collection is required when schema is set")
	}
	if len(s.ExpectIssues) > 0 && s.Schema == "" {
		return fmt.Errorf("expect_issues requires a schema")
	}
	if s.ExpectError != "" && (len(s.Expect) > 0 || len(s.Absent) > 0) {
		return fmt.Errorf("expect_error cannot be combined with expect or absent")
	}
	if s.ExpectError == "" && len(s.Expect) == 0 && len(s.Absent) == 0 && len(s.ExpectIssues) == 0 {
		return fmt.Errorf("one of expect, absent, expect_error or expect_issues is required")
	}
	return nil
}
