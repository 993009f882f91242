package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/worked_trace.yaml")
	require.NoError(t, err)

	assert.Equal(t, "worked_trace", s.Name)
	assert.Equal(t, "posts", s.Collection)
	assert.Equal(t, filepath.Join("testdata", "schema"), s.Schema)
	assert.Equal(t, "author.posts_via_author,comments_via_post", s.Expect["expand"])
	assert.Empty(t, s.ExpectIssues)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: misspelled key
input: {fields: [id]}
expcet: {fields: id}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expcet")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_MissingSchemaDir(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "s.yaml", `
name: s
description: schema points nowhere
schema: ./missing
collection: posts
input: {fields: [id]}
expect_issues: []
expect: {fields: id}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema directory not found")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing name",
			src:  "description: d\ninput: {}\nexpect: {a: 1}\n",
			want: "name is required",
		},
		{
			name: "missing description",
			src:  "name: n\ninput: {}\nexpect: {a: 1}\n",
			want: "description is required",
		},
		{
			name: "missing input",
			src:  "name: n\ndescription: d\nexpect: {a: 1}\n",
			want: "input is required",
		},
		{
			name: "schema without collection",
			src:  "name: n\ndescription: d\nschema: x\ninput: {}\nexpect: {a: 1}\n",
			want: "collection is required",
		},
		{
			name: "issues without schema",
			src:  "name: n\ndescription: d\ninput: {}\nexpect_issues: [UNKNOWN_FIELD]\n",
			want: "expect_issues requires a schema",
		},
		{
			name: "error and expect together",
			src:  "name: n\ndescription: d\ninput: {}\nexpect: {a: 1}\nexpect_error: X\n",
			want: "cannot be combined",
		},
		{
			name: "nothing expected",
			src:  "name: n\ndescription: d\ninput: {}\n",
			want: "is required",
		},
		{
			name: "negative depth",
			src:  "name: n\ndescription: d\nmax_depth: -1\ninput: {}\nexpect: {a: 1}\n",
			want: "max_depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"expand_only",
		"fields_only",
		"schema_issues",
		"sentinels",
		"too_deep",
		"worked_trace",
	}, names)
}

func TestLoadScenarios_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := "name: same\ndescription: d\ninput: {fields: [a]}\nexpect: {fields: a}\n"
	writeScenario(t, dir, "a.yaml", body)
	writeScenario(t, dir, "b.yml", body)
	writeScenario(t, dir, "notes.txt", "ignored")

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scenario name")
}
