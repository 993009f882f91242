package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const blogSchemaCUE = `package blog

collection: users: {
	fields: {
		name: string
	}
}

collection: posts: {
	fields: {
		title:   string
		created: string
	}
	relations: {
		author: "users"
	}
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeBlogSchema writes a two-collection schema and returns its directory.
func writeBlogSchema(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "schema")
	writeFile(t, dir, "blog.cue", blogSchemaCUE)
	return dir
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
