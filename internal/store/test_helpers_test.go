package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/recopt/internal/options"
)

// createTestStore opens a store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation compiles d with the default compiler and builds
// the matching row.
func createTestCompilation(t *testing.T, collection string, d options.Descriptor) Compilation {
	t.Helper()
	out, err := options.Process(d)
	c, err := NewCompilation(collection, 6, d, out, err)
	require.NoError(t, err)
	return c
}
