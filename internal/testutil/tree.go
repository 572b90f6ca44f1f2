// Package testutil builds source trees and hand-crafted archives for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree creates the described tree beneath dir. Keys are slash-separated
// relative paths; keys ending in "/" are directories, everything else is a
// file with the given content. Parents are created as needed.
func WriteTree(tb testing.TB, dir string, tree map[string]string) {
	tb.Helper()

	for name, content := range tree {
		p := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(name, "/")))
		if strings.HasSuffix(name, "/") {
			require.NoError(tb, os.MkdirAll(p, 0o750))
			continue
		}
		require.NoError(tb, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(tb, os.WriteFile(p, []byte(content), 0o600))
	}
}

// ReadTree returns the tree beneath dir in the form WriteTree accepts.
// dir itself is not included.
func ReadTree(tb testing.TB, dir string) map[string]string {
	tb.Helper()

	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			tree[name+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(p) //nolint:gosec // test helper
		if err != nil {
			return err
		}
		tree[name] = string(data)
		return nil
	})
	require.NoError(tb, err)
	return tree
}
