package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"unsafescan/internal/diag"
	"unsafescan/internal/source"
)

// writeTree creates files (slash-separated relative paths) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.PathMode = source.PathModeBasename
	return opts
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func snippets(t *testing.T, an *Analysis) []string {
	t.Helper()
	require.NotNil(t, an.Result)
	out := make([]string, 0, an.Result.Len())
	for _, r := range an.Result.Regions {
		s, err := an.FileSet.Snippet(r.Span)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}
