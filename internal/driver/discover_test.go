package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func scanTree() map[string]string {
	return map[string]string{
		".gitignore":            "generated/\n",
		"src/main.rs":           "",
		"src/lib.rs":            "",
		"src/util/mod.rs":       "",
		"src/gen_generated.rs":  "",
		"README.md":             "",
		"target/debug/build.rs": "",
		".hidden/x.rs":          "",
		"src/.secret.rs":        "",
		"generated/out.rs":      "",
		"vendor/dep/lib.rs":     "",
	}
}

func TestListRustFiles(t *testing.T) {
	root := writeTree(t, scanTree())
	opts := testOptions()
	opts.Exclude = []string{"vendor/", "*_generated.rs"}

	files, err := ListRustFiles(context.Background(), root, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs", "src/main.rs", "src/util/mod.rs"}, relPaths(t, root, files))
}

func TestListRustFilesWithoutIgnores(t *testing.T) {
	root := writeTree(t, scanTree())
	opts := testOptions()
	opts.Gitignore = false

	files, err := ListRustFiles(context.Background(), root, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"generated/out.rs",
		"src/gen_generated.rs",
		"src/lib.rs",
		"src/main.rs",
		"src/util/mod.rs",
		"vendor/dep/lib.rs",
	}, relPaths(t, root, files))
}

func TestListRustFilesCanceled(t *testing.T) {
	root := writeTree(t, scanTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ListRustFiles(ctx, root, testOptions())
	require.ErrorIs(t, err, context.Canceled)
}
