package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/nglint/internal/adapters/treesitter"
)

// writeTree creates files (with parent dirs) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestDiscoverFiles_Basic(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/app/cart.component.ts":   "",
		"src/app/cart.component.html": "",
		"src/styles.scss":             "",
		"README.md":                   "",
		"angular.json":                "",
	})

	files, err := DiscoverFiles(dir, DefaultConfig(), treesitter.NewParser())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/app/cart.component.html",
		"src/app/cart.component.ts",
		"src/styles.scss",
	}, files)
}

func TestDiscoverFiles_SkipsGeneratedDirs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/main.ts":                "",
		"node_modules/lib/index.js":  "",
		"dist/main.js":               "",
		"coverage/report.html":       "",
		".nglint/cache.db":           "",
	})

	files, err := DiscoverFiles(dir, DefaultConfig(), treesitter.NewParser())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.ts"}, files)
}

func TestDiscoverFiles_Globs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/app/cart.component.ts":      "",
		"src/app/cart.component.spec.ts": "",
		"e2e/app.e2e.ts":                 "",
	})

	cfg := DefaultConfig()
	cfg.Include = []string{"src/**"}
	cfg.Exclude = []string{"**/*.spec.ts"}

	files, err := DiscoverFiles(dir, cfg, treesitter.NewParser())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app/cart.component.ts"}, files)
}

func TestDiscoverFiles_SkipsHugeFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"src/small.ts": "const a = 1;"})

	big := make([]byte, maxFileSize+1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "bundle.js"), big, 0644))

	files, err := DiscoverFiles(dir, DefaultConfig(), treesitter.NewParser())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/small.ts"}, files)
}
