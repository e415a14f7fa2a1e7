package todos

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", `package main

// TODO: handle the error
func main() {}
`)
	writeFile(t, root, "util.py", "# FIXME broken on Windows\nx = 1  # XXX\n")
	writeFile(t, root, "clean.txt", "nothing to see\n")
	writeFile(t, root, ".git/config", "TODO should never appear\n")
	writeFile(t, root, "node_modules/dep/index.js", "// HACK ignored\n")

	items, err := Scan(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "main.go", items[0].Path)
	assert.Equal(t, 3, items[0].Line)
	assert.Equal(t, "TODO", items[0].Marker)
	assert.Equal(t, "handle the error", items[0].Text)

	assert.Equal(t, "util.py", items[1].Path)
	assert.Equal(t, 1, items[1].Line)
	assert.Equal(t, "FIXME", items[1].Marker)
	assert.Equal(t, "broken on Windows", items[1].Text)

	assert.Equal(t, 2, items[2].Line)
	assert.Equal(t, "XXX", items[2].Marker)
	assert.Empty(t, items[2].Text)
}

func TestScanCustomIgnores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "// TODO keep\n")
	writeFile(t, root, "skip/skipped.go", "// TODO skip\n")

	items, err := Scan(context.Background(), root, &Options{Ignores: []string{"skip/**"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep.go", items[0].Path)
}

func TestScanBinarySkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.bin", "TODO\x00binary\n")

	items, err := Scan(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
