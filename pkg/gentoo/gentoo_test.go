package gentoo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanOldKernels(t *testing.T) {
	src := t.TempDir()
	modules := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(src, "linux-6.1.0-gentoo"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(src, "linux-6.0.9-gentoo"), 0o755))
	require.NoError(t, os.Symlink("linux-6.1.0-gentoo", filepath.Join(src, "linux")))
	require.NoError(t, os.Mkdir(filepath.Join(modules, "6.1.0-gentoo"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(modules, "6.0.9-gentoo"), 0o755))

	removed, err := CleanOldKernels(zerolog.Nop(), src, modules, "linux")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(src, "linux-6.0.9-gentoo"),
		filepath.Join(modules, "6.0.9-gentoo"),
	}, removed)
	assert.DirExists(t, filepath.Join(src, "linux-6.1.0-gentoo"))
	assert.DirExists(t, filepath.Join(modules, "6.1.0-gentoo"))
}

func TestCleanOldKernelsNotASymlink(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(src, "linux"), 0o755))
	_, err := CleanOldKernels(zerolog.Nop(), src, t.TempDir(), "linux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a symbolic link")
}

func TestCleanOldKernelsMissingSymlink(t *testing.T) {
	_, err := CleanOldKernels(zerolog.Nop(), t.TempDir(), t.TempDir(), "linux")
	require.Error(t, err)
}
