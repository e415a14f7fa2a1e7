package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func TestSlugRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Some File Name.TXT")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	renamed, err := SlugRename(src, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "some-file-name.txt"), renamed)
	assert.FileExists(t, renamed)
	assert.NoFileExists(t, src)
}

func TestSlugRenameNoLower(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Some File")
	require.NoError(t, os.Mkdir(src, 0o755))

	renamed, err := SlugRename(src, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Some-File"), renamed)
}

func TestSlugRenameMissing(t *testing.T) {
	_, err := SlugRename(filepath.Join(t.TempDir(), "nope"), false)
	assert.Error(t, err)
}

func TestPatchBundleInfoPlist(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "Test.app")
	contents := filepath.Join(bundle, "Contents")
	require.NoError(t, os.MkdirAll(contents, 0o755))
	initial, err := plist.MarshalIndent(map[string]any{
		"CFBundleIdentifier": "sh.tat.test",
		"CFBundleName":       "Test",
	}, plist.XMLFormat, "\t")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(contents, "Info.plist"), initial, 0o644))

	require.NoError(t, PatchBundleInfoPlist(bundle, map[string]any{
		"CFBundleName":         "Patched",
		"LSUIElement":          true,
		"CFBundleShortVersion": "1.2.3",
	}))

	raw, err := os.ReadFile(filepath.Join(contents, "Info.plist"))
	require.NoError(t, err)
	var got map[string]any
	_, err = plist.Unmarshal(raw, &got)
	require.NoError(t, err)
	assert.Equal(t, "sh.tat.test", got["CFBundleIdentifier"])
	assert.Equal(t, "Patched", got["CFBundleName"])
	assert.Equal(t, true, got["LSUIElement"])
	assert.Equal(t, "1.2.3", got["CFBundleShortVersion"])
}

func TestPatchBundleInfoPlistMissing(t *testing.T) {
	assert.Error(t, PatchBundleInfoPlist(filepath.Join(t.TempDir(), "Nope.app"), nil))
}

func TestFilteredTricks(t *testing.T) {
	opts := &WinePrefixOptions{
		Tricks: []string{"corefonts", "winxp", "vd=1024x768", "win10", "dxvk"},
	}
	assert.Equal(t, []string{"corefonts", "dxvk"}, opts.filteredTricks())
}

func TestWineEnv(t *testing.T) {
	t.Setenv("DISPLAY", ":1")
	t.Setenv("XAUTHORITY", "/home/u/.Xauthority")
	t.Setenv("WINEESYNC", "")
	t.Setenv("WINEARCH", "")

	env := wineEnv("/tmp/prefix", false)
	assert.Contains(t, env, "DISPLAY=:1")
	assert.Contains(t, env, "WINEPREFIX=/tmp/prefix")
	assert.Contains(t, env, "XAUTHORITY=/home/u/.Xauthority")
	for _, e := range env {
		assert.NotContains(t, e, "WINEARCH")
	}

	env = wineEnv("/tmp/prefix", true)
	assert.Contains(t, env, "WINEARCH=win32")

	t.Setenv("WINEESYNC", "1")
	env = wineEnv("/tmp/prefix", false)
	assert.Contains(t, env, "WINEESYNC=1")
}
