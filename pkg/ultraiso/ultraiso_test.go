package ultraiso

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsInsufficient(t *testing.T) {
	opts := &Options{}
	_, err := opts.args("/pfx/drive_c/Program Files/UltraISO/UltraISO.exe")
	assert.ErrorContains(t, err, "insufficient")
}

func TestArgsCmdOverridesEverything(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths are not converted on Windows")
	}
	opts := &Options{Cmd: "/tmp/commands.txt", Input: "/tmp/in.iso", Joliet: true}
	args, err := opts.args("/exe")
	require.NoError(t, err)
	assert.Equal(t, []string{"wine", "/exe", "-silent", "-cmd", `Z:\tmp\commands.txt`}, args)
}

func TestArgsFull(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths are not converted on Windows")
	}
	opts := &Options{
		Input:    "/tmp/in.iso",
		Output:   "/tmp/out.iso",
		AddFiles: []string{"/tmp/a.bin"},
		AddDirs:  []string{"dir1"},
		Joliet:   true,
		UDF:      true,
		Volume:   "MYDISC",
		VolSet:   2,
		PN:       5,
	}
	args, err := opts.args("/exe")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"wine", "/exe", "-silent",
		"-in", `Z:\tmp\in.iso`,
		"-out", `Z:\tmp\out.iso`,
		"-file", `Z:\tmp\a.bin`,
		"-directory", "dir1",
		"-joliet", "-udf",
		"-volume", "MYDISC",
		"-volset", "2",
		"-pn", "5",
	}, args)
}

func TestArgsBootAndConversionPaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("paths are not converted on Windows")
	}
	opts := &Options{
		Input:         "/in.iso",
		BootFile:      "/boot/loader.bin",
		BootInfoTable: true,
		Bin2ISO:       "/tmp/image.bin",
	}
	args, err := opts.args("/exe")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"wine", "/exe", "-silent",
		"-in", `Z:\in.iso`,
		"-bootinfotable",
		"-bootfile", `Z:\boot\loader.bin`,
		"-bin2iso", `Z:\tmp\image.bin`,
	}, args)
}

func TestFindExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("searches a fixed drive on Windows")
	}
	prefix := t.TempDir()
	exeDir := filepath.Join(prefix, "drive_c", "Program Files (x86)", "UltraISO")
	require.NoError(t, os.MkdirAll(exeDir, 0o755))
	exe := filepath.Join(exeDir, "UltraISO.exe")
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o755))

	found, err := FindExecutable(prefix)
	require.NoError(t, err)
	assert.Equal(t, exe, found)

	_, err = FindExecutable(t.TempDir())
	assert.Error(t, err)
}
