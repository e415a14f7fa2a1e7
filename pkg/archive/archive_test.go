package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndVerifySFV(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.bin")
	fileB := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(fileA, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(fileB, []byte("world"), 0o644))
	sfv := filepath.Join(dir, "set.sfv")
	require.NoError(t, WriteSFV(sfv, []string{fileA, fileB}))
	require.NoError(t, VerifySFV(sfv))

	t.Run("mismatch_detected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(fileB, []byte("tampered"), 0o644))
		err := VerifySFV(sfv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "b.bin")
	})
}

func TestVerifySFVIgnoresComments(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o644))
	crc := crc32.ChecksumIEEE([]byte("hello"))
	contents := fmt.Sprintf("; generated by something\n# another comment\n\na.bin %08X\n", crc)
	sfv := filepath.Join(dir, "set.sfv")
	require.NoError(t, os.WriteFile(sfv, []byte(contents), 0o644))
	require.NoError(t, VerifySFV(sfv))
}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(contents)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestUnpack0day(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "set1.zip"), map[string][]byte{
		"release.rar": []byte("rar contents"),
		"file_id.diz": []byte("diz"),
	})
	writeZip(t, filepath.Join(dir, "set2.zip"), map[string][]byte{
		"release.r00": []byte("more rar contents"),
	})
	require.NoError(t, Unpack0day(context.Background(), dir, true))

	assert.NoFileExists(t, filepath.Join(dir, "set1.zip"))
	assert.NoFileExists(t, filepath.Join(dir, "set2.zip"))
	assert.NoFileExists(t, filepath.Join(dir, "file_id.diz"))
	assert.FileExists(t, filepath.Join(dir, "release.rar"))
	assert.FileExists(t, filepath.Join(dir, "release.r00"))
	require.FileExists(t, filepath.Join(dir, "release.sfv"))
	require.NoError(t, VerifySFV(filepath.Join(dir, "release.sfv")))
	sfv, err := os.ReadFile(filepath.Join(dir, "release.sfv"))
	require.NoError(t, err)
	assert.Contains(t, string(sfv), "release.rar")
	assert.Contains(t, string(sfv), "release.r00")
}

func TestUnpack0dayPartSets(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "set.zip"), map[string][]byte{
		"release.part1.rar": []byte("first part"),
		"release.part2.rar": []byte("second part"),
	})
	require.NoError(t, Unpack0day(context.Background(), dir, true))
	require.FileExists(t, filepath.Join(dir, "release.sfv"))
	sfv, err := os.ReadFile(filepath.Join(dir, "release.sfv"))
	require.NoError(t, err)
	assert.Contains(t, string(sfv), "release.part1.rar")
	assert.Contains(t, string(sfv), "release.part2.rar")
}

func TestExtractGOG(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/sh\n" +
		"offset=`head -n 4 \"$0\"`\n" +
		"filesizes=\"10\"\n" +
		"exit 0\n"
	mojo := []byte("0123456789")
	data := []byte("PK game data payload")
	installer := filepath.Join(dir, "game.sh")
	require.NoError(t, os.WriteFile(installer,
		append(append([]byte(script), mojo...), data...), 0o755))

	out := filepath.Join(dir, "out")
	require.NoError(t, ExtractGOG(context.Background(), installer, out))

	unpacker, err := os.ReadFile(filepath.Join(out, "unpacker.sh"))
	require.NoError(t, err)
	assert.Equal(t, script, string(unpacker))
	gotMojo, err := os.ReadFile(filepath.Join(out, "mojosetup.tar.gz"))
	require.NoError(t, err)
	assert.Equal(t, mojo, gotMojo)
	gotData, err := os.ReadFile(filepath.Join(out, "data.zip"))
	require.NoError(t, err)
	assert.Equal(t, data, gotData)

	t.Run("existing_output_dir", func(t *testing.T) {
		require.Error(t, ExtractGOG(context.Background(), installer, out))
	})
}

func TestExtractGOGNotMakeself(t *testing.T) {
	dir := t.TempDir()
	installer := filepath.Join(dir, "plain.sh")
	require.NoError(t, os.WriteFile(installer, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	err := ExtractGOG(context.Background(), installer, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "makeself")
}

func TestParseRARListing(t *testing.T) {
	out := `
UNRAR 6.24 freeware      Copyright (c) 1993-2023 Alexander Roshal

Archive: book.rar

 Attributes      Size     Date    Time   Name
----------- ---------  ---------- -----  ----
    ..A....     51200  2023-04-01 09:30  book.pdf
    ..A....      1024  2023-04-01 09:31  cover.jpg
----------- ---------  ---------- -----  ----
                52224                    2
`
	infos, err := parseRARListing(out)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "book.pdf", infos[0].Name)
	assert.Equal(t, int64(51200), infos[0].Size)
	assert.Equal(t, "..A....", infos[0].Attributes)
	assert.Equal(t, time.Date(2023, 4, 1, 9, 30, 0, 0, time.UTC), infos[0].Date)
	assert.Equal(t, "cover.jpg", infos[1].Name)
}

func TestUnpackEbookErrors(t *testing.T) {
	t.Run("not_a_directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		require.Error(t, UnpackEbook(context.Background(), file))
	})
	t.Run("no_zips", func(t *testing.T) {
		require.Error(t, UnpackEbook(context.Background(), t.TempDir()))
	})
}
