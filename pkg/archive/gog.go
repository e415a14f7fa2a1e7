package archive

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	gogFilesizePattern = regexp.MustCompile(`filesizes="(\d+?)"`)
	gogOffsetPattern   = regexp.MustCompile("offset=`head -n (\\d+?) \"\\$0\"")
)

// ExtractGOG splits a Linux gog.com makeself installer into its three parts:
// the shell unpacker script, the MojoSetup archive and the game data. They
// are written to outputDir as unpacker.sh, mojosetup.tar.gz and data.zip.
// outputDir must not already exist.
func ExtractGOG(ctx context.Context, filename, outputDir string) error {
	input, err := os.Open(filename)
	if err != nil {
		return errors.Errorf("opening %s: %w", filename, err)
	}
	defer input.Close()
	if err := os.MkdirAll(filepath.Dir(outputDir), 0o755); err != nil {
		return errors.Errorf("creating parent of %s: %w", outputDir, err)
	}
	if err := os.Mkdir(outputDir, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", outputDir, err)
	}
	logger := zerolog.Ctx(ctx)
	// The first 10 KiB is more than enough to find the line count of the
	// embedded script.
	beginning := make([]byte, 10240)
	n, err := io.ReadFull(input, beginning)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Errorf("reading %s: %w", filename, err)
	}
	offsetMatch := gogOffsetPattern.FindSubmatch(beginning[:n])
	if offsetMatch == nil {
		return errors.Errorf("script line offset not found, not a makeself archive: %w", ErrNoMatch)
	}
	scriptLines, err := strconv.Atoi(string(offsetMatch[1]))
	if err != nil {
		return errors.Errorf("parsing script line count: %w", err)
	}
	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return errors.Errorf("seeking: %w", err)
	}
	// Count bytes over scriptLines lines to get the script size.
	reader := bufio.NewReader(input)
	var scriptSize int64
	for i := 0; i < scriptLines; i++ {
		line, err := reader.ReadBytes('\n')
		scriptSize += int64(len(line))
		if err != nil {
			return errors.Errorf("reading script line %d: %w", i+1, err)
		}
	}
	logger.Debug().Int64("size", scriptSize).Msg("makeself script size")
	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return errors.Errorf("seeking: %w", err)
	}
	script := make([]byte, scriptSize)
	if _, err := io.ReadFull(input, script); err != nil {
		return errors.Errorf("reading script: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "unpacker.sh"), script, 0o755); err != nil {
		return errors.Errorf("writing unpacker.sh: %w", err)
	}
	// filesizes is the MojoSetup archive size, not the game data.
	filesizeMatch := gogFilesizePattern.FindSubmatch(script)
	if filesizeMatch == nil {
		return errors.New("filesizes not found in script")
	}
	filesize, err := strconv.ParseInt(string(filesizeMatch[1]), 10, 64)
	if err != nil {
		return errors.Errorf("parsing filesizes: %w", err)
	}
	logger.Debug().Int64("size", filesize).Msg("MojoSetup archive size")
	if _, err := input.Seek(scriptSize, io.SeekStart); err != nil {
		return errors.Errorf("seeking: %w", err)
	}
	setup, err := os.Create(filepath.Join(outputDir, "mojosetup.tar.gz"))
	if err != nil {
		return errors.Errorf("creating mojosetup.tar.gz: %w", err)
	}
	if _, err := io.CopyN(setup, input, filesize); err != nil {
		setup.Close()
		return errors.Errorf("extracting MojoSetup archive: %w", err)
	}
	if err := setup.Close(); err != nil {
		return errors.Errorf("closing mojosetup.tar.gz: %w", err)
	}
	data, err := os.Create(filepath.Join(outputDir, "data.zip"))
	if err != nil {
		return errors.Errorf("creating data.zip: %w", err)
	}
	if _, err := io.Copy(data, input); err != nil {
		data.Close()
		return errors.Errorf("extracting game data: %w", err)
	}
	return data.Close()
}
