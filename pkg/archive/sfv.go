// Package archive deals with scene release archives: zip sets containing
// split RAR files, SFV checksum files, gog.com makeself installers and a
// small front-end to the unrar command.
package archive

import (
	"bufio"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

var crcSuffixPattern = regexp.MustCompile(`(?i)[a-z0-9]{8}$`)

// ErrNoMatch is returned when an archive does not contain the expected
// files.
var ErrNoMatch = errors.New("no matching files")

// SFVMismatchError is returned when a file's checksum does not match its
// SFV record.
type SFVMismatchError struct {
	Name     string
	Expected uint32
	Actual   uint32
}

func (e *SFVMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %08X, actual %08X", e.Name, e.Expected, e.Actual)
}

// VerifySFV checks every file listed in the SFV file against its recorded
// CRC32. Paths are resolved relative to the SFV file's directory.
func VerifySFV(sfvFile string) error {
	f, err := os.Open(sfvFile)
	if err != nil {
		return errors.Errorf("opening %s: %w", sfvFile, err)
	}
	defer f.Close()
	dir := filepath.Dir(sfvFile)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		line, _, _ = strings.Cut(line, ";")
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if !crcSuffixPattern.MatchString(line) {
			continue
		}
		cut := strings.LastIndex(line, " ")
		if cut < 0 {
			continue
		}
		filename := strings.TrimSpace(line[:cut])
		recorded, err := strconv.ParseUint(line[cut+1:], 16, 32)
		if err != nil {
			return errors.Errorf("parsing CRC for %s: %w", filename, err)
		}
		contents, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return errors.Errorf("reading %s: %w", filename, err)
		}
		if actual := crc32.ChecksumIEEE(contents); actual != uint32(recorded) {
			return errors.WithStack(&SFVMismatchError{
				Name:     filename,
				Expected: uint32(recorded),
				Actual:   actual,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("reading %s: %w", sfvFile, err)
	}
	return nil
}

// WriteSFV writes an SFV file listing files with their CRC32 checksums. The
// file names are recorded without directory components.
func WriteSFV(sfvFile string, files []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "; %s\n", time.Now().Format("2006-01-02 15:04:05.000000-07:00"))
	for _, file := range files {
		contents, err := os.ReadFile(file)
		if err != nil {
			return errors.Errorf("reading %s: %w", file, err)
		}
		fmt.Fprintf(&b, "%s %08X\n", filepath.Base(file), crc32.ChecksumIEEE(contents))
	}
	if err := os.WriteFile(sfvFile, []byte(b.String()), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", sfvFile, err)
	}
	return nil
}
