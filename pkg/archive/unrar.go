package archive

import (
	"context"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"gitlab.com/tozd/go/errors"
)

// RARInfo describes one file inside a RAR archive as reported by unrar l.
type RARInfo struct {
	Attributes string
	Date       time.Time
	Name       string
	Size       int64
}

var rarListPattern = regexp.MustCompile(
	`^\s+([A-Z.]{7})\s+(\d+)\s+(\d{4}-\d{2}-\d{2}\s+\d{1,2}:\d{2})\s+(.*)`)

// UnRAR is a simple front-end to an unrar command.
type UnRAR struct {
	// Path to the unrar executable. Defaults to "unrar" in PATH.
	Path string
}

func (u *UnRAR) path() string {
	if u.Path != "" {
		return u.Path
	}
	return "unrar"
}

type pipeReader struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *pipeReader) Close() error {
	p.ReadCloser.Close()
	return p.cmd.Wait()
}

// Pipe streams a single file out of a RAR archive. Close waits for the unrar
// process to exit.
func (u *UnRAR) Pipe(ctx context.Context, rar, innerFilename string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, u.path(), "p", "-y", "-inul", rar, innerFilename)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Errorf("opening unrar stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Errorf("starting unrar: %w", err)
	}
	return &pipeReader{ReadCloser: stdout, cmd: cmd}, nil
}

// TestExtraction runs unrar's extraction test on the archive, optionally
// limited to innerFilename.
func (u *UnRAR) TestExtraction(ctx context.Context, rar, innerFilename string) error {
	args := []string{"t", "-y", "-inul", rar}
	if innerFilename != "" {
		args = append(args, innerFilename)
	}
	if err := exec.CommandContext(ctx, u.path(), args...).Run(); err != nil {
		return errors.Errorf("extraction test of %s failed: %w", rar, err)
	}
	return nil
}

// ExtractAll extracts the archive into dir with unrar x.
func (u *UnRAR) ExtractAll(ctx context.Context, rar, dir string) error {
	cmd := exec.CommandContext(ctx, u.path(), "x", "-y", rar)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return errors.Errorf("extracting %s: %w", rar, err)
	}
	return nil
}

// ListFiles returns the files inside a RAR archive.
func (u *UnRAR) ListFiles(ctx context.Context, rar string) ([]RARInfo, error) {
	out, err := exec.CommandContext(ctx, u.path(), "l", "-y", rar).Output()
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", rar, err)
	}
	return parseRARListing(string(out))
}

func parseRARListing(out string) ([]RARInfo, error) {
	var infos []RARInfo
	for _, line := range regexp.MustCompile(`\r?\n`).Split(out, -1) {
		m := rarListPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		size, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, errors.Errorf("parsing size in %q: %w", line, err)
		}
		date, err := time.Parse("2006-01-02 15:04", normalizeSpace(m[3]))
		if err != nil {
			return nil, errors.Errorf("parsing date in %q: %w", line, err)
		}
		infos = append(infos, RARInfo{Attributes: m[1], Date: date, Name: m[4], Size: size})
	}
	return infos, nil
}

var spaceRunPattern = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return spaceRunPattern.ReplaceAllString(s, " ")
}
