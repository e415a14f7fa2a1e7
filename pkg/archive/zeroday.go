package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	rarToSFVPattern  = regexp.MustCompile(`(?:\.part\d+)?\.r(?:[0-9][0-9]|ar)$`)
	partRARPattern   = regexp.MustCompile(`(?i)\.part[0-9]{0,3}\.rar$`)
	rarMemberPattern = regexp.MustCompile(`\.r(?:ar|\d{2})$`)
)

func extractZip(zipFile, destDir string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return errors.Errorf("opening %s: %w", zipFile, err)
	}
	defer r.Close()
	for _, member := range r.File {
		if err := extractZipMember(member, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractZipMember(member *zip.File, destDir string) error {
	// Keep extraction inside destDir.
	dest := filepath.Join(destDir, filepath.Clean("/"+member.Name))
	if member.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	src, err := member.Open()
	if err != nil {
		return errors.Errorf("opening %s in archive: %w", member.Name, err)
	}
	defer src.Close()
	out, err := os.Create(dest)
	if err != nil {
		return errors.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return errors.Errorf("extracting %s: %w", member.Name, err)
	}
	return out.Close()
}

// Unpack0day unpacks RAR files from 0day zip file sets located in dir. Every
// zip is extracted and removed, then an SFV covering the RAR set is written
// next to them. When removeDiz is set any *.diz files are deleted as well.
func Unpack0day(ctx context.Context, dir string, removeDiz bool) error {
	logger := zerolog.Ctx(ctx)
	zips, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	if err != nil {
		return errors.Errorf("globbing %s: %w", dir, err)
	}
	for _, zipFile := range zips {
		logger.Debug().Str("zip", zipFile).Msg("extracting")
		if err := extractZip(zipFile, dir); err != nil {
			return err
		}
		if err := os.Remove(zipFile); err != nil {
			return errors.Errorf("removing %s: %w", zipFile, err)
		}
	}
	if removeDiz {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if strings.EqualFold(filepath.Ext(entry.Name()), ".diz") {
				if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
					return errors.Errorf("removing %s: %w", entry.Name(), err)
				}
			}
		}
	}
	rars, err := filepath.Glob(filepath.Join(dir, "*.rar"))
	if err != nil {
		return errors.Errorf("globbing %s: %w", dir, err)
	}
	if len(rars) == 0 {
		return errors.Errorf("no RAR files after extraction: %w", ErrNoMatch)
	}
	sort.Strings(rars)
	sfvName := rarToSFVPattern.ReplaceAllString(strings.ToLower(filepath.Base(rars[0])), ".sfv")
	pattern := "*.[rstuvwxyz][0-9a][0-9r]"
	for _, rar := range rars {
		if partRARPattern.MatchString(rar) {
			pattern = "*.part*.rar"
			break
		}
	}
	volumes, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return errors.Errorf("globbing %s: %w", dir, err)
	}
	sort.Strings(volumes)
	return WriteSFV(filepath.Join(dir, sfvName), volumes)
}
