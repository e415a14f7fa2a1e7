package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// UnpackEbook extracts the RAR set inside a directory of zip files and moves
// the contained PDF or ePub up one directory, named after the directory. The
// unrar command must be in PATH.
func UnpackEbook(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Errorf("inspecting %s: %w", dir, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	zips, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	if err != nil {
		return errors.Errorf("globbing %s: %w", dir, err)
	}
	if len(zips) == 0 {
		return errors.New("no zip files found")
	}
	var extracted []string
	for _, zipFile := range zips {
		r, err := zip.OpenReader(zipFile)
		if err != nil {
			return errors.Errorf("opening %s: %w", zipFile, err)
		}
		for _, member := range r.File {
			if !rarMemberPattern.MatchString(member.Name) {
				continue
			}
			if err := extractZipMember(member, dir); err != nil {
				r.Close()
				return err
			}
			extracted = append(extracted, filepath.Join(dir, filepath.Clean("/"+member.Name)))
		}
		r.Close()
	}
	var rar string
	for _, name := range extracted {
		if strings.HasSuffix(name, ".rar") {
			rar = name
			break
		}
	}
	if rar == "" {
		return errors.New("no RAR file found in zips")
	}
	// Only the .rar needs extracting, unrar finds the other volumes.
	unrar := &UnRAR{}
	if err := unrar.ExtractAll(ctx, rar, dir); err != nil {
		return err
	}
	var pdfs, epubs []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		switch {
		case strings.HasSuffix(name, ".pdf"):
			pdfs = append(pdfs, entry.Name())
		case strings.HasSuffix(name, ".epub"):
			epubs = append(epubs, entry.Name())
		}
	}
	logger := zerolog.Ctx(ctx)
	var book, ext string
	switch {
	case len(pdfs) == 1:
		contents, err := os.ReadFile(filepath.Join(dir, pdfs[0]))
		if err != nil {
			return errors.Errorf("reading %s: %w", pdfs[0], err)
		}
		if !bytes.HasPrefix(contents, []byte("%PDF")) {
			return errors.Errorf("%s does not have a PDF signature", pdfs[0])
		}
		book, ext = pdfs[0], "pdf"
	case len(pdfs) > 1:
		logger.Debug().Int("count", len(pdfs)).Msg("more than one PDF extracted")
		return errors.Errorf("%d PDF files extracted", len(pdfs))
	case len(epubs) == 1:
		book, ext = epubs[0], "epub"
	case len(epubs) > 1:
		logger.Warn().Int("count", len(epubs)).Msg("more than one ePub extracted")
		return errors.Errorf("%d ePub files extracted", len(epubs))
	default:
		return errors.New("no PDF or ePub extracted")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.Errorf("resolving %s: %w", dir, err)
	}
	target := filepath.Join(filepath.Dir(absDir), filepath.Base(absDir)+"."+ext)
	if err := os.Rename(filepath.Join(dir, book), target); err != nil {
		return errors.Errorf("moving %s: %w", book, err)
	}
	for _, name := range extracted {
		if err := os.Remove(name); err != nil {
			return errors.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}
