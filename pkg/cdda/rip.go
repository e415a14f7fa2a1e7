package cdda

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RipOptions controls Rip.
type RipOptions struct {
	// AlbumArtist overrides the ALBUMARTIST tag. Defaults to the CDDB artist.
	AlbumArtist string
	// AlbumDir is the directory name for the rip. Defaults to
	// artist-album-year.
	AlbumDir string
	// OutputDir is the parent of AlbumDir. Defaults to the current directory.
	OutputDir string
	// NeverSkip is passed to cdparanoia's --never-skip option.
	NeverSkip int
	// StderrCallback receives non-empty lines of cdparanoia's stderr output.
	StderrCallback func(line string)
}

// Rip rips the audio disc in drive to FLAC files, tagged with the given CDDB
// metadata. cdparanoia and flac must be in PATH.
func Rip(ctx context.Context, drive string, result *CDDBResult, opts *RipOptions) error {
	if opts == nil {
		opts = &RipOptions{}
	}
	neverSkip := opts.NeverSkip
	if neverSkip == 0 {
		neverSkip = 5
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	albumDir := opts.AlbumDir
	if albumDir == "" {
		albumDir = fmt.Sprintf("%s-%s-%d", result.Artist, result.Album, result.Year)
	}
	albumDir = filepath.Join(outputDir, albumDir)
	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", albumDir, err)
	}
	albumArtist := opts.AlbumArtist
	if albumArtist == "" {
		albumArtist = result.Artist
	}
	logger := zerolog.Ctx(ctx)
	for i, track := range result.Tracks {
		trackNo := i + 1
		wav := filepath.Join(albumDir, fmt.Sprintf("%02d-%s-%s.wav", trackNo, result.Artist, track))
		flac := strings.TrimSuffix(wav, ".wav") + ".flac"
		args := []string{"--force-cdrom-device=" + drive}
		if opts.StderrCallback != nil {
			args = append(args, "--quiet", "--stderr-progress")
		}
		args = append(args,
			fmt.Sprintf("--never-skip=%d", neverSkip),
			"--abort-on-skip",
			fmt.Sprintf("%d", trackNo),
			wav)
		cmd := exec.CommandContext(ctx, "cdparanoia", args...)
		if opts.StderrCallback != nil {
			stderr, err := cmd.StderrPipe()
			if err != nil {
				return errors.Errorf("opening cdparanoia stderr: %w", err)
			}
			if err := cmd.Start(); err != nil {
				return errors.Errorf("starting cdparanoia: %w", err)
			}
			scanner := bufio.NewScanner(stderr)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					opts.StderrCallback(line)
				}
			}
			if err := cmd.Wait(); err != nil {
				return errors.Errorf("ripping track %d: %w", trackNo, err)
			}
		} else {
			logger.Debug().Int("track", trackNo).Str("title", track).
				Msg("waiting for cdparanoia to finish")
			if err := cmd.Run(); err != nil {
				return errors.Errorf("ripping track %d: %w", trackNo, err)
			}
		}
		encode := exec.CommandContext(ctx, "flac",
			"--delete-input-file", "--force", "--replay-gain", "--silent", "--verify",
			"--output-name="+flac,
			"--tag=ALBUM="+result.Album,
			"--tag=ALBUMARTIST="+albumArtist,
			"--tag=ARTIST="+result.Artist,
			"--tag=GENRE="+result.Genre,
			"--tag=TITLE="+track,
			fmt.Sprintf("--tag=TRACKNUMBER=%02d", trackNo),
			fmt.Sprintf("--tag=YEAR=%04d", result.Year),
			wav)
		if err := encode.Run(); err != nil {
			return errors.Errorf("encoding track %d: %w", trackNo, err)
		}
	}
	return nil
}
