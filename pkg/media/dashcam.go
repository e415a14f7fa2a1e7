package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDashcamTimestampPattern extracts the timestamp prefix from Red
// Tiger dashcam file names.
var DefaultDashcamTimestampPattern = regexp.MustCompile(`^(\d+)_.*`)

// DefaultDashcamTimeLayout matches the timestamp captured by
// DefaultDashcamTimestampPattern.
const DefaultDashcamTimeLayout = "20060102150405"

// GroupFiles groups file paths into recording sessions. The timestamp is
// extracted from each base name with pattern's first capture group and
// parsed with layout. Files more than clipLength minutes apart start a new
// group.
func GroupFiles(items []string, clipLength int, pattern *regexp.Regexp,
	layout string) ([][]string, error) {
	if len(items) == 0 {
		return nil, errors.New("no files to group")
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	parse := func(item string) (time.Time, error) {
		m := pattern.FindStringSubmatch(filepath.Base(item))
		if m == nil {
			return time.Time{}, errors.Errorf("%s does not match %s", item, pattern)
		}
		when, err := time.ParseInLocation(layout, m[1], time.Local)
		if err != nil {
			return time.Time{}, errors.Errorf("parsing timestamp in %s: %w", item, err)
		}
		return when, nil
	}
	groups := [][]string{{sorted[0]}}
	for _, item := range sorted[1:] {
		group := groups[len(groups)-1]
		thisTime, err := parse(item)
		if err != nil {
			return nil, err
		}
		lastTime, err := parse(group[len(group)-1])
		if err != nil {
			return nil, err
		}
		diff := math.Floor(thisTime.Sub(lastTime).Seconds() / 60)
		if diff > float64(clipLength) {
			groups = append(groups, []string{item})
		} else {
			groups[len(groups)-1] = append(group, item)
		}
	}
	return groups, nil
}

// DashcamOptions controls ArchiveDashcamFootage. The defaults are intended
// for Red Tiger dashcam output.
type DashcamOptions struct {
	AllowGroupDiscrepancyResolution bool
	ClipLength                      int
	HWAccel                         string
	Level                           int
	Overwrite                       bool
	TimestampPattern                *regexp.Regexp
	Preset                          string
	RearCrop                        string
	RearViewScaleDivisor            float64
	SetPTS                          string
	TempDir                         string
	Tier                            string
	TimeLayout                      string
	VideoBitrate                    string
	VideoDecoder                    string
	VideoEncoder                    string
	VideoMaxBitrate                 string
}

// DefaultDashcamOptions returns the defaults for ArchiveDashcamFootage.
func DefaultDashcamOptions() *DashcamOptions {
	return &DashcamOptions{
		AllowGroupDiscrepancyResolution: true,
		ClipLength:                      3,
		HWAccel:                         "auto",
		Level:                           5,
		TimestampPattern:                DefaultDashcamTimestampPattern,
		Preset:                          "p5",
		RearCrop:                        "1920:1020:0:0",
		RearViewScaleDivisor:            2.5,
		SetPTS:                          "0.25*PTS",
		Tier:                            "high",
		TimeLayout:                      DefaultDashcamTimeLayout,
		VideoBitrate:                    "0k",
		VideoDecoder:                    "hevc_cuvid",
		VideoEncoder:                    "hevc_nvenc",
		VideoMaxBitrate:                 "15M",
	}
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", dir, err)
	}
	var items []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		items = append(items, filepath.Join(dir, entry.Name()))
	}
	return items, nil
}

// ArchiveDashcamFootage batch encodes dashcam footage, overlaying the rear
// camera view in the bottom right of the front video. Files are grouped into
// sessions by timestamp and each session is concatenated into one Matroska
// file in outputDir. Source files are removed once their session is encoded.
func ArchiveDashcamFootage(ctx context.Context, frontDir, rearDir, outputDir string,
	opts *DashcamOptions) error {
	if opts == nil {
		opts = DefaultDashcamOptions()
	}
	logger := zerolog.Ctx(ctx)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Errorf("creating %s: %w", outputDir, err)
	}
	var inputOptions []string
	if opts.Overwrite {
		inputOptions = append(inputOptions, "-y")
	}
	if opts.HWAccel != "" {
		inputOptions = append(inputOptions, "-hwaccel", opts.HWAccel)
		if opts.VideoDecoder != "" {
			inputOptions = append(inputOptions, "-c:v", opts.VideoDecoder)
		}
	}
	cropStr := ""
	if opts.RearCrop != "" {
		cropStr = "crop=" + opts.RearCrop + ","
	}
	setptsStr := ""
	if opts.SetPTS != "" {
		setptsStr = ",setpts=" + opts.SetPTS
	}
	filterComplex := fmt.Sprintf(
		"[0]%sscale=iw/%g:ih/%g [pip]; [1][pip]overlay=main_w-overlay_w:main_h-overlay_h%s",
		cropStr, opts.RearViewScaleDivisor, opts.RearViewScaleDivisor, setptsStr)
	outputOptions := []string{"-an", "-filter_complex", filterComplex}
	if opts.VideoBitrate != "" {
		outputOptions = append(outputOptions, "-b:v", opts.VideoBitrate)
	}
	if opts.VideoMaxBitrate != "" {
		outputOptions = append(outputOptions, "-maxrate:v", opts.VideoMaxBitrate)
	}
	outputOptions = append(outputOptions, "-vcodec", opts.VideoEncoder)
	if opts.Preset != "" {
		outputOptions = append(outputOptions, "-preset", opts.Preset)
	}
	if opts.Level != 0 {
		outputOptions = append(outputOptions, "-level", fmt.Sprintf("%d", opts.Level))
	}
	if opts.Tier != "" {
		outputOptions = append(outputOptions, "-tier", opts.Tier)
	}
	outputOptions = append(outputOptions, "-f", "matroska")
	rearItems, err := listDir(rearDir)
	if err != nil {
		return err
	}
	frontItems, err := listDir(frontDir)
	if err != nil {
		return err
	}
	backGroups, err := GroupFiles(rearItems, opts.ClipLength, opts.TimestampPattern,
		opts.TimeLayout)
	if err != nil {
		return err
	}
	frontGroups, err := GroupFiles(frontItems, opts.ClipLength, opts.TimestampPattern,
		opts.TimeLayout)
	if err != nil {
		return err
	}
	logger.Debug().Int("back", len(backGroups)).Int("front", len(frontGroups)).
		Msg("group counts")
	if len(backGroups) != len(frontGroups) {
		if !opts.AllowGroupDiscrepancyResolution {
			return errors.Errorf("%d back groups, %d front groups",
				len(backGroups), len(frontGroups))
		}
		logger.Warn().Msg("group counts do not match, attempting resolution")
		var kept [][]string
		for _, group := range backGroups {
			if len(group) > 1 {
				kept = append(kept, group)
			}
		}
		backGroups = kept
		if len(backGroups) != len(frontGroups) {
			return errors.Errorf("%d back groups, %d front groups",
				len(backGroups), len(frontGroups))
		}
		logger.Info().Msg("resolved by ignoring single item rear videos")
	}
	for groupIndex, backGroup := range backGroups {
		frontGroup := frontGroups[groupIndex]
		if len(backGroup) != len(frontGroup) {
			if !opts.AllowGroupDiscrepancyResolution {
				return errors.Errorf("%d back videos, %d front videos in group %d",
					len(backGroup), len(frontGroup), groupIndex)
			}
			logger.Warn().Msg("list lengths of front and back videos do not match")
			switch {
			case len(backGroup)-len(frontGroup) == 1:
				last := backGroup[len(backGroup)-1]
				backGroup = backGroup[:len(backGroup)-1]
				if err := os.Remove(last); err != nil {
					return errors.Errorf("removing %s: %w", last, err)
				}
				logger.Info().Str("file", last).Msg("ignored trailing rear video")
			case len(frontGroup)-len(backGroup) == 1:
				last := frontGroup[len(frontGroup)-1]
				frontGroup = frontGroup[:len(frontGroup)-1]
				if err := os.Remove(last); err != nil {
					return errors.Errorf("removing %s: %w", last, err)
				}
				logger.Info().Str("file", last).Msg("ignored trailing front video")
			default:
				return errors.Errorf("cannot resolve group %d automatically", groupIndex)
			}
		}
		if err := encodeDashcamGroup(ctx, backGroup, frontGroup, outputDir, inputOptions,
			outputOptions, opts); err != nil {
			return err
		}
	}
	return nil
}

func encodeDashcamGroup(ctx context.Context, backGroup, frontGroup []string, outputDir string,
	inputOptions, outputOptions []string, opts *DashcamOptions) error {
	logger := zerolog.Ctx(ctx)
	concat, err := os.CreateTemp(opts.TempDir, "concat-*.txt")
	if err != nil {
		return errors.Errorf("creating concat file: %w", err)
	}
	defer os.Remove(concat.Name())
	var toBeMerged []string
	cleanup := func() {
		for _, path := range toBeMerged {
			os.Remove(path)
		}
	}
	for i, backFile := range backGroup {
		frontFile := frontGroup[i]
		logger.Debug().Str("back", backFile).Str("front", frontFile).Msg("merging")
		args := []string{"-hide_banner"}
		args = append(args, inputOptions...)
		args = append(args, "-i", backFile, "-i", frontFile)
		args = append(args, outputOptions...)
		args = append(args, "-")
		merged, err := os.CreateTemp(opts.TempDir, fmt.Sprintf("%04d-*.mkv", i))
		if err != nil {
			cleanup()
			return errors.Errorf("creating temporary file: %w", err)
		}
		cmd := exec.CommandContext(ctx, "ffmpeg", args...)
		cmd.Stdout = merged
		runErr := cmd.Run()
		merged.Close()
		if runErr != nil {
			os.Remove(merged.Name())
			cleanup()
			return errors.Errorf("merging %s and %s: %w", backFile, frontFile, runErr)
		}
		toBeMerged = append(toBeMerged, merged.Name())
		fmt.Fprintf(concat, "file '%s'\n", merged.Name())
	}
	if err := concat.Close(); err != nil {
		cleanup()
		return errors.Errorf("writing concat file: %w", err)
	}
	base := filepath.Base(frontGroup[0])
	outputPath := filepath.Join(outputDir,
		strings.TrimSuffix(base, filepath.Ext(base))+".mkv")
	if !opts.Overwrite {
		suffix := 1
		for {
			if _, err := os.Stat(outputPath); err != nil {
				break
			}
			stem := strings.TrimSuffix(filepath.Base(outputPath), ".mkv")
			if suffix > 1 {
				stem = stem[:len(stem)-5]
			}
			outputPath = filepath.Join(outputDir, fmt.Sprintf("%s-%04d.mkv", stem, suffix))
			suffix++
		}
	}
	logger.Debug().Str("output", outputPath).Msg("concatenating")
	if err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-y", "-f", "concat",
		"-safe", "0", "-i", concat.Name(), "-c", "copy", outputPath).Run(); err != nil {
		cleanup()
		return errors.Errorf("concatenating group: %w", err)
	}
	cleanup()
	for _, path := range append(append([]string(nil), backGroup...), frontGroup...) {
		if err := os.Remove(path); err != nil {
			return errors.Errorf("removing %s: %w", path, err)
		}
		logger.Debug().Str("file", path).Msg("removed source")
	}
	return nil
}
