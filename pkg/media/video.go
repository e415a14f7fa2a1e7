package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// StaticTextVideoOptions controls StaticTextVideo.
type StaticTextVideoOptions struct {
	// Font name passed to ImageMagick. Defaults to Roboto.
	Font string
	// NVENC encodes with h264_nvenc.
	NVENC bool
	// VideoToolbox encodes with hevc_videotoolbox.
	VideoToolbox bool
}

// StaticTextVideo creates a video of static centred text with the audio file
// passed in. Requires ImageMagick and ffmpeg. The output lands next to the
// audio file with an -audio.mkv suffix.
func StaticTextVideo(ctx context.Context, audioFile, text string,
	opts *StaticTextVideoOptions) (string, error) {
	if opts == nil {
		opts = &StaticTextVideoOptions{}
	}
	if opts.NVENC && opts.VideoToolbox {
		return "", errors.New("nvenc and videotoolbox options are exclusive")
	}
	font := opts.Font
	if font == "" {
		font = "Roboto"
	}
	dir := filepath.Dir(audioFile)
	stem := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	out := filepath.Join(dir, stem+"-audio.mkv")
	image, err := os.CreateTemp(".", "*.png")
	if err != nil {
		return "", errors.Errorf("creating image file: %w", err)
	}
	image.Close()
	defer os.Remove(image.Name())
	if err := exec.CommandContext(ctx, "magick", "-font", font, "-size", "1920x1080",
		"xc:black", "-fill", "white", "-pointsize", "50", "-draw",
		fmt.Sprintf("gravity Center text 0,0 '%s'", text), image.Name()).Run(); err != nil {
		return "", errors.Errorf("rendering text image: %w", err)
	}
	args := []string{"-loglevel", "warning", "-hide_banner", "-y", "-loop", "1",
		"-i", image.Name(), "-i", audioFile, "-shortest", "-acodec", "copy"}
	switch {
	case opts.NVENC:
		args = append(args, "-vcodec", "h264_nvenc", "-profile:v", "high", "-level", "1",
			"-preset", "llhq", "-coder:v", "cabac", "-b:v", "1M")
	case opts.VideoToolbox:
		args = append(args, "-vcodec", "hevc_videotoolbox", "-profile:v", "main", "-level", "1",
			"-b:v", "0.5M")
	default:
		args = append(args, "-vcodec", "libx265", "-crf", "20", "-level", "1",
			"-profile:v", "main")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-b:v", "1M", "-maxrate:v", "1M", out)
	zerolog.Ctx(ctx).Debug().Str("output", out).Msg("encoding")
	if err := exec.CommandContext(ctx, "ffmpeg", args...).Run(); err != nil {
		return "", errors.Errorf("encoding %s: %w", out, err)
	}
	return out, nil
}

// HLGToSDROptions controls HLGToSDR.
type HLGToSDROptions struct {
	// CRF defaults to 20.
	CRF int
	// Codec is the output video codec, libx265 or libx264. Defaults to
	// libx265.
	Codec string
	// OutputFile defaults to the input with an -sdr suffix before the
	// extension.
	OutputFile string
	// InputArgs are extra ffmpeg arguments placed before -i.
	InputArgs []string
	// OutputArgs are extra ffmpeg arguments placed after the input.
	OutputArgs []string
	// Fast skips the initial HLG normalisation pass.
	Fast bool
	// DeleteAfter removes the input file on success.
	DeleteAfter bool
}

const (
	hlgToSDRFilterFast = "zscale=t=linear:npl=100," +
		"format=gbrpf32le," +
		"zscale=p=bt709," +
		"tonemap=tonemap=hable:desat=0," +
		"zscale=t=bt709:m=bt709:r=tv," +
		"format=yuv420p"
	hlgToSDRFilter = "zscale=tin=arib-std-b67:min=bt2020nc:pin=bt2020:rin=tv:" +
		"t=arib-std-b67:m=bt2020nc:p=bt2020:r=tv," + hlgToSDRFilterFast
)

// HLGToSDR converts a HLG HDR video to SDR with ffmpeg's zscale and tonemap
// filters.
func HLGToSDR(ctx context.Context, inputFile string, opts *HLGToSDROptions) (string, error) {
	if opts == nil {
		opts = &HLGToSDROptions{}
	}
	crf := opts.CRF
	if crf == 0 {
		crf = 20
	}
	codec := opts.Codec
	if codec == "" {
		codec = "libx265"
	}
	vf := hlgToSDRFilter
	if opts.Fast {
		vf = hlgToSDRFilterFast
	}
	outputFile := opts.OutputFile
	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = strings.TrimSuffix(inputFile, ext) + "-sdr" + ext
	}
	args := []string{"-hide_banner", "-y"}
	args = append(args, opts.InputArgs...)
	args = append(args, "-i", inputFile)
	args = append(args, opts.OutputArgs...)
	args = append(args, "-c:v", codec, "-crf", fmt.Sprintf("%d", crf), "-vf", vf,
		"-acodec", "copy", "-movflags", "+faststart", outputFile)
	zerolog.Ctx(ctx).Debug().Strs("args", args).Msg("running ffmpeg")
	if err := exec.CommandContext(ctx, "ffmpeg", args...).Run(); err != nil {
		return "", errors.Errorf("converting %s: %w", inputFile, err)
	}
	if opts.DeleteAfter {
		if err := os.Remove(inputFile); err != nil {
			return "", errors.Errorf("removing %s: %w", inputFile, err)
		}
	}
	return outputFile, nil
}
