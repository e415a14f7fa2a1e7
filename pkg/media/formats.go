package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPCMFormats are the PCM sample formats worth testing against a
// capture device. See ffmpeg -formats for the full list.
var DefaultPCMFormats = []string{
	"f32be", "f32le", "f64be", "f64le", "s8", "s16be", "s16le", "s24be",
	"s24le", "s32be", "s32le", "u8", "u16be", "u16le", "u24be", "u24le",
	"u32be", "u32le",
}

// DefaultSampleRates are the possible frequencies for the DTS format.
var DefaultSampleRates = []int{
	8000, 12000, 16000, 22050, 24000, 32000, 44100, 48000, 64000, 88200,
	96000, 128000, 176400, 192000, 352800, 384000,
}

// FormatRate is a supported combination of PCM sample format and rate.
type FormatRate struct {
	Format string
	Rate   int
}

// formatSupported interprets ffmpeg's output for a single probe attempt.
func formatSupported(output string, rate int) (bool, error) {
	if strings.Contains(output, "Device or resource busy") ||
		strings.Contains(output, "No such device") {
		return false, errors.New("device unavailable")
	}
	if strings.Contains(output, "cannot set sample format 0x") ||
		!strings.Contains(output, fmt.Sprintf("%d Hz", rate)) {
		return false, nil
	}
	return true, nil
}

// SupportedAudioInputFormats finds the sample formats and rates an ALSA
// capture device accepts by invoking ffmpeg once per combination. Pass nil
// for formats or rates to test the defaults.
func SupportedAudioInputFormats(ctx context.Context, inputDevice string, formats []string,
	rates []int) ([]FormatRate, error) {
	if formats == nil {
		formats = DefaultPCMFormats
	}
	if rates == nil {
		rates = DefaultSampleRates
	}
	logger := zerolog.Ctx(ctx)
	var ret []FormatRate
	for _, format := range formats {
		for _, rate := range rates {
			logger.Debug().Str("format", format).Int("rate", rate).Msg("checking")
			cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-loglevel", "info",
				"-f", "alsa", "-acodec", "pcm_"+format, "-ar", fmt.Sprintf("%d", rate),
				"-i", inputDevice)
			out, _ := cmd.CombinedOutput()
			supported, err := formatSupported(strings.TrimSpace(string(out)), rate)
			if err != nil {
				return nil, errors.Errorf("checking %s: %w", inputDevice, err)
			}
			if supported {
				ret = append(ret, FormatRate{Format: format, Rate: rate})
			}
		}
	}
	return ret, nil
}

// IsAudioInputFormatSupported checks a single format and rate combination.
func IsAudioInputFormatSupported(ctx context.Context, inputDevice, format string,
	rate int) (bool, error) {
	supported, err := SupportedAudioInputFormats(ctx, inputDevice, []string{format}, []int{rate})
	if err != nil {
		return false, err
	}
	return len(supported) > 0, nil
}
