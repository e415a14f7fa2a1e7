// Package media wraps the external tools used to inspect and convert media
// files: ffprobe, ffmpeg, metaflac, MP4Box and the mkvtoolnix suite.
package media

import (
	"context"
	"encoding/json"
	"os/exec"

	"gitlab.com/tozd/go/errors"
)

// ProbeStream is one stream from ffprobe's -show_streams output.
type ProbeStream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
	Duration  string            `json:"duration,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// ProbeFormat is the container information from ffprobe's -show_format
// output.
type ProbeFormat struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration,omitempty"`
	Size       string            `json:"size,omitempty"`
	BitRate    string            `json:"bit_rate,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// ProbeResult is ffprobe's decoded JSON output.
type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

// FFProbe runs ffprobe on path and decodes its JSON output.
func FFProbe(ctx context.Context, path string) (*ProbeResult, error) {
	out, err := exec.CommandContext(ctx, "ffprobe", "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", path).Output()
	if err != nil {
		return nil, errors.Errorf("probing %s: %w", path, err)
	}
	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, errors.Errorf("decoding ffprobe output for %s: %w", path, err)
	}
	return &result, nil
}
