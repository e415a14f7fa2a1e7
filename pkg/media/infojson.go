package media

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ffmetadataEscapePattern = regexp.MustCompile(`([=;#\\\n])`)
	mkvAttachmentPattern    = regexp.MustCompile(
		`^Attachment ID \d+: type 'application/json', size \d+ bytes, file name 'info.json'`)
)

func infoJSONPath(path, infoJSON string) string {
	if infoJSON != "" {
		return infoJSON
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".info.json"
}

// setDateFromInfoJSON sets the media file's modification time to the
// upload_date field, when present.
func setDateFromInfoJSON(ctx context.Context, path, jsonPath string) error {
	logger := zerolog.Ctx(ctx)
	contents, err := os.ReadFile(jsonPath)
	if err != nil {
		return errors.Errorf("reading %s: %w", jsonPath, err)
	}
	var data struct {
		UploadDate string `json:"upload_date"`
	}
	if err := json.Unmarshal(contents, &data); err != nil {
		return errors.Errorf("decoding %s: %w", jsonPath, err)
	}
	uploadDate := strings.TrimSpace(data.UploadDate)
	if uploadDate == "" {
		logger.Debug().Msg("no upload date to set")
		return nil
	}
	logger.Debug().Str("date", uploadDate).Msg("setting date")
	when, err := time.ParseInLocation("20060102", uploadDate, time.Local)
	if err != nil {
		return errors.Errorf("parsing upload date %q: %w", uploadDate, err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		return errors.Errorf("setting times on %s: %w", path, err)
	}
	return nil
}

func mkvHasInfoJSONAttachment(identifyOutput string) bool {
	for _, line := range strings.Split(identifyOutput, "\n") {
		if mkvAttachmentPattern.MatchString(line) {
			return true
		}
	}
	return false
}

func addInfoJSONMKV(ctx context.Context, path, jsonPath string) error {
	out, err := exec.CommandContext(ctx, "mkvmerge", "--identify", path).Output()
	if err != nil {
		return errors.Errorf("identifying %s: %w", path, err)
	}
	logger := zerolog.Ctx(ctx)
	if mkvHasInfoJSONAttachment(string(out)) {
		logger.Warn().Str("file", path).
			Msg("attachment named info.json already exists, not modifying file")
		return nil
	}
	logger.Debug().Msg("attaching info.json to MKV")
	if err := exec.CommandContext(ctx, "mkvpropedit", path, "--attachment-name", "info.json",
		"--add-attachment", jsonPath).Run(); err != nil {
		return errors.Errorf("attaching to %s: %w", path, err)
	}
	return setDateFromInfoJSON(ctx, path, jsonPath)
}

// escapeFFMetadata escapes the characters the ffmetadata format treats
// specially.
func escapeFFMetadata(s string) string {
	return ffmetadataEscapePattern.ReplaceAllString(s, `\$1`)
}

func addInfoJSONFFmpeg(ctx context.Context, path, jsonPath string) error {
	zerolog.Ctx(ctx).Debug().Msg("attaching info.json")
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	metaFile, err := os.CreateTemp(dir, "*.ffmetadata")
	if err != nil {
		return errors.Errorf("creating metadata file: %w", err)
	}
	defer os.Remove(metaFile.Name())
	metaFile.Close()
	if err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-loglevel", "warning", "-y",
		"-i", "file:"+path, "-f", "ffmetadata", metaFile.Name()).Run(); err != nil {
		return errors.Errorf("extracting metadata from %s: %w", path, err)
	}
	metadata, err := os.ReadFile(metaFile.Name())
	if err != nil {
		return errors.Errorf("reading metadata: %w", err)
	}
	infoJSON, err := os.ReadFile(jsonPath)
	if err != nil {
		return errors.Errorf("reading %s: %w", jsonPath, err)
	}
	isMP3 := ext == ".mp3"
	key := "info_json="
	if isMP3 {
		key = `TXXX=info_json\=`
	}
	lines := strings.SplitAfter(string(metadata), "\n")
	entry := key + escapeFFMetadata(string(infoJSON)) + "\n"
	var combined []string
	if len(lines) > 0 {
		combined = append(combined, lines[0])
	}
	combined = append(combined, entry)
	if len(lines) > 1 {
		combined = append(combined, lines[1:]...)
	}
	newMeta, err := os.CreateTemp(dir, "*.ffmetadata")
	if err != nil {
		return errors.Errorf("creating metadata file: %w", err)
	}
	defer os.Remove(newMeta.Name())
	if _, err := newMeta.WriteString(strings.Join(combined, "")); err != nil {
		newMeta.Close()
		return errors.Errorf("writing metadata: %w", err)
	}
	if err := newMeta.Close(); err != nil {
		return errors.Errorf("writing metadata: %w", err)
	}
	outFile, err := os.CreateTemp(dir, "*"+ext)
	if err != nil {
		return errors.Errorf("creating output file: %w", err)
	}
	outFile.Close()
	args := []string{"-y", "-i", "file:" + path, "-i", "file:" + newMeta.Name(),
		"-map_metadata", "1", "-c", "copy"}
	if isMP3 {
		args = append(args, "-write_id3v1", "1")
	}
	args = append(args, "file:"+outFile.Name())
	if err := exec.CommandContext(ctx, "ffmpeg", args...).Run(); err != nil {
		os.Remove(outFile.Name())
		return errors.Errorf("remuxing %s: %w", path, err)
	}
	if err := os.Rename(outFile.Name(), path); err != nil {
		return errors.Errorf("replacing %s: %w", path, err)
	}
	return setDateFromInfoJSON(ctx, path, jsonPath)
}

func addInfoJSONMP4(ctx context.Context, path, jsonPath string) error {
	// The first item may not exist yet, ignore failure.
	_ = exec.CommandContext(ctx, "MP4Box", "-rem-item", "1", path).Run()
	if err := exec.CommandContext(ctx, "MP4Box", "-set-meta", "mp21", path).Run(); err != nil {
		return errors.Errorf("setting meta type on %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Msg("attaching info.json to MP4")
	if err := exec.CommandContext(ctx, "MP4Box", "-add-item",
		jsonPath+":replace:name=youtube-dl metadata:mime=application/json:encoding=utf8",
		path).Run(); err != nil {
		return errors.Errorf("attaching to %s: %w", path, err)
	}
	return setDateFromInfoJSON(ctx, path, jsonPath)
}

// AddInfoJSON embeds a yt-dlp info.json file into the media file at path.
// When infoJSON is empty the file next to path with the .info.json suffix is
// used. The info.json file is deleted on success. FLAC, MP3 and Opus need
// ffmpeg, MP4 needs gpac and Matroska needs mkvtoolnix.
func AddInfoJSON(ctx context.Context, path, infoJSON string) error {
	jsonPath := infoJSONPath(path, infoJSON)
	if _, err := os.Stat(jsonPath); err != nil {
		zerolog.Ctx(ctx).Warn().Str("path", jsonPath).Msg("JSON path not found")
		return nil
	}
	var err error
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "flac", "mp3", "opus":
		err = addInfoJSONFFmpeg(ctx, path, jsonPath)
	case "m4a", "m4b", "m4p", "m4r", "m4v", "mp4":
		err = addInfoJSONMP4(ctx, path, jsonPath)
	case "mkv":
		err = addInfoJSONMKV(ctx, path, jsonPath)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(jsonPath); err != nil {
		return errors.Errorf("removing %s: %w", jsonPath, err)
	}
	return nil
}

// InfoJSON extracts the embedded info.json from the media file at path.
func InfoJSON(ctx context.Context, path string) (json.RawMessage, error) {
	var out string
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "flac":
		probe, err := FFProbe(ctx, path)
		if err != nil {
			return nil, err
		}
		out = probe.Format.Tags["info_json"]
	case "m4a", "m4b", "m4p", "m4r", "m4v", "mp4":
		raw, err := exec.CommandContext(ctx, "MP4Box", "-dump-item", "1:path=/dev/stdout",
			path).Output()
		if err != nil {
			return nil, errors.Errorf("dumping item from %s: %w", path, err)
		}
		out = strings.TrimSpace(string(raw))
	case "mkv":
		raw, err := exec.CommandContext(ctx, "mkvextract", path, "attachments",
			"1:/dev/stdout").Output()
		if err != nil {
			return nil, errors.Errorf("extracting attachment from %s: %w", path, err)
		}
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		if len(lines) < 2 {
			return nil, errors.Errorf("unexpected mkvextract output from %s", path)
		}
		out = lines[1]
	case "mp3":
		probe, err := FFProbe(ctx, path)
		if err != nil {
			return nil, err
		}
		out = strings.Replace(probe.Format.Tags["TXXX"], "info_json=", "", 1)
	case "opus":
		probe, err := FFProbe(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(probe.Streams) == 0 {
			return nil, errors.Errorf("no streams in %s", path)
		}
		out = probe.Streams[0].Tags["info_json"]
	default:
		return nil, errors.Errorf("unsupported file type %s", filepath.Ext(path))
	}
	if out == "" {
		return nil, errors.Errorf("no info.json found in %s", path)
	}
	if !json.Valid([]byte(out)) {
		return nil, errors.Errorf("embedded info.json in %s is not valid JSON", path)
	}
	return json.RawMessage(out), nil
}
