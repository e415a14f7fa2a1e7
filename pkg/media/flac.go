package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// FLACTags holds the common Vorbis comment fields the tagger sets. Zero
// values are skipped.
type FLACTags struct {
	Album   string
	Artist  string
	Genre   string
	Title   string
	Track   int
	Year    int
	Picture string
}

func (t FLACTags) args() []string {
	var args []string
	add := func(tag, value string) {
		if value != "" {
			args = append(args, "--set-tag="+tag+"="+value)
		}
	}
	add("Album", t.Album)
	add("Artist", t.Artist)
	add("Genre", t.Genre)
	add("Title", t.Title)
	if t.Track != 0 {
		add("Tracknumber", strconv.Itoa(t.Track))
	}
	if t.Year != 0 {
		add("Date", strconv.Itoa(t.Year))
	}
	if t.Picture != "" {
		args = append(args, "--import-picture-from="+t.Picture)
	}
	return args
}

// Empty reports whether no tag or picture is set.
func (t FLACTags) Empty() bool {
	return len(t.args()) == 0
}

// SetFLACTags sets tags on the given FLAC files with metaflac. When
// deleteAllBefore is set every existing tag is removed first.
func SetFLACTags(ctx context.Context, files []string, tags FLACTags, deleteAllBefore bool) error {
	if tags.Empty() {
		return errors.New("no tags to set")
	}
	base := []string{"--preserve-modtime", "--no-utf8-convert"}
	if deleteAllBefore {
		args := append(append([]string(nil), base...), "--remove-all-tags")
		args = append(args, files...)
		if err := exec.CommandContext(ctx, "metaflac", args...).Run(); err != nil {
			return errors.Errorf("removing tags: %w", err)
		}
	}
	args := append(append([]string(nil), base...), tags.args()...)
	args = append(args, files...)
	if err := exec.CommandContext(ctx, "metaflac", args...).Run(); err != nil {
		return errors.Errorf("setting tags: %w", err)
	}
	return nil
}

// tagCandidates returns the Vorbis comment names to try for a tag name, in
// order.
func tagCandidates(tag string) []string {
	tag = strings.ToLower(tag)
	titled := tag
	if tag != "" {
		titled = strings.ToUpper(tag[:1]) + tag[1:]
	}
	candidates := []string{titled, strings.ToUpper(tag), tag}
	if tag == "year" {
		candidates = append(candidates, "Date", "DATE", "date")
	}
	return candidates
}

// ShowFLACTag reads a tag from a FLAC file, trying common capitalisation
// variants. Track numbers are zero padded to two digits.
func ShowFLACTag(ctx context.Context, file, tag string) (string, error) {
	for _, candidate := range tagCandidates(tag) {
		out, err := exec.CommandContext(ctx, "metaflac", "--show-tag="+candidate, file).Output()
		if err != nil {
			return "", errors.Errorf("reading tag %s from %s: %w", candidate, file, err)
		}
		value := parseShownTag(string(out), candidate)
		if value == "" {
			continue
		}
		if strings.EqualFold(tag, "track") {
			if n, err := strconv.Atoi(value); err == nil {
				value = fmt.Sprintf("%02d", n)
			}
		}
		return value, nil
	}
	return "", nil
}

func parseShownTag(output, tag string) string {
	output = strings.TrimSpace(output)
	if len(output) <= len(tag)+1 {
		return ""
	}
	first := strings.SplitN(output[len(tag)+1:], "\n", 2)[0]
	return strings.TrimSpace(first)
}
