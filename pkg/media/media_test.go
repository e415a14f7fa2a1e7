package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSupported(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		rate    int
		want    bool
		wantErr bool
	}{
		{
			name:   "supported",
			output: "Stream #0:0: Audio: pcm_s16le, 44100 Hz, stereo",
			rate:   44100,
			want:   true,
		},
		{
			name:   "wrong_rate_reported",
			output: "Stream #0:0: Audio: pcm_s16le, 48000 Hz, stereo",
			rate:   44100,
			want:   false,
		},
		{
			name:   "sample_format_rejected",
			output: "cannot set sample format 0x10000 44100 Hz",
			rate:   44100,
			want:   false,
		},
		{
			name:    "device_busy",
			output:  "hw:Audio: Device or resource busy",
			rate:    44100,
			wantErr: true,
		},
		{
			name:    "no_such_device",
			output:  "hw:Missing: No such device",
			rate:    44100,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatSupported(tt.output, tt.rate)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeFFMetadata(t *testing.T) {
	assert.Equal(t, `a\=b`, escapeFFMetadata("a=b"))
	assert.Equal(t, `a\;b\#c`, escapeFFMetadata("a;b#c"))
	assert.Equal(t, `back\\slash`, escapeFFMetadata(`back\slash`))
	assert.Equal(t, "line\\\none", escapeFFMetadata("line\none"))
	assert.Equal(t, "plain", escapeFFMetadata("plain"))
}

func TestMKVHasInfoJSONAttachment(t *testing.T) {
	withAttachment := "File 'x.mkv': container: Matroska\n" +
		"Track ID 0: video (HEVC)\n" +
		"Attachment ID 1: type 'application/json', size 4231 bytes, file name 'info.json'\n"
	assert.True(t, mkvHasInfoJSONAttachment(withAttachment))
	assert.False(t, mkvHasInfoJSONAttachment("File 'x.mkv': container: Matroska\n"))
	otherAttachment := "Attachment ID 1: type 'image/jpeg', size 900 bytes, file name 'cover.jpg'\n"
	assert.False(t, mkvHasInfoJSONAttachment(otherAttachment))
}

func TestInfoJSONPath(t *testing.T) {
	assert.Equal(t, "/tmp/video.info.json", infoJSONPath("/tmp/video.mkv", ""))
	assert.Equal(t, "/tmp/other.json", infoJSONPath("/tmp/video.mkv", "/tmp/other.json"))
}

func TestGroupFiles(t *testing.T) {
	items := []string{
		"20230101120000_front.mp4",
		"20230101120100_front.mp4",
		"20230101120200_front.mp4",
		"20230101130000_front.mp4",
		"20230101130100_front.mp4",
	}
	groups, err := GroupFiles(items, 3, DefaultDashcamTimestampPattern,
		DefaultDashcamTimeLayout)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 3)
	assert.Len(t, groups[1], 2)
}

func TestGroupFilesErrors(t *testing.T) {
	_, err := GroupFiles(nil, 3, DefaultDashcamTimestampPattern, DefaultDashcamTimeLayout)
	require.Error(t, err)
	_, err = GroupFiles([]string{"nodigits.mp4"}, 3, DefaultDashcamTimestampPattern,
		DefaultDashcamTimeLayout)
	require.Error(t, err)
}

func TestFLACTagsArgs(t *testing.T) {
	tags := FLACTags{Artist: "Someone", Album: "Anthology", Track: 3, Year: 1999}
	args := tags.args()
	assert.Contains(t, args, "--set-tag=Artist=Someone")
	assert.Contains(t, args, "--set-tag=Album=Anthology")
	assert.Contains(t, args, "--set-tag=Tracknumber=3")
	assert.Contains(t, args, "--set-tag=Date=1999")
	assert.False(t, tags.Empty())
	assert.True(t, FLACTags{}.Empty())
}

func TestTagCandidates(t *testing.T) {
	assert.Equal(t, []string{"Artist", "ARTIST", "artist"}, tagCandidates("Artist"))
	assert.Equal(t, []string{"Year", "YEAR", "year", "Date", "DATE", "date"},
		tagCandidates("year"))
}

func TestParseShownTag(t *testing.T) {
	assert.Equal(t, "Someone", parseShownTag("ARTIST=Someone\n", "ARTIST"))
	assert.Equal(t, "", parseShownTag("", "ARTIST"))
	assert.Equal(t, "First", parseShownTag("Title=First\nTitle=Second\n", "Title"))
}

func TestSetDateFromInfoJSON(t *testing.T) {
	dir := t.TempDir()
	mediaFile := filepath.Join(dir, "video.mkv")
	jsonFile := filepath.Join(dir, "video.info.json")
	require.NoError(t, os.WriteFile(mediaFile, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"upload_date": "20230405"}`), 0o644))
	require.NoError(t, setDateFromInfoJSON(context.Background(), mediaFile, jsonFile))
	info, err := os.Stat(mediaFile)
	require.NoError(t, err)
	assert.Equal(t, 2023, info.ModTime().Year())
	assert.Equal(t, 4, int(info.ModTime().Month()))

	t.Run("no_upload_date", func(t *testing.T) {
		require.NoError(t, os.WriteFile(jsonFile, []byte(`{}`), 0o644))
		require.NoError(t, setDateFromInfoJSON(context.Background(), mediaFile, jsonFile))
	})
}
