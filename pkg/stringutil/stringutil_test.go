package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no_escapes", in: "plain text", want: "plain text"},
		{name: "single_color", in: "\x1b[31mred\x1b[0m", want: "red"},
		{name: "bold_color", in: "\x1b[1;32m42.00\x1b[0m", want: "42.00"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.in))
		})
	}
}

func TestStripANSIIfNoColors(t *testing.T) {
	t.Run("unset_keeps_escapes", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.Equal(t, "\x1b[31mred\x1b[0m", StripANSIIfNoColors("\x1b[31mred\x1b[0m"))
	})
	t.Run("set_strips", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, "red", StripANSIIfNoColors("\x1b[31mred\x1b[0m"))
	})
}

func TestUnderscorize(t *testing.T) {
	assert.Equal(t, "a_b_c", Underscorize("a b\tc"))
	assert.Equal(t, "a_b", Underscorize("a   b"))
	assert.Equal(t, "", Underscorize(""))
}

func TestIsASCII(t *testing.T) {
	assert.True(t, IsASCII("hello world 123"))
	assert.True(t, IsASCII(""))
	assert.False(t, IsASCII("héllo"))
	assert.False(t, IsASCII("日本語"))
}

func TestHexStringToBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "simple", in: "01020a", want: []byte{0x01, 0x02, 0x0a}},
		{name: "uppercase", in: "DEADBEEF", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "empty", in: "", want: []byte{}},
		{name: "odd_length", in: "abc", wantErr: true},
		{name: "bad_digit", in: "zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexStringToBytes(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com"))
	assert.True(t, IsURL("ytdl://abc123"))
	assert.True(t, IsURL("archive_org://item"))
	assert.False(t, IsURL("/home/user/file.mkv"))
	assert.False(t, IsURL("not a url"))
	assert.False(t, IsURL("bad scheme://x"))
	assert.False(t, IsURL("://x"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		noLower bool
		want    string
	}{
		{name: "basic", in: "Some Title Here", want: "some-title-here"},
		{name: "keeps_case", in: "Some Title", noLower: true, want: "Some-Title"},
		{name: "punctuation_dropped", in: "What's Up?", want: "whats-up"},
		{name: "mixed_separators", in: "a_b - c", want: "a-b-c"},
		{name: "trimmed", in: "  padded  ", want: "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.noLower))
		})
	}
}

func TestIsRomanNumeral(t *testing.T) {
	for _, valid := range []string{"I", "IV", "XIV", "MMXXIV", "iii", "mix"} {
		assert.True(t, IsRomanNumeral(valid), valid)
	}
	for _, invalid := range []string{"", "IIII", "ABC", "X1"} {
		assert.False(t, IsRomanNumeral(invalid), invalid)
	}
}

func TestFixApostrophes(t *testing.T) {
	assert.Equal(t, "Don't", FixApostrophes("Don'T"))
	assert.Equal(t, "What's", FixApostrophes("WHAT'S"))
	assert.Equal(t, "plain", FixApostrophes("plain"))
}

func TestChunks(t *testing.T) {
	t.Run("even_split_with_remainder", func(t *testing.T) {
		got := Chunks([]string{"a", "b", "c", "d", "e", "f", "g", "h"}, 3)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"a", "b", "c"}, got[0])
		assert.Equal(t, []string{"g", "h"}, got[2])
	})
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Chunks([]int{}, 3))
	})
	t.Run("n_larger_than_input", func(t *testing.T) {
		got := Chunks([]int{1, 2, 3}, 5)
		require.Len(t, got, 1)
		assert.Equal(t, []int{1, 2, 3}, got[0])
	})
	t.Run("string_chunks", func(t *testing.T) {
		assert.Equal(t, []string{"abc", "def", "gh"}, ChunksString("abcdefgh", 3))
		assert.Nil(t, ChunksString("", 3))
	})
}

func TestFullwidthToNarrow(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "digits", in: "１２３", want: "123"},
		{name: "letters", in: "ＡＢＣａｂｃ", want: "ABCabc"},
		{name: "yen_to_halfwidth", in: "￥１００", want: "¥100"},
		{name: "ideographic_space", in: "ａ\u3000ｂ", want: "a b"},
		{name: "ellipsis", in: "待って…", want: "待って..."},
		{name: "untouched", in: "already narrow", want: "already narrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullwidthToNarrow(tt.in))
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		restricted bool
		want       string
	}{
		{name: "spaces_become_dashes", in: "Some Title Here", restricted: true, want: "some-title-here"},
		{name: "colon", in: "Artist: Album", restricted: true, want: "artist-album"},
		{name: "accents_folded", in: "Beyoncé", restricted: true, want: "beyonce"},
		{name: "empty", in: "", restricted: true, want: "-"},
		{name: "question_mark_dropped", in: "what?", restricted: true, want: "what"},
		{name: "slashes", in: "a/b", restricted: false, want: "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in, tt.restricted))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b", SanitizeFilename("a/b", true))
	assert.Equal(t, "_", SanitizeFilename("", true))
	assert.Equal(t, "12_34", SanitizeFilename("12:34", true))
	assert.Equal(t, "no_change.txt", SanitizeFilename("no_change.txt", true))
}

func TestUnixPathToWine(t *testing.T) {
	got := UnixPathToWine("/etc")
	assert.Equal(t, `Z:\etc`, got)
	assert.True(t, len(UnixPathToWine("definitely-missing-file")) > 2)
}
