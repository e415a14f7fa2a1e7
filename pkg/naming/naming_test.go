package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts *Options
		want string
	}{
		{
			name: "no_stop_words",
			in:   "the quick brown fox",
			want: "The Quick Brown Fox",
		},
		{
			name: "stop_words_lowered",
			in:   "foo of the bar",
			want: "Foo of the Bar",
		},
		{
			name: "roman_numeral_uppercased",
			in:   "part ii",
			want: "Part II",
		},
		{
			name: "mix_not_treated_as_roman",
			in:   "extended mix",
			want: "Extended Mix",
		},
		{
			name: "builtin_names",
			in:   "intro to ios",
			want: "Intro to iOS",
		},
		{
			name: "all_caps_last_word_kept",
			in:   "theme from NASA",
			want: "Theme from NASA",
		},
		{
			name: "all_caps_first_word_kept",
			in:   "DOOM eternal",
			want: "DOOM Eternal",
		},
		{
			name: "english_ordinal",
			in:   "his 2nd album",
			want: "His 2nd Album",
		},
		{
			name: "abbreviation_period_removed",
			in:   "song feat. artist",
			want: "Song feat Artist",
		},
		{
			name: "ampersands",
			in:   "fun and games",
			opts: &Options{Ampersands: true},
			want: "Fun & Games",
		},
		{
			name: "japanese_particles",
			in:   "kimi no na wa",
			opts: &Options{Modes: ModeJapanese},
			want: "Kimi no Na wa",
		},
		{
			name: "custom_names",
			in:   "about acme",
			opts: &Options{Names: map[string]string{"acme": "ACME"}},
			want: "About ACME",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustTitle(tt.in, tt.opts))
		})
	}
}
