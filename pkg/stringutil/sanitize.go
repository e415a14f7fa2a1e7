package stringutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	timestampPattern  = regexp.MustCompile(`[0-9]+(?::[0-9]+)+`)
	dashRunPattern    = regexp.MustCompile(`[_\-]+`)
	dotDashPattern    = regexp.MustCompile(`\.-`)
	sDashPattern      = regexp.MustCompile(`([a-z0-9])-s-`)
	underscorePattern = regexp.MustCompile(`_+`)
)

// accentFolder decomposes characters and drops combining marks, so "é"
// becomes "e". Applied only in restricted mode.
var accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const restrictedPunct = "!&'()[]{}$;`^,#"

// SanitizeFilename transforms s into a string safe for use as a filename.
// In restricted mode the output is limited to a character set safe for
// Windows filenames: accents are folded, whitespace and most punctuation
// become underscores and anything non-ASCII left over is replaced.
func SanitizeFilename(s string, restricted bool) string {
	if restricted {
		if folded, _, err := transform.String(accentFolder, s); err == nil {
			s = folded
		}
	}
	// Keep timestamps like 12:34:56 readable.
	s = timestampPattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, ":", "_")
	})
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '?' || r < 32 || r == 127:
			// dropped
		case r == '"':
			if !restricted {
				b.WriteRune('\'')
			}
		case r == ':':
			if restricted {
				b.WriteString("_-")
			} else {
				b.WriteString(" -")
			}
		case strings.ContainsRune(`\/|*<>`, r):
			b.WriteRune('_')
		case restricted && (strings.ContainsRune(restrictedPunct, r) || unicode.IsSpace(r) || r > 127):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	result := b.String()
	if restricted {
		result = underscorePattern.ReplaceAllString(result, "_")
		result = strings.TrimPrefix(result, "-_")
	}
	if strings.HasPrefix(result, "-") {
		result = "_" + result[1:]
	}
	result = strings.TrimLeft(result, ".")
	if result == "" {
		return "_"
	}
	return result
}

// Sanitize transforms s to a 'sanitised' form: a lowercase, dash-separated
// rendition of SanitizeFilename's output.
func Sanitize(s string, restricted bool) string {
	out := dashRunPattern.ReplaceAllString(strings.ToLower(SanitizeFilename(s, restricted)), "-")
	out = dotDashPattern.ReplaceAllString(out, "-")
	return sDashPattern.ReplaceAllString(out, "${1}s-")
}
