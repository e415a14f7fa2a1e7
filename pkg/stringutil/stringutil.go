// Package stringutil contains small string transforms shared by the string
// commands: filename sanitisation, slug generation, fullwidth conversion and
// friends.
package stringutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	stripANSIPattern  = regexp.MustCompile(`\x1B\[\d+(;\d+){0,2}m`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	slugDashPattern   = regexp.MustCompile(`[-\s_]+`)
	slugDropPattern   = regexp.MustCompile(`[^\w\s-]`)
	romanPattern      = regexp.MustCompile(`(?i)^M{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)
	apostrophePattern = regexp.MustCompile(`[A-Za-z]+('[A-Za-z]+)?`)
)

// StripANSI removes ANSI SGR escape sequences (ECMA-048) from s.
func StripANSI(s string) string {
	return stripANSIPattern.ReplaceAllString(s, "")
}

// StripANSIIfNoColors strips ANSI colour codes when the NO_COLOR environment
// variable is set. See https://no-color.org/.
func StripANSIIfNoColors(s string) string {
	if os.Getenv("NO_COLOR") != "" {
		return StripANSI(s)
	}
	return s
}

// Underscorize replaces every run of whitespace with a single underscore.
func Underscorize(s string) string {
	return whitespacePattern.ReplaceAllString(s, "_")
}

// IsASCII reports whether s consists only of ASCII characters.
func IsASCII(s string) bool {
	for _, r := range s {
		if r >= 128 {
			return false
		}
	}
	return true
}

// HexStringToBytes converts a hex string such as "01020a" to bytes.
func HexStringToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.Errorf("hex string has odd length %d", len(s))
	}
	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		var b byte
		for _, c := range []byte{s[i], s[i+1]} {
			b <<= 4
			switch {
			case c >= '0' && c <= '9':
				b |= c - '0'
			case c >= 'a' && c <= 'f':
				b |= c - 'a' + 10
			case c >= 'A' && c <= 'F':
				b |= c - 'A' + 10
			default:
				return nil, errors.Errorf("invalid hex digit %q", c)
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// UnixPathToWine converts a UNIX path to an absolute Wine path rooted at the
// Z: drive. Symlinks are resolved when the path exists.
func UnixPathToWine(path string) string {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}
	if real, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = real
	}
	return "Z:" + strings.ReplaceAll(resolved, "/", `\`)
}

// IsURL detects if a string is a URL the same way mpv does: a protocol
// prefix with no special characters followed by "://".
func IsURL(s string) bool {
	prefix, _, found := strings.Cut(s, "://")
	if !found || prefix == "" {
		return false
	}
	for _, r := range prefix {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// Slugify generates a slug from s: non-word characters are dropped and runs
// of spaces, dashes and underscores become a single dash.
func Slugify(s string, noLower bool) string {
	if !noLower {
		s = strings.ToLower(s)
	}
	return slugDashPattern.ReplaceAllString(strings.TrimSpace(slugDropPattern.ReplaceAllString(s, "")), "-")
}

// IsRomanNumeral reports whether s is a Roman numeral.
func IsRomanNumeral(s string) bool {
	if s == "" {
		return false
	}
	return romanPattern.MatchString(s)
}

// FixApostrophes fixes letter case around an apostrophe, so "Don'T" becomes
// "Don't".
func FixApostrophes(word string) string {
	if !strings.Contains(word, "'") {
		return word
	}
	return apostrophePattern.ReplaceAllStringFunc(word, func(m string) string {
		return strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
	})
}

// Chunks splits seq into chunks of at most n elements. The final chunk may
// be shorter.
func Chunks[S ~[]E, E any](seq S, n int) []S {
	if n <= 0 || len(seq) == 0 {
		return nil
	}
	out := make([]S, 0, (len(seq)+n-1)/n)
	for i := 0; i < len(seq); i += n {
		end := i + n
		if end > len(seq) {
			end = len(seq)
		}
		out = append(out, seq[i:end])
	}
	return out
}

// ChunksString is Chunks for strings, splitting by bytes.
func ChunksString(s string, n int) []string {
	if n <= 0 || len(s) == 0 {
		return nil
	}
	out := make([]string, 0, (len(s)+n-1)/n)
	for i := 0; i < len(s); i += n {
		end := i + n
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[i:end])
	}
	return out
}
