// Package naming adjusts titles of media files: stop words are lowercased,
// Roman numerals are uppercased and known brand names get their canonical
// capitalisation.
package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tatsh/tmu/pkg/stringutil"
)

// Mode selects which stop word list applies. Modes may be combined.
type Mode int

const (
	ModeEnglish Mode = 1 << iota
	ModeJapanese
	ModeChinese
	ModeArabic
)

// Non-strict, not including words like "below", forms of "to be" or words
// like "call".
var englishStopWords = []string{
	"a", "an", "and", "at", "by",
	"de", // mainly for Spanish and French
	"el", // Spanish
	"feat", "featuring", "for", "from",
	"il", // Italian
	"in", "into",
	"la", // Spanish/French/Italian
	"lo", // Italian
	"of", "off", "on", "or", "per",
	"por", // Spanish
	"te",  // Spanish/French
	"the", "to", "van", "via", "von", "vs", "with", "within", "without",
}

// Only really common ones.
var japaneseParticles = []string{
	"de", "e", "ga", "ha", "ka", "kana", "ne", "ni", "no", "to", "wa", "wo",
}

// Only really common ones.
var chineseParticles = []string{"de", "ge", "he", "le", "ma"}

// Not a complete set.
var arabicStops = []string{
	"al", "ala", "alayhi", "alayka", "alayya", "an", "anhu", "anka", "anni",
	"bi", "biha", "bihi", "bika", "fi", "fihi", "fika", "fiya", "ila",
	"ilayhi", "ilayka", "ilayya", "lahu", "laka", "li", "maa", "maahu",
	"maaka", "mai", "min", "minhu", "minka", "minni", "wa",
}

// English abbreviations for period removal.
var englishAbbrev = map[string]bool{
	"feat": true, "mr": true, "mrs": true, "ms": true, "vs": true,
}

// DefaultNames maps lowercased words to their canonical form.
var DefaultNames = map[string]string{
	"arkit":      "ARKit",
	"imessage":   "iMessage",
	"ios":        "iOS", // Not Cisco IOS
	"itunes":     "iTunes",
	"llvm":       "LLVM",
	"macos":      "macOS",
	"mapkit":     "MapKit",
	"mcdonald":   "McDonald",
	"mcdonald's": "McDonald's",
	"mcdonalds":  "McDonald's",
	"pdfkit":     "PDFKit",
	"s3rl":       "S3RL",
	"sirikit":    "SiriKit",
	"tvos":       "tvOS",
	"watchos":    "watchOS",
	"whats":      "What's",
	"wkwebview":  "WKWebView",
	"wwdc":       "WWDC",
}

var (
	ordinalPattern       = regexp.MustCompile(`(?i)^(\d+)(st|nd|rd|th)`)
	leadingPunctPattern  = regexp.MustCompile(`^(\W+)`)
	trailingPunctPattern = regexp.MustCompile(`^\w.*?(\W+)$`)
	allCapsPattern       = regexp.MustCompile(`^[A-Z0-9]+`)
	nonWordStartPattern  = regexp.MustCompile(`^\W`)
)

var titleCaser = cases.Title(language.English)

// Options controls AdjustTitle. The zero value selects English mode with the
// built-in name list.
type Options struct {
	// Modes to apply, combined with bitwise or. Defaults to ModeEnglish.
	Modes Mode
	// Names overrides DefaultNames. Keys must be lowercase.
	Names map[string]string
	// DisableNames skips name fixing for everything but the first word.
	DisableNames bool
	// Ampersands replaces " and " with " & " in the result.
	Ampersands bool
}

func stopWordsFor(mode Mode) []string {
	switch mode {
	case ModeJapanese:
		return japaneseParticles
	case ModeChinese:
		return chineseParticles
	case ModeArabic:
		return arabicStops
	default:
		return englishStopWords
	}
}

func lookupName(word string, names map[string]string) (string, bool) {
	out, ok := names[strings.ToLower(word)]
	return out, ok
}

func contains(words []string, w string) bool {
	for _, cand := range words {
		if cand == w {
			return true
		}
	}
	return false
}

// AdjustTitle adjusts a string that represents a title. Primarily for
// English, to lowercase stop words, but it also works for other languages.
// It is far from perfect.
func AdjustTitle(words string, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}
	names := opts.Names
	if names == nil {
		names = DefaultNames
	}
	modes := opts.Modes
	if modes == 0 {
		modes = ModeEnglish
	}
	originalWords := strings.Fields(words)
	wordList := strings.Fields(titleCaser.String(strings.TrimSpace(words)))
	if len(wordList) == 0 {
		return ""
	}
	var title []string
	if name, ok := lookupName(wordList[0], names); ok {
		title = []string{name}
	} else if strings.ToUpper(wordList[0]) == originalWords[0] {
		title = []string{stringutil.FixApostrophes(originalWords[0])}
	} else {
		title = []string{stringutil.FixApostrophes(wordList[0])}
	}
	if stringutil.IsRomanNumeral(title[0]) {
		title[0] = strings.ToUpper(title[0])
	}
	lastIndex := len(originalWords) - 1
	setWord := func(index int, w string) {
		if index < len(title) {
			title[index] = w
		} else {
			title = append(title, w)
		}
	}
	for _, mode := range []Mode{ModeEnglish, ModeJapanese, ModeChinese, ModeArabic} {
		if modes&mode == 0 {
			continue
		}
		toLower := stopWordsFor(mode)
		index := 1
		for _, word := range wordList[1:] {
			newWord := word
			if !opts.DisableNames {
				if name, ok := lookupName(newWord, names); ok {
					setWord(index, name)
					index++
					continue
				}
			}
			// Keep all-caps words such as acronyms, but not the pronoun "I".
			if originalWords[index] == strings.ToUpper(newWord) && !nonWordStartPattern.MatchString(newWord) {
				if !(mode == ModeEnglish && newWord == "I") &&
					index == lastIndex && allCapsPattern.MatchString(originalWords[index]) {
					setWord(index, originalWords[index])
					index++
					continue
				}
			}
			var begin, end string
			if m := leadingPunctPattern.FindStringSubmatch(newWord); m != nil {
				begin = m[1]
				newWord = newWord[len(begin):]
			}
			if m := trailingPunctPattern.FindStringSubmatch(newWord); m != nil {
				end = m[1]
				newWord = newWord[:len(newWord)-len(end)]
			}
			if contains(toLower, strings.ToLower(newWord)) {
				newWord = strings.ToLower(newWord)
				wordList[index] = newWord
			}
			newWord = stringutil.FixApostrophes(newWord)
			// MIX is a Roman numeral but is more typically seen in phrases
			// like "Extended Mix", so do not capitalise it.
			if stringutil.IsRomanNumeral(newWord) && !strings.EqualFold(newWord, "mix") {
				newWord = strings.ToUpper(newWord)
			}
			if mode == ModeEnglish && englishAbbrev[strings.ToLower(newWord)] {
				end = ""
			}
			if mode == ModeEnglish {
				if m := ordinalPattern.FindStringSubmatch(newWord); m != nil {
					newWord = m[1] + strings.ToLower(m[2])
				}
			}
			setWord(index, begin+newWord+end)
			index++
		}
	}
	out := strings.Join(title, " ")
	if opts.Ampersands {
		out = strings.ReplaceAll(out, " and ", " & ")
	}
	return out
}
