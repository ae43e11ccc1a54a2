package language

import "strings"

const (
	DefaultName = "English"
	DefaultCode = "en"
)

var nameToCode = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"hindi":      "hi",
	"russian":    "ru",
	"dutch":      "nl",
	"swedish":    "sv",
	"norwegian":  "no",
	"danish":     "da",
	"finnish":    "fi",
	"polish":     "pl",
	"czech":      "cs",
	"hungarian":  "hu",
	"greek":      "el",
	"turkish":    "tr",
	"hebrew":     "he",
	"thai":       "th",
	"vietnamese": "vi",
	"indonesian": "id",
	"malay":      "ms",
	"filipino":   "fil",
	"tagalog":    "tl",
}

// CodeForName maps an English language name to its ISO 639-1 code.
// Unknown names map to DefaultCode.
func CodeForName(name string) string {
	if code, ok := nameToCode[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return DefaultCode
}
