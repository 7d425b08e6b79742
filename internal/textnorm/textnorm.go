// Package textnorm holds the character-level text transforms used by the
// Bosworth–Toller importer: entity rewriting for the scanned transcript and
// ASCII folding for headword grouping keys. All functions are pure.
package textnorm

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transcriptEntities maps the transcript's non-standard named entities to
// their Unicode characters. The digitized BT pages encode long vowels and a
// few Old English letters with ad-hoc names that html.UnescapeString does
// not know.
var transcriptEntities = map[string]string{
	"&a-long;":  "ā",
	"&A-long;":  "Ā",
	"&ae-long;": "ǣ",
	"&AE-long;": "Ǣ",
	"&e-long;":  "ē",
	"&E-long;":  "Ē",
	"&i-long;":  "ī",
	"&I-long;":  "Ī",
	"&o-long;":  "ō",
	"&O-long;":  "Ō",
	"&u-long;":  "ū",
	"&U-long;":  "Ū",
	"&y-long;":  "ȳ",
	"&Y-long;":  "Ȳ",
	"&ae;":      "æ",
	"&AE;":      "Æ",
	"&th;":      "þ",
	"&TH;":      "Þ",
	"&dh;":      "ð",
	"&DH;":      "Ð",
	"&wynn;":    "ƿ",
	"&WYNN;":    "Ƿ",
}

var entityReplacer = newEntityReplacer()

func newEntityReplacer() *strings.Replacer {
	pairs := make([]string, 0, 2*len(transcriptEntities))
	for name, ch := range transcriptEntities {
		pairs = append(pairs, name, ch)
	}
	return strings.NewReplacer(pairs...)
}

// FixEntities rewrites encoded character entities in an entry block.
// Transcript-specific names are replaced first, then standard HTML named and
// numeric entities. Markup tags are left untouched.
func FixEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	s = entityReplacer.Replace(s)
	return html.UnescapeString(s)
}

// stripMarks removes combining marks after canonical decomposition,
// turning e.g. "rǣdan" into "rædan".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFolds expands the Old English letters that decomposition alone
// cannot reduce to ASCII.
var asciiFolds = strings.NewReplacer(
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
	"ð", "th",
	"ƿ", "w", // ƿ (wynn)
	"ß", "ss",
)

// Ascify maps a headword to its canonical ASCII grouping form: lowercase,
// accents stripped, Old English letters folded, anything still outside
// [a-z0-9 -] dropped. An empty result means the headword carried no
// foldable letters at all; callers treat that as a hard error.
func Ascify(headword string) string {
	s := strings.ToLower(headword)
	s, _, _ = transform.String(stripMarks, s)
	s = asciiFolds.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
