package bosworth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// leadingBoldRe matches the bolded phrase an entry must begin with.
var leadingBoldRe = regexp.MustCompile(`^<B>([^<]+)</B>`)

// partRefRe matches trailing cross-reference markers on a lowercased
// headword: runs of Roman numerals, a single letter from the reference
// alphabet, or digits, repeated with spaces (e.g. "ge-reafian; i" after
// punctuation stripping ends in " i").
var partRefRe = regexp.MustCompile(`((^| )([ivx]+|[abcdefoα]|[0-9]+))+$`)

// unaccentedLetters decomposes s (NFKD) and keeps only letters, digits,
// underscores, hyphens and spaces. Combining marks fall out, so accented
// letters are reduced to their base form.
func unaccentedLetters(s string) string {
	s = norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripTrailingPartRefs removes trailing cross-reference markers that are
// not part of the headword. Entirely heuristic; entries it mangles go into
// the headword_overrides table instead.
func stripTrailingPartRefs(s string) string {
	return partRefRe.ReplaceAllString(strings.TrimSpace(s), "")
}

// ExtractHeadwords returns the headword spellings from the beginning of an
// entry, in source order. The leading bolded phrase lists compact variant
// spellings separated by commas, using shared-prefix ("foo-, bar-baz") and
// shared-suffix ("foo-bar, -baz") elision; both fragment kinds are dropped
// rather than expanded. Entries matching a curated override prefix bypass
// all heuristics.
func ExtractHeadwords(entry string, exc *Exceptions) ([]string, error) {
	if hwd, ok := exc.Override(entry); ok {
		return []string{hwd}, nil
	}

	m := leadingBoldRe.FindStringSubmatch(entry)
	if m == nil {
		return nil, &HeadwordError{Entry: entry, Reason: "entry has no leading bolded span"}
	}

	var words []string
	for _, piece := range strings.Split(m[1], ",") {
		w := unaccentedLetters(strings.ToLower(piece))
		w = stripTrailingPartRefs(w)
		if w == "" {
			continue
		}
		words = append(words, w)
	}

	// Drop shared-prefix fragments: in ["foo-", "bar-baz"] the dashed word
	// is a prefix stub unless it is the last item.
	var full []string
	for i, w := range words {
		if strings.HasSuffix(w, "-") && i+1 != len(words) {
			continue
		}
		full = append(full, w)
	}

	// Symmetrically drop shared-suffix fragments: "-baz" in ["foo-bar", "-baz"].
	var result []string
	for i, w := range full {
		if strings.HasPrefix(w, "-") && i != 0 {
			continue
		}
		result = append(result, w)
	}

	if len(result) == 0 {
		return nil, &HeadwordError{Entry: entry, Reason: "no headwords survive stripping"}
	}
	return result, nil
}
