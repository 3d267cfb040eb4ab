package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares free text for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeWord produces a vocabulary key: trimmed, NFC-composed, lowercase.
func NormalizeWord(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	return strings.ToLower(norm.NFC.String(word))
}

var parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)

// CleanSupplementaryName turns a supplementary glyph name such as
// "Toki-Pona (ligature)" into a lookup key ("toki+pona"): parenthetical
// annotations are stripped and hyphens become compound joiners.
func CleanSupplementaryName(name string) string {
	name = NormalizeWord(name)
	name = parenthetical.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", "+")
}
