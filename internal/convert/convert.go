package convert

import (
	"strings"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// Lookuper resolves a word to its vocabulary entry. *domain.Vocabulary
// implements it; a miss is reported by ok == false.
type Lookuper interface {
	Lookup(word string) (domain.VocabularyEntry, bool)
}

// Options are independent switches controlling conversion.
type Options struct {
	// AllowASCIIControls maps structural ASCII characters to control glyphs
	// and '-' inside compounds to the stacking mark.
	AllowASCIIControls bool `json:"allow_ascii_controls"`
	// PassUnknown emits unrecognized tokens verbatim instead of dropping them.
	PassUnknown bool `json:"pass_unknown"`
	// CollapseWhitespace drops runs of spaces and tabs.
	CollapseWhitespace bool `json:"collapse_whitespace"`
	// PreserveNewlines keeps line breaks.
	PreserveNewlines bool `json:"preserve_newlines"`
}

// DefaultOptions enables every switch.
func DefaultOptions() Options {
	return Options{
		AllowASCIIControls: true,
		PassUnknown:        true,
		CollapseWhitespace: true,
		PreserveNewlines:   true,
	}
}

// Convert renders text as glyph text using the vocabulary v.
// Output order strictly follows token order.
func Convert(v Lookuper, text string, opts Options) string {
	var b strings.Builder
	b.Grow(len(text))
	for tok := range Tokenize(text) {
		emit(&b, v, tok, opts)
	}
	return b.String()
}

func emit(b *strings.Builder, v Lookuper, tok Token, opts Options) {
	switch tok.Kind {
	case KindNewline:
		if opts.PreserveNewlines {
			b.WriteString(tok.Text)
		}
		return
	case KindWhitespace:
		if !opts.CollapseWhitespace {
			b.WriteString(tok.Text)
		}
		return
	case KindJoiner:
		b.WriteString(tok.Text)
		return
	case KindASCIIControl:
		if opts.AllowASCIIControls {
			b.WriteRune(asciiControls[tok.Text[0]])
			return
		}
	case KindWord:
		// Each compound part has already had the unknown policy applied;
		// the whole token never reaches a vocabulary lookup.
		if strings.ContainsAny(tok.Text, "+-") {
			b.WriteString(expandCompound(v, tok.Text, opts))
			return
		}
		if s, ok := resolveWord(v, tok.Text, opts); ok {
			b.WriteString(s)
			return
		}
		// resolveWord already applied the unknown policy.
		return
	}

	if opts.PassUnknown {
		b.WriteString(tok.Text)
	}
}

// resolveWord maps a plain word, or a word with a trailing 1-8 digit run,
// to its glyph. ok is false when nothing should be emitted.
func resolveWord(v Lookuper, word string, opts Options) (string, bool) {
	if e, ok := v.Lookup(word); ok {
		return e.Glyph(), true
	}

	base, digits, ok := splitVariation(word)
	if !ok {
		if opts.PassUnknown {
			return word, true
		}
		return "", false
	}

	var b strings.Builder
	if e, found := v.Lookup(base); found {
		b.WriteRune(e.Codepoint)
	} else if opts.PassUnknown {
		b.WriteString(base)
	} else {
		// The selectors go with their base; no orphan selectors.
		return "", false
	}
	for i := 0; i < len(digits); i++ {
		sel, _ := VariationSelector(digits[i])
		b.WriteRune(sel)
	}
	return b.String(), true
}

// splitVariation splits "toki2" into ("toki", "2"). The base must start
// with a letter and contain only letters and '-'; every suffix digit must
// be in 1..8.
func splitVariation(word string) (base, digits string, ok bool) {
	i := len(word)
	for i > 0 && isDigit(word[i-1]) {
		i--
	}
	if i == 0 || i == len(word) || !isLetter(word[0]) {
		return "", "", false
	}
	for j := 1; j < i; j++ {
		if !isLetter(word[j]) && word[j] != '-' {
			return "", "", false
		}
	}
	for j := i; j < len(word); j++ {
		if word[j] < '1' || word[j] > '8' {
			return "", "", false
		}
	}
	return word[:i], word[i:], true
}

// expandCompound renders "toki+pona" as glyph ZWJ glyph and "toki-pona" as
// glyph STACK glyph. It returns "" when no part produced output.
func expandCompound(v Lookuper, word string, opts Options) string {
	var b strings.Builder
	for _, part := range splitCompound(word) {
		switch part {
		case "+":
			b.WriteRune(zwj)
		case "-":
			if opts.AllowASCIIControls {
				b.WriteRune(stackingMark)
			}
		default:
			if s, ok := resolveWord(v, part, opts); ok {
				b.WriteString(s)
			}
		}
	}
	return b.String()
}

// splitCompound splits on '+' and '-', keeping each delimiter as its own
// part and dropping empty parts.
func splitCompound(word string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(word); i++ {
		if word[i] != '+' && word[i] != '-' {
			continue
		}
		if i > start {
			parts = append(parts, word[start:i])
		}
		parts = append(parts, word[i:i+1])
		start = i + 1
	}
	if start < len(word) {
		parts = append(parts, word[start:])
	}
	return parts
}
