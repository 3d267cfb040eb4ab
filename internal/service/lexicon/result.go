package lexicon

import (
	"github.com/heartmarshall/ilo-wawa/internal/convert"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// Conversion is the result of converting one text.
type Conversion struct {
	Output string
	// Unknown lists the source spans of words missing from the vocabulary.
	Unknown []UnknownWord
	// Codepoints describes every rune of Output as U+XXXX.
	Codepoints []string
}

// UnknownWord is a word token the vocabulary could not resolve.
type UnknownWord struct {
	Text  string
	Start int
	End   int
}

// WordMatch is a vocabulary entry returned by a search.
type WordMatch struct {
	Word         string
	Glyph        string
	Codepoint    string
	Gloss        string
	ExtendedText string
	URL          string
	// Frequency is set by semantic search only.
	Frequency int
}

func newWordMatch(e domain.VocabularyEntry, freq int) WordMatch {
	return WordMatch{
		Word:         e.Word,
		Glyph:        e.Glyph(),
		Codepoint:    convert.DescribeRune(e.Codepoint),
		Gloss:        e.Gloss,
		ExtendedText: e.ExtendedText,
		URL:          e.URL,
		Frequency:    freq,
	}
}
