// Package corpus builds, persists and queries the semantic sentence index:
// natural-language sentence vectors paired with the target-language words
// of their translations.
package corpus

import (
	"strings"
	"time"
)

// Entry is one indexed sentence: its embedding and the target-language
// words of its translation, stopwords removed, duplicates kept.
type Entry struct {
	Vector []float32
	Words  []string
}

// Cache is a persisted index. It is usable only while SourceHash matches
// the corpus file and Model matches the provider.
type Cache struct {
	SourceHash string
	Model      string
	BuiltAt    time.Time
	Entries    []Entry
}

// DefaultStopwords are target-language function words that carry no
// topical signal.
var DefaultStopwords = []string{"li", "e", "pi", "mi", "ona"}

// Stopwords is a set of lowercase words excluded from scoring.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, lowercased and trimmed.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether w is a stopword. A nil set contains nothing.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}
