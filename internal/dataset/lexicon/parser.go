// Package lexicon parses the glyph vocabulary sources: the primary JSON
// dictionary (word, codepoint, definition, semantic space) and the
// supplementary glyph list (name, hex codepoint).
package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

const dictionaryURL = "https://lipamanka.gay/essays/dictionary#"

// Stats holds parser statistics for logging.
type Stats struct {
	Total   int
	Skipped int
}

// PrimaryResult holds the parsed primary entries in file order.
type PrimaryResult struct {
	Entries []domain.VocabularyEntry
	Stats   Stats
}

// Glyph is one supplementary record with its cleaned lookup name.
type Glyph struct {
	Name      string
	Codepoint rune
}

// SupplementaryResult holds the parsed supplementary glyphs in file order.
type SupplementaryResult struct {
	Glyphs []Glyph
	Stats  Stats
}

type primaryRecord struct {
	Word          string          `json:"word"`
	Codepoint     string          `json:"codepoint"`
	Definition    string          `json:"definition"`
	SemanticSpace json.RawMessage `json:"semantic_space"`
}

type supplementaryRecord struct {
	Name    string `json:"name"`
	CodeHex string `json:"code_hex"`
}

// ParsePrimary reads the primary dictionary. Records without a word or
// with an unparseable codepoint are skipped and counted.
func ParsePrimary(filePath string) (PrimaryResult, error) {
	var records []primaryRecord
	if err := readJSON(filePath, &records); err != nil {
		return PrimaryResult{}, err
	}

	result := PrimaryResult{Stats: Stats{Total: len(records)}}
	for _, rec := range records {
		word := domain.NormalizeWord(rec.Word)
		if word == "" {
			result.Stats.Skipped++
			continue
		}
		cp, err := ParseCodepoint(rec.Codepoint)
		if err != nil {
			result.Stats.Skipped++
			continue
		}
		result.Entries = append(result.Entries, domain.VocabularyEntry{
			Word:         word,
			Codepoint:    cp,
			Gloss:        strings.TrimSpace(rec.Definition),
			ExtendedText: semanticText(rec.SemanticSpace),
			URL:          dictionaryURL + word,
		})
	}
	return result, nil
}

// ParseSupplementary reads the supplementary glyph list. Names are cleaned
// with domain.CleanSupplementaryName.
func ParseSupplementary(filePath string) (SupplementaryResult, error) {
	var records []supplementaryRecord
	if err := readJSON(filePath, &records); err != nil {
		return SupplementaryResult{}, err
	}

	result := SupplementaryResult{Stats: Stats{Total: len(records)}}
	for _, rec := range records {
		name := domain.CleanSupplementaryName(rec.Name)
		if name == "" {
			result.Stats.Skipped++
			continue
		}
		cp, err := ParseCodepoint(rec.CodeHex)
		if err != nil {
			result.Stats.Skipped++
			continue
		}
		result.Glyphs = append(result.Glyphs, Glyph{Name: name, Codepoint: cp})
	}
	return result, nil
}

// ParseCodepoint accepts "U+F1900", "u+f1900" or "F1900". Surrogates and
// values past U+10FFFF are rejected.
func ParseCodepoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "u+")
	if s == "" {
		return 0, fmt.Errorf("empty codepoint")
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse codepoint %q: %w", s, err)
	}
	if r := rune(n); n <= utf8.MaxRune && utf8.ValidRune(r) {
		return r, nil
	}
	return 0, fmt.Errorf("codepoint %q is not a valid scalar value", s)
}

// semanticText keeps the semantic space only when it is a plain string.
func semanticText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func readJSON(filePath string, v any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("vocabulary %s: %w", filePath, domain.ErrDataSourceMissing)
		}
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("vocabulary %s: %w: %w", filePath, domain.ErrDataSourceMalformed, err)
	}
	return nil
}
