// Package tatoeba parses Tatoeba-style parallel sentence TSV files.
// Pure function: file path in, domain structs out. No embedding or cache
// dependencies.
package tatoeba

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

const (
	sourceColumn = 1
	targetColumn = 3
	minColumns   = 4
)

// ParseResult holds the usable sentence pairs in file order.
type ParseResult struct {
	Pairs []domain.SentencePair
	Stats Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	SkippedShort int
	SkippedEmpty int
}

// Parse reads a TSV file where column 1 is the natural-language sentence
// and column 3 the target-language sentence. Rows with fewer than four
// columns, or with either side empty, are skipped.
func Parse(filePath string) (ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ParseResult{}, fmt.Errorf("corpus %s: %w", filePath, domain.ErrDataSourceMissing)
		}
		return ParseResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// ParseReader is Parse over an arbitrary reader.
func ParseReader(r io.Reader) (ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var result ParseResult

	for scanner.Scan() {
		result.Stats.TotalLines++
		line := strings.TrimRight(scanner.Text(), "\r")

		fields := strings.Split(line, "\t")
		if len(fields) < minColumns {
			result.Stats.SkippedShort++
			continue
		}

		source := strings.TrimSpace(fields[sourceColumn])
		target := strings.TrimSpace(fields[targetColumn])
		if source == "" || target == "" {
			result.Stats.SkippedEmpty++
			continue
		}

		result.Pairs = append(result.Pairs, domain.SentencePair{Source: source, Target: target})
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("scanner error: %w: %w", domain.ErrDataSourceMalformed, err)
	}

	return result, nil
}

// Words splits a target-language sentence into lowercase ASCII-letter
// tokens. Duplicates are kept: repetition is the frequency signal.
func Words(sentence string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(sentence); i++ {
		if i < len(sentence) && isASCIILetter(sentence[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, strings.ToLower(sentence[start:i]))
			start = -1
		}
	}
	return words
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
