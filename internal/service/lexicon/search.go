package lexicon

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// SemanticSearch ranks vocabulary words by how often they translate the
// corpus sentences closest to query. Words outside the vocabulary and
// words below minRelevance are dropped. Zero topN or minRelevance take the
// configured defaults.
func (s *Service) SemanticSearch(ctx context.Context, query string, topN, minRelevance int) ([]WordMatch, error) {
	var errs []domain.FieldError
	if topN < 0 {
		errs = append(errs, domain.FieldError{Field: "top", Message: "must not be negative"})
	}
	if minRelevance < 0 {
		errs = append(errs, domain.FieldError{Field: "min", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	if topN == 0 {
		topN = s.cfg.TopN
	}
	if minRelevance == 0 {
		minRelevance = s.cfg.MinRelevance
	}

	if s.cfg.LazyIndex {
		if _, err := s.OpenIndex(ctx); err != nil {
			return nil, err
		}
	}

	scores, err := s.index.Search(ctx, query, topN)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			s.log.Warn("semantic search degraded", slog.String("query", query), slog.String("error", err.Error()))
			return []WordMatch{}, nil
		}
		return nil, err
	}

	v := s.vocab.Current()
	matches := make([]WordMatch, 0, len(scores))
	for _, sc := range scores {
		if sc.Frequency < minRelevance {
			continue
		}
		e, ok := v.Lookup(sc.Word)
		if !ok {
			continue
		}
		matches = append(matches, newWordMatch(e, sc.Frequency))
	}
	return matches, nil
}

// KeywordSearch lists palette entries for query: exact word matches
// first, then gloss matches, then extended-text matches. Matching is
// case-insensitive. An empty query lists every entry.
func (s *Service) KeywordSearch(query string) []WordMatch {
	entries := s.vocab.Current().Entries()
	query = domain.NormalizeText(query)

	if query == "" {
		all := make([]WordMatch, 0, len(entries))
		for _, e := range entries {
			all = append(all, newWordMatch(e, 0))
		}
		return all
	}

	var exact, gloss, extended []WordMatch
	for _, e := range entries {
		switch {
		case strings.ToLower(e.Word) == query:
			exact = append(exact, newWordMatch(e, 0))
		case strings.Contains(strings.ToLower(e.Gloss), query):
			gloss = append(gloss, newWordMatch(e, 0))
		case strings.Contains(strings.ToLower(e.ExtendedText), query):
			extended = append(extended, newWordMatch(e, 0))
		}
	}

	out := make([]WordMatch, 0, len(exact)+len(gloss)+len(extended))
	out = append(out, exact...)
	out = append(out, gloss...)
	return append(out, extended...)
}

// Word returns the vocabulary entry for word, including supplementary
// glyphs and aliases.
func (s *Service) Word(word string) (WordMatch, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return WordMatch{}, domain.NewValidationError("word", "required")
	}
	e, ok := s.vocab.Current().Lookup(word)
	if !ok {
		return WordMatch{}, domain.ErrNotFound
	}
	return newWordMatch(e, 0), nil
}
