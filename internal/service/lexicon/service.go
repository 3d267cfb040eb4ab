package lexicon

import (
	"context"
	"log/slog"
	"sync"

	"github.com/heartmarshall/ilo-wawa/internal/convert"
	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type vocabularySource interface {
	Current() *domain.Vocabulary
	Reload() lexstore.Status
	Status() lexstore.Status
}

type sentenceIndex interface {
	Open(ctx context.Context) (corpus.Status, error)
	Rebuild(ctx context.Context) (corpus.Status, error)
	Search(ctx context.Context, query string, topN int) ([]domain.WordScore, error)
	Status() corpus.Status
	Len() int
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the service defaults applied when a caller leaves a
// parameter at zero.
type Config struct {
	Options      convert.Options
	TopN         int
	MinRelevance int
	// LazyIndex defers opening the corpus index until the first search.
	LazyIndex bool
}

// Service ties the vocabulary store, the conversion engine and the corpus
// index together.
type Service struct {
	log   *slog.Logger
	vocab vocabularySource
	index sentenceIndex
	cfg   Config

	openMu sync.Mutex
	opened bool
}

// NewService creates a new lexicon service.
func NewService(logger *slog.Logger, vocab vocabularySource, index sentenceIndex, cfg Config) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = corpus.DefaultTopN
	}
	if cfg.MinRelevance <= 0 {
		cfg.MinRelevance = 1
	}
	return &Service{
		log:   logger.With("service", "lexicon"),
		vocab: vocab,
		index: index,
		cfg:   cfg,
	}
}

// Defaults returns the conversion options used when a request gives none.
func (s *Service) Defaults() convert.Options {
	return s.cfg.Options
}

// OpenIndex loads or builds the corpus index. It is a no-op after the
// first successful call.
func (s *Service) OpenIndex(ctx context.Context) (corpus.Status, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if s.opened {
		return s.index.Status(), nil
	}
	st, err := s.index.Open(ctx)
	if err != nil {
		return st, err
	}
	s.opened = true
	s.log.Info("corpus index ready", slog.Int("entries", st.Entries), slog.String("status", st.Message))
	return st, nil
}

// RebuildIndex discards any cache and indexes the corpus again.
func (s *Service) RebuildIndex(ctx context.Context) (corpus.Status, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	st, err := s.index.Rebuild(ctx)
	if err != nil {
		return st, err
	}
	s.opened = true
	s.log.Info("corpus index rebuilt", slog.Int("entries", st.Entries), slog.String("status", st.Message))
	return st, nil
}

// Reload rebuilds the vocabulary from its sources and installs it.
func (s *Service) Reload() lexstore.Status {
	st := s.vocab.Reload()
	s.log.Info("vocabulary reloaded", slog.String("status", st.String()), slog.Int("entries", st.Entries))
	return st
}

// VocabularyStatus reports the outcome of the last vocabulary load.
func (s *Service) VocabularyStatus() lexstore.Status {
	return s.vocab.Status()
}

// IndexStatus reports the state of the corpus index.
func (s *Service) IndexStatus() corpus.Status {
	return s.index.Status()
}
