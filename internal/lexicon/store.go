// Package lexicon owns the process-wide vocabulary table. The table is
// immutable; a reload builds a new one and swaps it in atomically, so a
// conversion in flight sees either the old or the new table, never a mix.
package lexicon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lexsrc "github.com/heartmarshall/ilo-wawa/internal/dataset/lexicon"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// Paths locates the vocabulary sources. Supplementary is optional.
type Paths struct {
	Primary       string
	Supplementary string
}

// Status describes the outcome of a load. Failures degrade to an empty
// or partial table and are reported here rather than returned as errors.
type Status struct {
	Primary       string
	Supplementary string
	Entries       int
	Keys          int
	Err           error
}

func (s Status) String() string {
	if s.Supplementary == "" {
		return s.Primary
	}
	return s.Primary + "; " + s.Supplementary
}

// Store holds the current vocabulary.
type Store struct {
	paths   Paths
	log     *slog.Logger
	current atomic.Pointer[domain.Vocabulary]
	status  atomic.Pointer[Status]
	mu      sync.Mutex
}

// NewStore creates a Store with an empty vocabulary. Call Reload to load.
func NewStore(paths Paths, logger *slog.Logger) *Store {
	s := &Store{paths: paths, log: logger.With("component", "lexicon")}
	s.current.Store(domain.NewVocabularyBuilder().Build())
	s.status.Store(&Status{Primary: "not loaded"})
	return s
}

// Current returns the installed vocabulary. The result is never nil and
// must be treated as read-only.
func (s *Store) Current() *domain.Vocabulary {
	return s.current.Load()
}

// Status returns the status of the most recent load.
func (s *Store) Status() Status {
	return *s.status.Load()
}

// Paths returns the configured source paths.
func (s *Store) Paths() Paths {
	return s.paths
}

// Swap installs v and returns the previous table.
func (s *Store) Swap(v *domain.Vocabulary) *domain.Vocabulary {
	if v == nil {
		v = domain.NewVocabularyBuilder().Build()
	}
	return s.current.Swap(v)
}

// Reload rebuilds the vocabulary from the configured paths and installs it.
// Concurrent reloads are serialized.
func (s *Store) Reload() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, st := Build(s.paths, s.log)
	s.Swap(v)
	s.status.Store(&st)

	s.log.Info("vocabulary installed",
		slog.Int("entries", st.Entries),
		slog.Int("keys", st.Keys),
		slog.String("status", st.String()),
	)
	return st
}

// Build loads both sources into a fresh table. Primary entries are added
// first (first definition wins), then the ali→ale synonym, then
// supplementary glyphs for keys not already present.
func Build(paths Paths, logger *slog.Logger) (*domain.Vocabulary, Status) {
	b := domain.NewVocabularyBuilder()
	var st Status

	primary, err := lexsrc.ParsePrimary(paths.Primary)
	switch {
	case errors.Is(err, domain.ErrDataSourceMissing):
		st.Primary = fmt.Sprintf("primary data file missing: %s", paths.Primary)
		st.Err = err
	case err != nil:
		st.Primary = fmt.Sprintf("error parsing primary data: %v", err)
		st.Err = err
	default:
		for _, e := range primary.Entries {
			if b.AddPrimary(e) {
				st.Entries++
			}
		}
		st.Primary = "ok"
		logger.Info("primary vocabulary parsed",
			slog.Int("records", primary.Stats.Total),
			slog.Int("skipped", primary.Stats.Skipped),
			slog.Int("entries", st.Entries),
		)
	}
	if st.Err != nil {
		logger.Warn("primary vocabulary unavailable", slog.String("error", st.Err.Error()))
	}

	b.Alias("ali", "ale")

	if paths.Supplementary != "" {
		st.Supplementary = loadSupplementary(b, paths.Supplementary, logger)
	}

	v := b.Build()
	st.Keys = v.Len()
	return v, st
}

func loadSupplementary(b *domain.VocabularyBuilder, path string, logger *slog.Logger) string {
	extra, err := lexsrc.ParseSupplementary(path)
	if errors.Is(err, domain.ErrDataSourceMissing) {
		logger.Info("supplementary vocabulary missing", slog.String("path", path))
		return fmt.Sprintf("supplementary file not found: %s", path)
	}
	if err != nil {
		logger.Warn("supplementary vocabulary malformed", slog.String("error", err.Error()))
		return fmt.Sprintf("error parsing supplementary data: %v", err)
	}

	added := 0
	for _, g := range extra.Glyphs {
		if b.AddSupplementary(g.Name, g.Codepoint) {
			added++
		}
	}
	return fmt.Sprintf("added %d supplementary glyphs", added)
}
