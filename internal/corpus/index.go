package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/ilo-wawa/internal/dataset/tatoeba"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
	"github.com/heartmarshall/ilo-wawa/internal/embedding"
)

// Options configures an Index.
type Options struct {
	CorpusPath string
	Stopwords  Stopwords
	// BatchSize caps texts per embedding request. Zero uses the provider limit.
	BatchSize int
}

// Status describes the installed index.
type Status struct {
	CorpusPath string
	SourceHash string
	Model      string
	Entries    int
	FromCache  bool
	BuiltAt    time.Time
	Message    string
	// Err is set when the index degraded: a missing or malformed corpus,
	// or a cache that could not be written.
	Err error
}

// Index serves similarity search over a corpus cache. Searches run against
// an immutable entry slice that Open and Rebuild replace whole.
type Index struct {
	provider embedding.Provider
	store    Store
	opts     Options
	log      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
	status  Status
	loadMu  sync.Mutex
}

// NewIndex creates an empty Index. store may be nil, in which case the
// index lives in memory only.
func NewIndex(p embedding.Provider, store Store, opts Options, logger *slog.Logger) *Index {
	if opts.Stopwords == nil {
		opts.Stopwords = NewStopwords(DefaultStopwords...)
	}
	return &Index{
		provider: p,
		store:    store,
		opts:     opts,
		log:      logger.With("component", "corpus"),
		status:   Status{CorpusPath: opts.CorpusPath, Model: p.Model(), Message: "not loaded"},
	}
}

// Open installs the cached index when its hash and model match the current
// corpus file, and rebuilds it otherwise. Degraded outcomes are reported in
// the returned Status; the error is non-nil only when ctx is cancelled.
func (x *Index) Open(ctx context.Context) (Status, error) {
	return x.load(ctx, false)
}

// Rebuild ignores any cache and indexes the corpus from scratch. The old
// cache is dropped first: stopwords are not part of the cache key, so a
// stale cache left behind by a failed save would be accepted by the next
// Open.
func (x *Index) Rebuild(ctx context.Context) (Status, error) {
	return x.load(ctx, true)
}

func (x *Index) load(ctx context.Context, force bool) (Status, error) {
	x.loadMu.Lock()
	defer x.loadMu.Unlock()

	path := x.opts.CorpusPath
	model := x.provider.Model()
	key := CacheKey(path, model)
	st := Status{CorpusPath: path, Model: model}

	hash, err := HashFile(path)
	if err != nil {
		if errors.Is(err, domain.ErrDataSourceMissing) {
			st.Message = fmt.Sprintf("corpus file missing: %s", path)
		} else {
			err = fmt.Errorf("%w: %v", domain.ErrDataSourceMalformed, err)
			st.Message = fmt.Sprintf("error reading corpus: %v", err)
		}
		st.Err = err
		x.log.Info("corpus unavailable", slog.String("status", st.Message))
		return x.install(nil, st), nil
	}

	if force && x.store != nil {
		if err := x.store.Delete(ctx, key); err != nil {
			x.log.Warn("stale corpus cache not removed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	if !force && x.store != nil {
		if c, ok := x.loadCache(ctx, key, hash, model); ok {
			st.SourceHash = c.SourceHash
			st.BuiltAt = c.BuiltAt
			st.FromCache = true
			st.Message = fmt.Sprintf("loaded %d cached entries", len(c.Entries))
			x.log.Info("corpus cache loaded", slog.String("key", key), slog.Int("entries", len(c.Entries)))
			return x.install(c.Entries, st), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		st.Err = fmt.Errorf("%w: %v", domain.ErrDataSourceMissing, err)
		st.Message = fmt.Sprintf("corpus file missing: %s", path)
		return x.install(nil, st), nil
	}
	st.SourceHash = HashBytes(data)

	parsed, err := tatoeba.ParseReader(bytes.NewReader(data))
	if err != nil {
		st.Err = err
		st.Message = fmt.Sprintf("error parsing corpus: %v", err)
		x.log.Warn("corpus malformed", slog.String("error", err.Error()))
		return x.install(nil, st), nil
	}

	x.log.Info("indexing corpus", slog.String("path", path), slog.Int("pairs", len(parsed.Pairs)))
	started := time.Now()
	entries, stats, err := Build(ctx, parsed.Pairs, x.provider, x.opts.Stopwords, x.opts.BatchSize, x.log)
	if err != nil {
		return x.Status(), err
	}
	x.log.Info("corpus indexed",
		slog.Int("entries", stats.Entries),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("no_words", stats.NoWords),
		slog.Int("embed_failed", stats.EmbedFailed),
		slog.Int("zero_norm", stats.ZeroNorm),
		slog.Duration("took", time.Since(started)),
	)

	st.BuiltAt = time.Now().UTC()
	st.Message = fmt.Sprintf("indexed %d semantic vectors", len(entries))
	if stats.EmbedFailed > 0 {
		st.Message += fmt.Sprintf(" (%d sentences not embedded)", stats.EmbedFailed)
	}

	if x.store != nil {
		c := &Cache{SourceHash: st.SourceHash, Model: model, BuiltAt: st.BuiltAt, Entries: entries}
		if err := x.store.Save(ctx, key, c); err != nil {
			if !errors.Is(err, domain.ErrCacheWriteFailed) {
				err = fmt.Errorf("%w: %v", domain.ErrCacheWriteFailed, err)
			}
			st.Err = err
			st.Message += "; failed to save cache"
			x.log.Warn("corpus cache not saved", slog.String("key", key), slog.String("error", err.Error()))
		} else {
			x.log.Info("corpus cache saved", slog.String("key", key))
		}
	}

	return x.install(entries, st), nil
}

func (x *Index) loadCache(ctx context.Context, key, hash, model string) (*Cache, bool) {
	c, err := x.store.Load(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		x.log.Info("no corpus cache found", slog.String("key", key))
		return nil, false
	case err != nil:
		x.log.Info("failed to load corpus cache", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	case c.SourceHash != hash:
		x.log.Info("cache mismatch: corpus changed, rebuilding", slog.String("key", key))
		return nil, false
	case c.Model != model:
		x.log.Info("cache mismatch: model changed, rebuilding", slog.String("key", key))
		return nil, false
	}
	return c, true
}

func (x *Index) install(entries []Entry, st Status) Status {
	st.Entries = len(entries)
	x.mu.Lock()
	x.entries = entries
	x.status = st
	x.mu.Unlock()
	return st
}

// Status returns the status of the installed index.
func (x *Index) Status() Status {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.status
}

// Len returns the number of indexed sentences.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Search returns target-language words ranked by how often they occur in
// the translations of the topN sentences most similar to query. An empty
// query, an empty index, a query that is itself a stopword, or a query
// with a zero-norm vector all yield an empty list. A provider failure
// yields an empty list and an error wrapping domain.ErrEmbeddingUnavailable.
func (x *Index) Search(ctx context.Context, query string, topN int) ([]domain.WordScore, error) {
	query = strings.TrimSpace(query)
	x.mu.RLock()
	entries := x.entries
	x.mu.RUnlock()

	if query == "" || len(entries) == 0 || x.opts.Stopwords.Contains(strings.ToLower(query)) {
		return []domain.WordScore{}, nil
	}

	qvec, err := x.provider.Embed(ctx, query)
	if err != nil {
		return []domain.WordScore{}, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if !x.provider.HasVector(qvec) {
		return []domain.WordScore{}, nil
	}

	return Rank(qvec, entries, x.provider.Similarity, topN, x.opts.Stopwords), nil
}
