package corpus

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/ilo-wawa/internal/dataset/tatoeba"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
	"github.com/heartmarshall/ilo-wawa/internal/embedding"
)

// BuildStats counts what happened to each input pair.
type BuildStats struct {
	Pairs       int
	Duplicates  int
	NoWords     int
	EmbedFailed int
	ZeroNorm    int
	Entries     int
}

type candidate struct {
	source string
	words  []string
}

// Build turns sentence pairs into index entries. Pairs are deduplicated by
// source sentence (first wins); target words are lowercased with stopwords
// removed; pairs without words are dropped; sentences that fail to embed or
// embed to a zero-norm vector are dropped. Only context cancellation aborts
// the build.
func Build(ctx context.Context, pairs []domain.SentencePair, p embedding.Provider, stop Stopwords, batchSize int, logger *slog.Logger) ([]Entry, BuildStats, error) {
	stats := BuildStats{Pairs: len(pairs)}

	seen := make(map[string]struct{}, len(pairs))
	cands := make([]candidate, 0, len(pairs))
	for _, pair := range pairs {
		src := strings.TrimSpace(pair.Source)
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			stats.Duplicates++
			continue
		}
		seen[src] = struct{}{}

		words := filterStopwords(tatoeba.Words(pair.Target), stop)
		if len(words) == 0 {
			stats.NoWords++
			continue
		}
		cands = append(cands, candidate{source: src, words: words})
	}

	logger.Info("usable corpus sentences", slog.Int("sentences", len(cands)))

	entries := make([]Entry, 0, len(cands))
	keep := func(c candidate, vec []float32, err error) {
		switch {
		case err != nil:
			stats.EmbedFailed++
			logger.Debug("sentence not embedded", slog.String("sentence", c.source), slog.String("error", err.Error()))
		case !p.HasVector(vec):
			stats.ZeroNorm++
		default:
			entries = append(entries, Entry{Vector: vec, Words: c.words})
		}
	}

	be, batched := p.(embedding.BatchEmbedder)
	size := 1
	if batched {
		size = be.MaxBatchSize()
		if batchSize > 0 && (size <= 0 || batchSize < size) {
			size = batchSize
		}
		size = max(size, 1)
	}

	for start := 0; start < len(cands); start += size {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		end := min(start+size, len(cands))
		chunk := cands[start:end]

		if batched && len(chunk) > 1 {
			texts := make([]string, len(chunk))
			for i, c := range chunk {
				texts[i] = c.source
			}
			vecs, err := be.BatchEmbed(ctx, texts)
			if err == nil && len(vecs) == len(chunk) {
				for i, c := range chunk {
					keep(c, vecs[i], nil)
				}
				continue
			}
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			logger.Warn("batch embedding failed, retrying one by one", slog.Int("batch", len(chunk)))
		}

		for _, c := range chunk {
			vec, err := p.Embed(ctx, c.source)
			if err != nil && ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			keep(c, vec, err)
		}
	}

	stats.Entries = len(entries)
	return entries, stats, nil
}

func filterStopwords(words []string, stop Stopwords) []string {
	out := words[:0]
	for _, w := range words {
		if !stop.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}
