package corpus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/heartmarshall/ilo-wawa/internal/embedding"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errEmbed = errors.New("embed failed")

// fakeProvider returns fixed vectors for known texts and falls back to
// feature hashing. It counts every text it embeds.
type fakeProvider struct {
	model   string
	vectors map[string][]float32
	fail    map[string]bool
	hashing *embedding.Hashing

	batchFails bool
	maxBatch   int

	mu    sync.Mutex
	calls int
}

func newFakeProvider(model string) *fakeProvider {
	return &fakeProvider{
		model:   model,
		vectors: map[string][]float32{},
		fail:    map[string]bool{},
		hashing: embedding.NewHashing(32),
	}
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fail[text] {
		return nil, errEmbed
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.hashing.Embed(ctx, text)
}

func (f *fakeProvider) HasVector(v []float32) bool      { return embedding.HasVector(v) }
func (f *fakeProvider) Similarity(a, b []float32) float64 { return embedding.Cosine(a, b) }
func (f *fakeProvider) Model() string                    { return f.model }

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// batchProvider adds batching on top of fakeProvider.
type batchProvider struct {
	*fakeProvider
	batches []int
}

func (b *batchProvider) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	b.batches = append(b.batches, len(texts))
	if b.batchFails {
		return nil, errEmbed
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := b.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b *batchProvider) MaxBatchSize() int { return b.maxBatch }
