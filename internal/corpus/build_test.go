package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

func pairs(rows ...string) []domain.SentencePair {
	out := make([]domain.SentencePair, 0, len(rows)/2)
	for i := 0; i+1 < len(rows); i += 2 {
		out = append(out, domain.SentencePair{Source: rows[i], Target: rows[i+1]})
	}
	return out
}

func TestBuild_FiltersAndDeduplicates(t *testing.T) {
	t.Parallel()

	p := newFakeProvider("fake")
	p.vectors["zero"] = []float32{0, 0}
	p.fail["broken"] = true

	entries, stats, err := Build(context.Background(), pairs(
		"I eat fruit.", "mi moku e kili.",
		"I eat fruit.", "mi moku.", // duplicate source, first wins
		"He is.", "ona li.", // only stopwords
		"zero", "telo",
		"broken", "pakala",
		"Water is good.", "telo li pona, telo!",
	), p, NewStopwords(DefaultStopwords...), 0, newTestLogger())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, []string{"moku", "kili"}, entries[0].Words)
	assert.Equal(t, []string{"telo", "pona", "telo"}, entries[1].Words, "duplicates are the frequency signal")

	assert.Equal(t, BuildStats{Pairs: 6, Duplicates: 1, NoWords: 1, EmbedFailed: 1, ZeroNorm: 1, Entries: 2}, stats)
}

func TestBuild_BatchesAndFallsBack(t *testing.T) {
	t.Parallel()

	bp := &batchProvider{fakeProvider: newFakeProvider("fake")}
	bp.maxBatch = 100

	rows := pairs("a one", "wan", "a two", "tu", "a three", "mute", "a four", "mute mute", "a five", "luka")
	entries, _, err := Build(context.Background(), rows, bp, nil, 2, newTestLogger())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Equal(t, []int{2, 2}, bp.batches, "batch size capped by config; a trailing single goes through Embed")

	failing := &batchProvider{fakeProvider: newFakeProvider("fake")}
	failing.maxBatch = 10
	failing.batchFails = true
	entries, _, err = Build(context.Background(), rows, failing, nil, 0, newTestLogger())
	require.NoError(t, err)
	assert.Len(t, entries, 5, "a failed batch is retried one sentence at a time")
}

func TestBuild_ProviderWithoutBatchLimit(t *testing.T) {
	t.Parallel()

	rows := pairs("a one", "wan", "a two", "tu", "a three", "mute")

	tests := []struct {
		name      string
		batchSize int
		wantSizes []int
	}{
		{name: "no configured size", batchSize: 0, wantSizes: nil},
		{name: "configured size", batchSize: 2, wantSizes: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bp := &batchProvider{fakeProvider: newFakeProvider("fake")}
			bp.maxBatch = 0

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			entries, _, err := Build(ctx, rows, bp, nil, tt.batchSize, newTestLogger())
			require.NoError(t, err)
			assert.Len(t, entries, 3)
			assert.Equal(t, tt.wantSizes, bp.batches)
		})
	}
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Build(ctx, pairs("a", "wan"), newFakeProvider("fake"), nil, 0, newTestLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
