package corpus

import (
	"slices"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// DefaultTopN is the number of best-matching sentences aggregated per query.
const DefaultTopN = 25

// Rank scores every entry against query, keeps the topN best sentences and
// counts their words. Both sorts are stable: equal scores keep build order
// and equal frequencies keep first-seen order. The result is never nil.
func Rank(query []float32, entries []Entry, similarity func(a, b []float32) float64, topN int, stop Stopwords) []domain.WordScore {
	if len(entries) == 0 || len(query) == 0 {
		return []domain.WordScore{}
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	type scored struct {
		score float64
		words []string
	}
	ranked := make([]scored, len(entries))
	for i, e := range entries {
		ranked[i] = scored{score: similarity(query, e.Vector), words: e.Words}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	counts := make(map[string]int)
	var order []string
	for _, s := range ranked {
		for _, w := range s.words {
			if stop.Contains(w) {
				continue
			}
			if _, ok := counts[w]; !ok {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	out := make([]domain.WordScore, len(order))
	for i, w := range order {
		out[i] = domain.WordScore{Word: w, Frequency: counts[w]}
	}
	slices.SortStableFunc(out, func(a, b domain.WordScore) int {
		return b.Frequency - a.Frequency
	})
	return out
}
