package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashingDimension is used when NewHashing is given a non-positive size.
const DefaultHashingDimension = 256

// Hashing embeds text by feature hashing: every lowercase word and every
// character trigram of a padded word is hashed into a signed bucket, and
// the result is L2-normalized. It needs no network and is fully
// deterministic, which makes it the default provider and the test provider.
type Hashing struct {
	dim int
}

var _ Provider = (*Hashing)(nil)
var _ BatchEmbedder = (*Hashing)(nil)

// NewHashing creates a Hashing provider with dim buckets.
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &Hashing{dim: dim}
}

// Embed returns the hashed vector. Text without letters or digits yields a
// zero vector.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, h.dim)
	for _, w := range words(text) {
		h.add(vec, "w:"+w, 1)
		padded := "^" + w + "$"
		r := []rune(padded)
		for i := 0; i+3 <= len(r); i++ {
			h.add(vec, "g:"+string(r[i:i+3]), 0.5)
		}
	}

	n := Norm(vec)
	if n == 0 {
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / n)
	}
	return vec, nil
}

// BatchEmbed embeds each text in order.
func (h *Hashing) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MaxBatchSize has no practical limit for local hashing.
func (h *Hashing) MaxBatchSize() int { return math.MaxInt32 }

func (h *Hashing) HasVector(vec []float32) bool { return HasVector(vec) }

func (h *Hashing) Similarity(a, b []float32) float64 { return Cosine(a, b) }

func (h *Hashing) Model() string { return fmt.Sprintf("hashing-%d", h.dim) }

// Dimension returns the vector length.
func (h *Hashing) Dimension() int { return h.dim }

func (h *Hashing) add(vec []float32, feature string, weight float32) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()

	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
