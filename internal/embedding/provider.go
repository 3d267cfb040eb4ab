// Package embedding defines the embedding capability used by the corpus
// index and a deterministic offline implementation of it.
package embedding

import "context"

// Provider turns text into dense vectors and compares them.
type Provider interface {
	// Embed returns the vector for text. A zero-norm vector means the text
	// could not be embedded meaningfully.
	Embed(ctx context.Context, text string) ([]float32, error)

	// HasVector reports whether vec carries usable signal.
	HasVector(vec []float32) bool

	// Similarity is symmetric, bounded to [-1, 1], higher is more similar.
	Similarity(a, b []float32) float64

	// Model identifies the embedding model. Caches are keyed by it.
	Model() string
}

// BatchEmbedder is implemented by providers that embed several texts per call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	MaxBatchSize() int
}
