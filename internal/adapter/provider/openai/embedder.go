package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/heartmarshall/ilo-wawa/internal/embedding"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "text-embedding-3-small"
	// maxBatch is the API limit on inputs per request.
	maxBatch = 100
)

// Embedder calls the OpenAI embeddings API.
type Embedder struct {
	client    openai.Client
	model     string
	dimension int
	log       *slog.Logger
}

var _ embedding.Provider = (*Embedder)(nil)
var _ embedding.BatchEmbedder = (*Embedder)(nil)

type options struct {
	model      string
	dimension  int
	baseURL    string
	maxRetries int
}

// Option configures an Embedder.
type Option func(*options)

// WithModel overrides the embedding model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithDimension requests shortened vectors. Zero keeps the model default.
func WithDimension(dimension int) Option {
	return func(o *options) { o.dimension = dimension }
}

// WithBaseURL points the client at a compatible server (for testing).
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithMaxRetries sets the SDK retry count.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// NewEmbedder creates an Embedder.
func NewEmbedder(apiKey string, logger *slog.Logger, opts ...Option) *Embedder {
	o := options{model: DefaultModel, maxRetries: 2}
	for _, opt := range opts {
		opt(&o)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(o.maxRetries),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &Embedder{
		client:    openai.NewClient(reqOpts...),
		model:     o.model,
		dimension: o.dimension,
		log:       logger.With("adapter", "openai"),
	}
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// BatchEmbed embeds up to 100 texts in one request. Vectors are returned
// in input order.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("openai: no texts provided")
	}
	if len(texts) > maxBatch {
		return nil, fmt.Errorf("openai: batch size %d exceeds maximum of %d", len(texts), maxBatch)
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
	}
	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{OfString: openai.String(texts[0])}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts}
	}
	if e.dimension > 0 {
		params.Dimensions = openai.Int(int64(e.dimension))
	}

	e.log.DebugContext(ctx, "openai embeddings request", slog.Int("inputs", len(texts)))

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	out := make([][]float32, len(data))
	for i, d := range data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}

// MaxBatchSize returns the API limit on inputs per request.
func (e *Embedder) MaxBatchSize() int { return maxBatch }

func (e *Embedder) HasVector(vec []float32) bool { return embedding.HasVector(vec) }

func (e *Embedder) Similarity(a, b []float32) float64 { return embedding.Cosine(a, b) }

// Model returns the model identifier, including the requested dimension
// when one is set, since shortened vectors are not interchangeable.
func (e *Embedder) Model() string {
	if e.dimension > 0 {
		return fmt.Sprintf("%s-%d", e.model, e.dimension)
	}
	return e.model
}
