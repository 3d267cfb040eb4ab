package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Corpus.validate(); err != nil {
		return fmt.Errorf("corpus: %w", err)
	}

	if c.Corpus.CacheBackend == CacheBackendPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when corpus.cache_backend is %q", CacheBackendPostgres)
	}

	if err := c.Embedding.validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	if c.RateLimit.SearchPerMinute < 0 {
		return fmt.Errorf("rate_limit.search_per_minute must be >= 0 (got %d)", c.RateLimit.SearchPerMinute)
	}

	return nil
}

func (c *CorpusConfig) validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be > 0 (got %d)", c.TopN)
	}
	if c.MinRelevance < 0 {
		return fmt.Errorf("min_relevance must be >= 0 (got %d)", c.MinRelevance)
	}
	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendPostgres:
	default:
		return fmt.Errorf("unknown cache_backend %q", c.CacheBackend)
	}

	c.Stopwords = ParseList(c.StopwordsRaw)
	return nil
}

func (e *EmbeddingConfig) validate() error {
	switch e.Provider {
	case ProviderHashing:
		if e.Dimension <= 0 {
			return fmt.Errorf("dimension must be > 0 for the hashing provider (got %d)", e.Dimension)
		}
	case ProviderOpenAI:
		if e.APIKey == "" {
			return fmt.Errorf("api_key is required for the openai provider")
		}
		if e.Dimension < 0 {
			return fmt.Errorf("dimension must be >= 0 (got %d)", e.Dimension)
		}
	default:
		return fmt.Errorf("unknown provider %q", e.Provider)
	}
	if e.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", e.BatchSize)
	}
	return nil
}

// ParseList splits a comma-separated string into trimmed, lowercased,
// non-empty items. An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
