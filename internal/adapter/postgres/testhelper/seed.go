package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueKey returns a cache key that does not collide with other tests
// sharing the container.
func UniqueKey(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// SeedCacheHeader inserts a bare corpus_caches row with no entries.
func SeedCacheHeader(t *testing.T, pool *pgxpool.Pool, key string, schemaVersion, entryCount int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO corpus_caches (cache_key, source_hash, model, schema_version, dimension, entry_count, built_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key, "seeded-hash", "seeded-model", schemaVersion, 0, entryCount, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCacheHeader: %v", err)
	}
}
