// Package corpuscache stores corpus index caches in PostgreSQL, one header
// row per cache key plus one row per entry with a pgvector embedding.
package corpuscache

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	postgres "github.com/heartmarshall/ilo-wawa/internal/adapter/postgres"
	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

const (
	tableCaches  = "corpus_caches"
	tableEntries = "corpus_entries"
	entity       = "corpus cache"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo implements corpus.Store on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

var _ corpus.Store = (*Repo)(nil)

// New creates a Repo.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// Load reads the cache for key. A missing header maps to domain.ErrNotFound;
// a header whose schema version or entry count does not match its rows maps
// to domain.ErrCacheInvalid.
func (r *Repo) Load(ctx context.Context, key string) (*corpus.Cache, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("source_hash", "model", "schema_version", "entry_count", "built_at").
		From(tableCaches).
		Where(sq.Eq{"cache_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build header query: %w", err)
	}

	var (
		c       corpus.Cache
		version int
		count   int
		builtAt time.Time
	)
	if err := q.QueryRow(ctx, query, args...).Scan(&c.SourceHash, &c.Model, &version, &count, &builtAt); err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	if version != corpus.SchemaVersion {
		return nil, fmt.Errorf("%s %s: %w: schema version %d", entity, key, domain.ErrCacheInvalid, version)
	}
	c.BuiltAt = builtAt.UTC()

	query, args, err = psql.
		Select("embedding", "words").
		From(tableEntries).
		Where(sq.Eq{"cache_key": key}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	defer rows.Close()

	c.Entries = make([]corpus.Entry, 0, count)
	for rows.Next() {
		var (
			vec   pgvector.Vector
			words []string
		)
		if err := rows.Scan(&vec, &words); err != nil {
			return nil, postgres.MapError(err, entity, key)
		}
		c.Entries = append(c.Entries, corpus.Entry{Vector: vec.Slice(), Words: words})
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	if len(c.Entries) != count {
		return nil, fmt.Errorf("%s %s: %w: %d rows, header says %d", entity, key, domain.ErrCacheInvalid, len(c.Entries), count)
	}
	return &c, nil
}

// Save replaces the cache for key in one transaction.
func (r *Repo) Save(ctx context.Context, key string, c *corpus.Cache) error {
	dim := 0
	if len(c.Entries) > 0 {
		dim = len(c.Entries[0].Vector)
	}

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		query, args, err := psql.Delete(tableCaches).Where(sq.Eq{"cache_key": key}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := q.Exec(txCtx, query, args...); err != nil {
			return postgres.MapError(err, entity, key)
		}

		query, args, err = psql.
			Insert(tableCaches).
			Columns("cache_key", "source_hash", "model", "schema_version", "dimension", "entry_count", "built_at").
			Values(key, c.SourceHash, c.Model, corpus.SchemaVersion, dim, len(c.Entries), c.BuiltAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := q.Exec(txCtx, query, args...); err != nil {
			return postgres.MapError(err, entity, key)
		}

		if len(c.Entries) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, e := range c.Entries {
			if len(e.Vector) != dim {
				return fmt.Errorf("entry %d: vector length %d, want %d", i, len(e.Vector), dim)
			}
			batch.Queue(
				`INSERT INTO corpus_entries (cache_key, position, embedding, words) VALUES ($1, $2, $3, $4)`,
				key, i, pgvector.NewVector(e.Vector), e.Words,
			)
		}

		results := q.SendBatch(txCtx, batch)
		defer results.Close()
		for range batch.Len() {
			if _, err := results.Exec(); err != nil {
				return postgres.MapError(err, entity, key)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheWriteFailed, err)
	}
	return nil
}

// Delete removes the cache for key, if any.
func (r *Repo) Delete(ctx context.Context, key string) error {
	query, args, err := psql.Delete(tableCaches).Where(sq.Eq{"cache_key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, entity, key)
	}
	return nil
}
