package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ilo-wawa/internal/adapter/postgres"
	"github.com/heartmarshall/ilo-wawa/internal/adapter/postgres/corpuscache"
	openaiprovider "github.com/heartmarshall/ilo-wawa/internal/adapter/provider/openai"
	"github.com/heartmarshall/ilo-wawa/internal/config"
	"github.com/heartmarshall/ilo-wawa/internal/convert"
	"github.com/heartmarshall/ilo-wawa/internal/corpus"
	"github.com/heartmarshall/ilo-wawa/internal/embedding"
	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
	"github.com/heartmarshall/ilo-wawa/internal/service/lexicon"
)

// App holds the wired components shared by every command.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Store    *lexstore.Store
	Provider embedding.Provider
	Index    *corpus.Index
	Service  *lexicon.Service

	pool *pgxpool.Pool
}

// Run installs the process logger, wires the app from cfg and serves the
// HTTP API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}

// New loads the vocabulary and wires the embedding provider, corpus cache
// backend, index and service. The corpus index is not opened here; the
// service opens it on first use, and Serve opens it at startup unless
// lazy indexing is configured.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store := lexstore.NewStore(lexstore.Paths{
		Primary:       cfg.Lexicon.PrimaryPath,
		Supplementary: cfg.Lexicon.SupplementaryPath,
	}, logger)
	st := store.Reload()
	logger.Info("vocabulary loaded",
		slog.String("status", st.String()),
		slog.Int("entries", st.Entries),
		slog.Int("keys", st.Keys),
	)

	provider, err := NewProvider(cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Log:      logger,
		Store:    store,
		Provider: provider,
	}

	cacheStore, err := a.newCacheStore(ctx)
	if err != nil {
		return nil, err
	}

	a.Index = corpus.NewIndex(provider, cacheStore, corpus.Options{
		CorpusPath: cfg.Corpus.Path,
		Stopwords:  corpus.NewStopwords(cfg.Corpus.Stopwords...),
		BatchSize:  cfg.Embedding.BatchSize,
	}, logger)

	a.Service = lexicon.NewService(logger, store, a.Index, lexicon.Config{
		Options:      ConvertOptions(cfg.Convert),
		TopN:         cfg.Corpus.TopN,
		MinRelevance: cfg.Corpus.MinRelevance,
		LazyIndex:    true,
	})

	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// NewProvider builds the configured embedding provider.
func NewProvider(cfg config.EmbeddingConfig, logger *slog.Logger) (embedding.Provider, error) {
	switch cfg.Provider {
	case config.ProviderHashing:
		return embedding.NewHashing(cfg.Dimension), nil
	case config.ProviderOpenAI:
		var opts []openaiprovider.Option
		if cfg.Model != "" {
			opts = append(opts, openaiprovider.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openaiprovider.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Dimension > 0 {
			opts = append(opts, openaiprovider.WithDimension(cfg.Dimension))
		}
		return openaiprovider.NewEmbedder(cfg.APIKey, logger, opts...), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func (a *App) newCacheStore(ctx context.Context) (corpus.Store, error) {
	switch a.Config.Corpus.CacheBackend {
	case config.CacheBackendFile:
		return corpus.NewFileStore(a.Config.Corpus.CacheDir), nil
	case config.CacheBackendPostgres:
		pool, err := postgres.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		a.pool = pool
		a.Log.Info("corpus cache backend: postgres")
		return corpuscache.New(pool, postgres.NewTxManager(pool)), nil
	default:
		return nil, fmt.Errorf("unknown corpus cache backend %q", a.Config.Corpus.CacheBackend)
	}
}

// ConvertOptions maps the configured switches onto conversion options.
func ConvertOptions(cfg config.ConvertConfig) convert.Options {
	return convert.Options{
		AllowASCIIControls: !cfg.DisableASCIIControls,
		PassUnknown:        !cfg.DropUnknown,
		CollapseWhitespace: !cfg.KeepWhitespace,
		PreserveNewlines:   !cfg.DropNewlines,
	}
}
