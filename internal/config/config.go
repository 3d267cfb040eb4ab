package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Convert   ConvertConfig   `yaml:"convert"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when the
// corpus cache backend is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP limits for the HTTP API.
type RateLimitConfig struct {
	SearchPerMinute int           `yaml:"search_per_minute" env:"RATE_LIMIT_SEARCH_PER_MINUTE" env-default:"60"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATE_LIMIT_CLEANUP_INTERVAL"  env-default:"5m"`
}

// LexiconConfig locates the vocabulary sources.
type LexiconConfig struct {
	PrimaryPath       string        `yaml:"primary_path"       env:"LEXICON_PRIMARY_PATH"       env-default:"data/dictionary.json"`
	SupplementaryPath string        `yaml:"supplementary_path" env:"LEXICON_SUPPLEMENTARY_PATH" env-default:"data/supplementary.json"`
	Watch             bool          `yaml:"watch"              env:"LEXICON_WATCH"              env-default:"false"`
	WatchDebounce     time.Duration `yaml:"watch_debounce"     env:"LEXICON_WATCH_DEBOUNCE"     env-default:"250ms"`
}

// ConvertConfig holds the default conversion switches. Each one turns a
// default-on behavior off, so the zero value means "all enabled".
type ConvertConfig struct {
	DisableASCIIControls bool `yaml:"disable_ascii_controls" env:"CONVERT_DISABLE_ASCII_CONTROLS"`
	DropUnknown          bool `yaml:"drop_unknown"           env:"CONVERT_DROP_UNKNOWN"`
	KeepWhitespace       bool `yaml:"keep_whitespace"        env:"CONVERT_KEEP_WHITESPACE"`
	DropNewlines         bool `yaml:"drop_newlines"          env:"CONVERT_DROP_NEWLINES"`
}

// Cache backends.
const (
	CacheBackendFile     = "file"
	CacheBackendPostgres = "postgres"
)

// CorpusConfig holds semantic index settings.
type CorpusConfig struct {
	Path          string `yaml:"path"           env:"CORPUS_PATH"           env-default:"data/sentences.tsv"`
	CacheDir      string `yaml:"cache_dir"      env:"CORPUS_CACHE_DIR"      env-default:"."`
	CacheBackend  string `yaml:"cache_backend"  env:"CORPUS_CACHE_BACKEND"  env-default:"file"`
	TopN          int    `yaml:"top_n"          env:"CORPUS_TOP_N"          env-default:"25"`
	MinRelevance  int    `yaml:"min_relevance"  env:"CORPUS_MIN_RELEVANCE"  env-default:"1"`
	StopwordsRaw  string `yaml:"stopwords"      env:"CORPUS_STOPWORDS"      env-default:"li,e,pi,mi,ona"`
	// LazyIndex defers opening the index until the first search.
	LazyIndex bool `yaml:"lazy_index" env:"CORPUS_LAZY_INDEX"`

	// Stopwords is parsed from StopwordsRaw during validation.
	Stopwords []string `yaml:"-" env:"-"`
}

// Embedding providers.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"   env:"EMBEDDING_PROVIDER"   env-default:"hashing"`
	Model     string `yaml:"model"      env:"EMBEDDING_MODEL"`
	APIKey    string `yaml:"api_key"    env:"OPENAI_API_KEY"`
	BaseURL   string `yaml:"base_url"   env:"EMBEDDING_BASE_URL"`
	Dimension int    `yaml:"dimension"  env:"EMBEDDING_DIMENSION"  env-default:"256"`
	BatchSize int    `yaml:"batch_size" env:"EMBEDDING_BATCH_SIZE" env-default:"100"`
}
