package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/heartmarshall/ilo-wawa/internal/config"
	"github.com/heartmarshall/ilo-wawa/internal/transport/middleware"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Lexicon *LexiconHandler
	Health  *HealthHandler
	Limiter *middleware.RateLimiter
	Logger  *slog.Logger
	CORS    config.CORSConfig
	// SearchPerMinute limits /api/search per client IP. Zero disables it.
	SearchPerMinute int
}

// NewRouter builds the HTTP handler for the API and health endpoints.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORS),
	))

	r.Get("/health", d.Health.Health)
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", d.Lexicon.Convert)
		r.With(d.Limiter.Limit(d.SearchPerMinute)).Get("/search", d.Lexicon.Search)
		r.Get("/words", d.Lexicon.Words)
		r.Get("/words/{word}", d.Lexicon.Word)
		r.Post("/vocabulary/reload", d.Lexicon.ReloadVocabulary)
		r.Post("/corpus/rebuild", d.Lexicon.RebuildCorpus)
	})

	return r
}
