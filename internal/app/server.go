package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	lexstore "github.com/heartmarshall/ilo-wawa/internal/lexicon"
	"github.com/heartmarshall/ilo-wawa/internal/transport/middleware"
	"github.com/heartmarshall/ilo-wawa/internal/transport/rest"
)

// Handler builds the HTTP handler. limiter is owned by the caller.
func (a *App) Handler(limiter *middleware.RateLimiter) http.Handler {
	// A nil *pgxpool.Pool stored in the interface would not compare equal
	// to nil inside the health handler.
	var db rest.DBPinger
	if a.pool != nil {
		db = a.pool
	}

	return rest.NewRouter(rest.RouterDeps{
		Lexicon:         rest.NewLexiconHandler(a.Service, a.Log),
		Health:          rest.NewHealthHandler(a.Service, db, BuildVersion()),
		Limiter:         limiter,
		Logger:          a.Log,
		CORS:            a.Config.CORS,
		SearchPerMinute: a.Config.RateLimit.SearchPerMinute,
	})
}

// Serve runs the HTTP server, the vocabulary watcher and the initial index
// load, and blocks until ctx is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config
	eg, egctx := errgroup.WithContext(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.Handler(limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
	}

	if !cfg.Corpus.LazyIndex {
		eg.Go(func() error {
			_, err := a.Service.OpenIndex(egctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if cfg.Lexicon.Watch {
		w := lexstore.NewWatcher(a.Store, a.Log, cfg.Lexicon.WatchDebounce)
		w.OnReload = func(st lexstore.Status) {
			a.Log.Info("vocabulary hot-reloaded", slog.String("status", st.String()), slog.Int("entries", st.Entries))
		}
		eg.Go(func() error {
			return w.Run(egctx)
		})
	}

	eg.Go(func() error {
		a.Log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		a.Log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
