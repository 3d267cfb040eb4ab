package lexicon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Store whenever one of its source files changes.
type Watcher struct {
	store    *Store
	log      *slog.Logger
	debounce time.Duration

	// OnReload, if set, is called after every reload triggered by the watcher.
	OnReload func(Status)
}

// NewWatcher creates a Watcher for the store's configured paths.
func NewWatcher(store *Store, logger *slog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		store:    store,
		log:      logger.With("component", "lexicon_watcher"),
		debounce: debounce,
	}
}

// Run watches until ctx is cancelled. Directories are watched rather than
// files so that atomic saves (write temp, rename over) are observed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	paths := w.store.Paths()
	for _, p := range []string{paths.Primary, paths.Supplementary} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.log.Info("watching vocabulary sources", slog.Int("files", len(targets)))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.log.Debug("vocabulary source changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("fs watcher error", slog.String("error", err.Error()))
		case <-timer.C:
			st := w.store.Reload()
			if w.OnReload != nil {
				w.OnReload(st)
			}
		}
	}
}
