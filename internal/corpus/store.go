package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// Store persists caches by key. Load returns an error wrapping
// domain.ErrNotFound when no cache exists and domain.ErrCacheInvalid when
// one exists but cannot be read. Save replaces any previous cache whole.
// Delete of an absent key is not an error.
type Store interface {
	Load(ctx context.Context, key string) (*Cache, error)
	Save(ctx context.Context, key string, c *Cache) error
	Delete(ctx context.Context, key string) error
}

// CacheKey names the cache for a corpus file and embedding model, so caches
// for several models can coexist.
func CacheKey(corpusPath, model string) string {
	return filepath.Base(corpusPath) + "_" + sanitizeModel(model)
}

func sanitizeModel(model string) string {
	if model == "" {
		return "model"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, model)
}

// FileStore keeps one encoded blob per key in a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first save.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".cache")
}

func (s *FileStore) Load(_ context.Context, key string) (*Cache, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus cache %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCacheInvalid, s.Path(key), err)
	}
	return Decode(data)
}

// Save writes to a temporary file and renames it over the old cache, so a
// crash never leaves a half-written blob behind.
func (s *FileStore) Save(_ context.Context, key string, c *Cache) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrCacheWriteFailed, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", domain.ErrCacheWriteFailed, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", domain.ErrCacheWriteFailed, err)
	}
	tmpName := tmp.Name()
	cleanup := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", domain.ErrCacheWriteFailed, step, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", domain.ErrCacheWriteFailed, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", domain.ErrCacheWriteFailed, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.Path(key), err)
	}
	return nil
}
