package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultExtension is the file extension of loadable extension manifests.
const DefaultExtension = ".yaml"

// Record is a loaded extension. LoggerID names it in diagnostics.
type Record interface {
	LoggerID() string
}

// Extension is the base every record embeds.
type Extension struct {
	loggerID string
}

func NewExtension(loggerID string) Extension {
	return Extension{loggerID: loggerID}
}

func (e Extension) LoggerID() string { return e.loggerID }

// Hooks specialize a Registry. D is the raw imported shape of a file,
// R the typed record built from it.
type Hooks[K comparable, D any, R Record] interface {
	// Import turns a file into its raw shape. Errors are import failures.
	Import(ctx context.Context, path string) (D, error)
	// Verify reports whether the raw shape is complete, logging what is missing.
	Verify(name string, data D) bool
	// Wrap builds the record. Only called on verified data.
	Wrap(name string, data D) R
	Key(rec R) K
	// OnLoad runs after the record is inserted.
	OnLoad(ctx context.Context, rec R)
}

type Options struct {
	Logger    *zap.SugaredLogger
	Extension string
}

// Registry loads extension files from a directory tree into an
// insertion-ordered keyed mapping. It is written only while loading.
type Registry[K comparable, D any, R Record] struct {
	hooks Hooks[K, D, R]
	log   *zap.SugaredLogger
	ext   string

	mu      sync.RWMutex
	records map[K]R
	order   []K
}

func New[K comparable, D any, R Record](hooks Hooks[K, D, R], opts Options) *Registry[K, D, R] {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	return &Registry[K, D, R]{
		hooks:   hooks,
		log:     opts.Logger,
		ext:     opts.Extension,
		records: make(map[K]R),
	}
}

// LoadFolder loads every extension file in dir, then recurses into its
// subdirectories, both in listing order. Entries whose name has no dot are
// treated as directories; dot-named directories are never entered.
// Enumeration failures are logged and skip that subtree only.
// It returns the number of records loaded from the whole subtree.
func (r *Registry[K, D, R]) LoadFolder(ctx context.Context, dir string) int {
	if err := ctx.Err(); err != nil {
		r.log.Warnw("folder load cancelled", "dir", dir, "error", err)
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.log.Errorw("failed to read extension folder", "dir", dir, "error", err)
		return 0
	}

	loaded := 0
	for _, entry := range entries {
		if !r.loadable(entry.Name()) {
			continue
		}
		if r.LoadFile(ctx, filepath.Join(dir, entry.Name())) {
			loaded++
		}
	}
	r.log.Infow("loaded extension files", "dir", dir, "count", loaded)

	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".") {
			continue
		}
		loaded += r.LoadFolder(ctx, filepath.Join(dir, entry.Name()))
	}
	return loaded
}

func (r *Registry[K, D, R]) loadable(name string) bool {
	i := strings.LastIndex(name, ".")
	return i >= 0 && name[i:] == r.ext
}

// importFile runs the Import hook, turning a panic raised by extension code
// into an import error.
func (r *Registry[K, D, R]) importFile(ctx context.Context, path string) (data D, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf("extension import panicked: %v", p)
		}
	}()
	return r.hooks.Import(ctx, path)
}

// LoadFile imports, verifies and inserts a single extension file.
// It returns false on any failure and never leaves a partial record.
func (r *Registry[K, D, R]) LoadFile(ctx context.Context, path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), r.ext)

	data, err := r.importFile(ctx, path)
	if err != nil {
		r.log.Errorw("failed to import extension", "path", path, "error", err)
		return false
	}
	if !r.hooks.Verify(name, data) {
		return false
	}

	rec := r.hooks.Wrap(name, data)
	key := r.hooks.Key(rec)

	r.mu.Lock()
	if _, exists := r.records[key]; exists {
		r.mu.Unlock()
		r.log.Warnw("extension key already loaded, keeping the first", "key", key, "path", path)
		return false
	}
	r.records[key] = rec
	r.order = append(r.order, key)
	r.mu.Unlock()

	r.hooks.OnLoad(ctx, rec)
	r.log.Debugw("loaded extension", "key", key, "logger", rec.LoggerID())
	return true
}

func (r *Registry[K, D, R]) Lookup(key K) (R, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	return rec, ok
}

// Records returns the loaded records in insertion order.
func (r *Registry[K, D, R]) Records() []R {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]R, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.records[k])
	}
	return out
}

func (r *Registry[K, D, R]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]K(nil), r.order...)
}

func (r *Registry[K, D, R]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry[K, D, R]) Logger() *zap.SugaredLogger { return r.log }
