package constlist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/constlist/internal/annotation"
	"github.com/dshills/constlist/internal/cache"
	"github.com/dshills/constlist/internal/source"
)

// Source is one loaded type: its identity, its tokens, and the binding of
// its constants.
type Source interface {
	annotation.Resolver
	ID() string
	Tokens() ([]annotation.Token, error)
}

// LoaderFunc loads the named type from the package in dir.
type LoaderFunc func(ctx context.Context, dir, typeName string) (Source, error)

// LoadGo loads Go types with the source package.
func LoadGo(ctx context.Context, dir, typeName string) (Source, error) {
	t, err := source.Load(ctx, dir, typeName)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Options configures a Registry.
type Options struct {
	// Cache memoizes scan results. Nil selects an in-memory cache.
	Cache cache.Cache[annotation.Lists]
	// TTL applies to every cached result.
	TTL cache.TTL
	// Debug disables the cache.
	Debug bool
	// Load defaults to LoadGo.
	Load LoaderFunc
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Registry looks up constant lists of Go types.
type Registry struct {
	mu    sync.RWMutex
	debug bool

	cache  cache.Cache[annotation.Lists]
	ttl    cache.TTL
	load   LoaderFunc
	logger *slog.Logger
}

// New creates a Registry.
func New(opts Options) *Registry {
	r := &Registry{
		debug:  opts.Debug,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		load:   opts.Load,
		logger: opts.Logger,
	}
	if r.cache == nil {
		r.cache = cache.NewMemory[annotation.Lists](cache.WithCopy(annotation.Lists.Clone))
	}
	if r.load == nil {
		r.load = LoadGo
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// SetDebug toggles debug mode.
func (r *Registry) SetDebug(debug bool) {
	r.mu.Lock()
	r.debug = debug
	r.mu.Unlock()
}

// Debug reports whether debug mode is on.
func (r *Registry) Debug() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.debug
}

// ClearCache removes every cached result.
func (r *Registry) ClearCache() bool {
	return r.cache.Clear()
}

// Get returns every constant list of typeName declared in dir.
func (r *Registry) Get(ctx context.Context, dir, typeName string) (annotation.Lists, error) {
	if r.Debug() {
		r.logger.Debug("debug mode, scanning without cache", "dir", dir, "type", typeName)
		return r.scan(ctx, dir, typeName)
	}

	id, err := typeIdentity(dir, typeName)
	if err != nil {
		return nil, err
	}
	sum, err := fingerprint(dir)
	if err != nil {
		return nil, err
	}
	key := cache.HashKey(id + "#" + sum)

	has, err := r.cache.Has(key)
	if err != nil {
		return nil, fmt.Errorf("checking cache: %w", err)
	}
	if has {
		lists, err := r.cache.Get(key, nil)
		if err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if lists != nil {
			r.logger.Debug("cache hit", "type", id)
			return lists, nil
		}
		// Has does not look at expiry.
		r.logger.Debug("cache entry expired", "type", id)
	}

	lists, err := r.scan(ctx, dir, typeName)
	if err != nil {
		return nil, err
	}
	ok, err := r.cache.Set(key, lists, r.ttl)
	if err != nil {
		return nil, fmt.Errorf("caching %s: %w", id, err)
	}
	r.logger.Debug("cache miss", "type", id, "lists", len(lists), "stored", ok)
	return lists, nil
}

// List returns the list called name. An unknown list is empty.
func (r *Registry) List(ctx context.Context, dir, typeName, name string) (annotation.List, error) {
	lists, err := r.Get(ctx, dir, typeName)
	if err != nil {
		return annotation.List{}, err
	}
	l, ok := lists.List(name)
	if !ok {
		return annotation.List{Name: name, Entries: []annotation.Entry{}}, nil
	}
	return l, nil
}

// Label returns the label of value in the named list.
func (r *Registry) Label(ctx context.Context, dir, typeName, name, value string) (string, bool, error) {
	l, err := r.List(ctx, dir, typeName, name)
	if err != nil {
		return "", false, err
	}
	label, ok := l.Label(value)
	return label, ok, nil
}

// Exists reports whether value has a label in the named list. The labels ""
// and "0" count as absent.
func (r *Registry) Exists(ctx context.Context, dir, typeName, name, value string) (bool, error) {
	label, _, err := r.Label(ctx, dir, typeName, name, value)
	if err != nil {
		return false, err
	}
	return label != "" && label != "0", nil
}

func (r *Registry) scan(ctx context.Context, dir, typeName string) (annotation.Lists, error) {
	src, err := r.load(ctx, dir, typeName)
	if err != nil {
		return nil, err
	}
	toks, err := src.Tokens()
	if err != nil {
		return nil, fmt.Errorf("tokenizing %s: %w", src.ID(), err)
	}
	lists, err := annotation.Scan(toks, src)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", src.ID(), err)
	}
	return lists, nil
}

// typeIdentity names a type without loading it.
func typeIdentity(dir, typeName string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs + "#" + typeName, nil
}

// fingerprint hashes the names and contents of the package's non-test Go
// files, so an edit to any of them selects a new cache entry.
func fingerprint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	h := sha256.New()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", name, len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
