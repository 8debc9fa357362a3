package cache

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// fileEntry is the on-disk form of a cached value.
type fileEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// File is a Cache storing one JSON file per entry.
type File[V any] struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

// NewFile creates a file cache in dir. If dir is empty, uses the default
// cache directory.
func NewFile[V any](dir string, opts ...Option) (*File[V], error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	o := buildOptions(opts)
	return &File[V]{dir: dir, now: o.now}, nil
}

func (c *File[V]) Get(key string, def V) (V, error) {
	if err := ValidKey(key); err != nil {
		return def, err
	}
	c.mu.RLock()
	entry, ok := c.read(key)
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.ExpiresAt) {
		return def, nil
	}
	var v V
	if err := json.Unmarshal(entry.Value, &v); err != nil {
		return def, fmt.Errorf("decoding cache entry %q: %w", key, err)
	}
	return v, nil
}

func (c *File[V]) Set(key string, value V, ttl TTL) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, nil
	}
	now := c.now()
	data, err := json.Marshal(fileEntry{
		Key:       key,
		Value:     raw,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl.Value()),
	})
	if err != nil {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := writeFileAtomic(c.entryPath(key), data); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *File[V]) Delete(key string) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return false, nil
	}
	return true, nil
}

func (c *File[V]) Has(key string) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err := os.Stat(c.entryPath(key))
	return err == nil, nil
}

// Clear removes all cache entries. It reports false when the cache directory
// cannot be read.
func (c *File[V]) Clear() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return os.IsNotExist(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return true
}

func (c *File[V]) GetMultiple(keys []string, def V) (Values[V], error) {
	return getMultiple[V](c, keys, def)
}

func (c *File[V]) SetMultiple(values iter.Seq2[string, V], ttl TTL) (bool, error) {
	return setMultiple[V](c, values, ttl)
}

func (c *File[V]) DeleteMultiple(keys []string) (bool, error) {
	return deleteMultiple[V](c, keys)
}

// Stats returns cache statistics.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the cache.
func (c *File[V]) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	now := c.now()
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		entry, ok := readEntry(filepath.Join(c.dir, e.Name()))
		if ok && !now.Before(entry.ExpiresAt) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *File[V]) Dir() string {
	return c.dir
}

func (c *File[V]) read(key string) (fileEntry, bool) {
	return readEntry(c.entryPath(key))
}

func (c *File[V]) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+".json")
}

func readEntry(path string) (fileEntry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, false
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return fileEntry{}, false
	}
	return entry, true
}

// writeFileAtomic writes data next to path and renames it into place so
// readers never see a partial entry.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DefaultDir returns the platform-appropriate cache directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "constlist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "constlist"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "constlist", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "constlist", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "constlist"), nil
	}
}
