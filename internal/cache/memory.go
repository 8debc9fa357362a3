package cache

import (
	"iter"
	"sync"
	"time"
)

// Memory is an in-memory Cache. It is safe for concurrent use.
//
// Values are stored as given. Values holding funcs or channels are refused.
// Use WithCopy when callers must not share state with the cache.
type Memory[V any] struct {
	mu    sync.RWMutex
	items map[string]item[V]
	now   func() time.Time
	copy  func(V) V
}

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// NewMemory returns an empty in-memory cache.
func NewMemory[V any](opts ...Option) *Memory[V] {
	o := buildOptions(opts)
	m := &Memory[V]{
		items: make(map[string]item[V]),
		now:   o.now,
	}
	if fn, ok := o.copy.(func(V) V); ok {
		m.copy = fn
	}
	return m
}

func (m *Memory[V]) clone(v V) V {
	if m.copy == nil {
		return v
	}
	return m.copy(v)
}

func (m *Memory[V]) Get(key string, def V) (V, error) {
	if err := ValidKey(key); err != nil {
		return def, err
	}
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || !m.now().Before(it.expiresAt) {
		return def, nil
	}
	return m.clone(it.value), nil
}

func (m *Memory[V]) Set(key string, value V, ttl TTL) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	if !storable(value) {
		return false, nil
	}
	it := item[V]{value: m.clone(value), expiresAt: m.now().Add(ttl.Value())}

	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
	return true, nil
}

func (m *Memory[V]) Delete(key string) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return true, nil
}

func (m *Memory[V]) Has(key string) (bool, error) {
	if err := ValidKey(key); err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.items[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *Memory[V]) Clear() bool {
	m.mu.Lock()
	clear(m.items)
	m.mu.Unlock()
	return true
}

func (m *Memory[V]) GetMultiple(keys []string, def V) (Values[V], error) {
	return getMultiple[V](m, keys, def)
}

func (m *Memory[V]) SetMultiple(values iter.Seq2[string, V], ttl TTL) (bool, error) {
	return setMultiple[V](m, values, ttl)
}

func (m *Memory[V]) DeleteMultiple(keys []string) (bool, error) {
	return deleteMultiple[V](m, keys)
}

// Len returns the number of stored entries, including expired ones.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
