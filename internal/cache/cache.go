package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"time"
)

// DefaultExpiry is applied when Set is called with DefaultTTL.
const DefaultExpiry = time.Hour

// Cache is a keyed store with per-entry expiry.
type Cache[V any] interface {
	// Get returns the live value for key, or def when it is missing or expired.
	Get(key string, def V) (V, error)
	// Set stores value under key until ttl elapses. It returns false when the
	// value cannot be stored.
	Set(key string, value V, ttl TTL) (bool, error)
	// Delete removes key. Deleting a missing key succeeds.
	Delete(key string) (bool, error)
	// Has reports whether an entry exists for key, expired or not.
	Has(key string) (bool, error)
	// Clear removes every entry.
	Clear() bool
	// GetMultiple applies Get to each key, keeping the request order.
	GetMultiple(keys []string, def V) (Values[V], error)
	// SetMultiple applies Set to every pair with the same ttl. A value that
	// cannot be stored is skipped; an invalid key aborts with its error.
	SetMultiple(values iter.Seq2[string, V], ttl TTL) (bool, error)
	// DeleteMultiple applies Delete to each key and stops at the first one
	// that reports false.
	DeleteMultiple(keys []string) (bool, error)
}

// ErrInvalidKey is matched by every key validation error.
var ErrInvalidKey = errors.New("invalid cache key")

// KeyError reports a key outside the cache key space.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", ErrInvalidKey, e.Reason)
	}
	return fmt.Sprintf("%v: %q", ErrInvalidKey, e.Key)
}

func (e *KeyError) Unwrap() error { return ErrInvalidKey }

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.]{1,64}$`)

// ValidKey checks key against the cache key space.
func ValidKey(key string) error {
	if !keyPattern.MatchString(key) {
		return &KeyError{Key: key}
	}
	return nil
}

// HashKey folds arbitrary key material into a valid key (SHA-256, hex).
func HashKey(material string) string {
	h := sha256.Sum256([]byte(material))
	return fmt.Sprintf("%x", h)
}

// TTL is the lifetime of an entry. The zero value is DefaultTTL.
type TTL struct {
	d   time.Duration
	set bool
}

// DefaultTTL selects DefaultExpiry.
var DefaultTTL = TTL{}

// Duration returns a TTL of d.
func Duration(d time.Duration) TTL { return TTL{d: d, set: true} }

// Seconds returns a TTL of n seconds.
func Seconds(n int) TTL { return Duration(time.Duration(n) * time.Second) }

// Value returns the effective lifetime.
func (t TTL) Value() time.Duration {
	if !t.set {
		return DefaultExpiry
	}
	return t.d
}

func (t TTL) String() string {
	if !t.set {
		return "default(" + DefaultExpiry.String() + ")"
	}
	return t.d.String()
}

// KeyValue is one result of GetMultiple.
type KeyValue[V any] struct {
	Key   string
	Value V
}

// Values holds GetMultiple results in request order.
type Values[V any] []KeyValue[V]

// Map returns the results keyed by cache key.
func (vs Values[V]) Map() map[string]V {
	m := make(map[string]V, len(vs))
	for _, kv := range vs {
		m[kv.Key] = kv.Value
	}
	return m
}

// Keys returns the keys in request order.
func (vs Values[V]) Keys() []string {
	out := make([]string, 0, len(vs))
	for _, kv := range vs {
		out = append(out, kv.Key)
	}
	return out
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now  func() time.Time
	copy any // func(V) V
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCopy makes Memory store and return copies made by fn. The file
// backend always decodes a fresh value and ignores it.
func WithCopy[V any](fn func(V) V) Option {
	return func(o *options) { o.copy = fn }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// The batch operations are defined once over the single-key ones.

func getMultiple[V any](c Cache[V], keys []string, def V) (Values[V], error) {
	out := make(Values[V], 0, len(keys))
	for _, key := range keys {
		v, err := c.Get(key, def)
		if err != nil {
			return nil, err
		}
		out = append(out, KeyValue[V]{Key: key, Value: v})
	}
	return out, nil
}

func setMultiple[V any](c Cache[V], values iter.Seq2[string, V], ttl TTL) (bool, error) {
	if values == nil {
		return false, &KeyError{Reason: "values passed to SetMultiple are not iterable"}
	}
	for key, v := range values {
		if _, err := c.Set(key, v, ttl); err != nil {
			return false, err
		}
	}
	return true, nil
}

func deleteMultiple[V any](c Cache[V], keys []string) (bool, error) {
	for _, key := range keys {
		ok, err := c.Delete(key)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
