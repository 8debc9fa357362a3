package cache

import (
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var (
	_ Cache[int] = (*Memory[int])(nil)
	_ Cache[int] = (*File[int])(nil)
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// backends runs fn against every Cache implementation.
func backends[V any](t *testing.T, fn func(t *testing.T, c Cache[V], clock *fakeClock)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		clock := newClock()
		fn(t, NewMemory[V](WithClock(clock.Now)), clock)
	})
	t.Run("file", func(t *testing.T) {
		clock := newClock()
		c, err := NewFile[V](t.TempDir(), WithClock(clock.Now))
		if err != nil {
			t.Fatalf("NewFile error: %v", err)
		}
		fn(t, c, clock)
	})
}

func pairs[V any](kv ...any) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i := 0; i+1 < len(kv); i += 2 {
			if !yield(kv[i].(string), kv[i+1].(V)) {
				return
			}
		}
	}
}

func TestCache_SetGet(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		ok, err := c.Set("my_key", "my-value", Seconds(60))
		if err != nil || !ok {
			t.Fatalf("Set = %v, %v; want true, nil", ok, err)
		}
		got, err := c.Get("my_key", "")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if got != "my-value" {
			t.Errorf("Get = %q, want %q", got, "my-value")
		}
		if got, _ := c.Get("unknown_key", "default_value"); got != "default_value" {
			t.Errorf("Get(unknown) = %q, want default_value", got)
		}

		clock.Advance(60 * time.Second)
		if got, _ := c.Get("my_key", "d"); got != "d" {
			t.Errorf("Get after expiry = %q, want %q", got, "d")
		}
	})
}

func TestCache_TTLForms(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.Set("seconds", "v", Seconds(2))
		c.Set("duration", "v", Duration(2*time.Minute))
		c.Set("default", "v", DefaultTTL)
		c.Set("zero", "v", Seconds(0))

		live := func(key string) bool {
			got, err := c.Get(key, "gone")
			if err != nil {
				t.Fatalf("Get(%q) error: %v", key, err)
			}
			return got == "v"
		}

		if live("zero") {
			t.Error("zero ttl entry should be expired immediately")
		}
		clock.Advance(time.Second)
		if !live("seconds") {
			t.Error("seconds entry expired early")
		}
		clock.Advance(time.Second)
		if live("seconds") {
			t.Error("seconds entry should be expired")
		}
		if !live("duration") {
			t.Error("duration entry expired early")
		}
		clock.Advance(59 * time.Minute)
		if !live("default") {
			t.Error("default entry expired before one hour")
		}
		clock.Advance(time.Minute)
		if live("default") {
			t.Error("default entry should be expired after one hour")
		}
	})
}

func TestCache_HasIgnoresExpiry(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.Set("k", "v", Seconds(1))
		clock.Advance(time.Hour)
		if got, _ := c.Get("k", "d"); got != "d" {
			t.Errorf("Get = %q, want d", got)
		}
		has, err := c.Has("k")
		if err != nil {
			t.Fatalf("Has error: %v", err)
		}
		if !has {
			t.Error("Has should report expired entries that were never deleted")
		}
	})
}

func TestCache_Overwrite(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.Set("k", "first", Seconds(1))
		c.Set("k", "second", Seconds(10))
		clock.Advance(5 * time.Second)
		if got, _ := c.Get("k", "d"); got != "second" {
			t.Errorf("Get = %q, want second", got)
		}
	})
}

func TestCache_Delete(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.Set("my_key", "my-value", DefaultTTL)

		ok, err := c.Delete("my_key")
		if err != nil || !ok {
			t.Fatalf("Delete = %v, %v; want true, nil", ok, err)
		}
		if has, _ := c.Has("my_key"); has {
			t.Error("Has after Delete = true")
		}
		if got, _ := c.Get("my_key", "default"); got != "default" {
			t.Errorf("Get after Delete = %q, want default", got)
		}
		if ok, err := c.Delete("my_key"); err != nil || !ok {
			t.Errorf("Delete(missing) = %v, %v; want true, nil", ok, err)
		}
	})
}

func TestCache_ClearIdempotent(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.SetMultiple(pairs[string]("a", "1", "b", "2"), DefaultTTL)
		for i := 0; i < 2; i++ {
			if !c.Clear() {
				t.Fatalf("Clear #%d = false", i+1)
			}
			for _, key := range []string{"a", "b"} {
				if has, _ := c.Has(key); has {
					t.Errorf("Clear #%d left %q behind", i+1, key)
				}
			}
		}
	})
}

func TestCache_SetMultipleGetMultiple(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[int], clock *fakeClock) {
		ok, err := c.SetMultiple(pairs[int]("a", 1, "b", 2), DefaultTTL)
		if err != nil || !ok {
			t.Fatalf("SetMultiple = %v, %v; want true, nil", ok, err)
		}

		got, err := c.GetMultiple([]string{"b", "a", "missing"}, -1)
		if err != nil {
			t.Fatalf("GetMultiple error: %v", err)
		}
		want := Values[int]{{Key: "b", Value: 2}, {Key: "a", Value: 1}, {Key: "missing", Value: -1}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetMultiple mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]int{"a": 1, "b": 2, "missing": -1}, got.Map()); diff != "" {
			t.Errorf("Map mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCache_SetMultipleSkipsUnstorable(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[any], clock *fakeClock) {
		values := pairs[any]("good", "v", "fn", func() {}, "after", "w")
		ok, err := c.SetMultiple(values, DefaultTTL)
		if err != nil || !ok {
			t.Fatalf("SetMultiple = %v, %v; want true, nil", ok, err)
		}
		for key, want := range map[string]bool{"good": true, "fn": false, "after": true} {
			if has, _ := c.Has(key); has != want {
				t.Errorf("Has(%q) = %v, want %v", key, has, want)
			}
		}
	})
}

func TestCache_SetMultipleInvalidKey(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		ok, err := c.SetMultiple(pairs[string]("good", "v", "bad key", "v", "after", "w"), DefaultTTL)
		if !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("SetMultiple error = %v, want ErrInvalidKey", err)
		}
		if ok {
			t.Error("SetMultiple with an invalid key reported true")
		}
		var kerr *KeyError
		if !errors.As(err, &kerr) || kerr.Key != "bad key" {
			t.Errorf("KeyError = %+v, want key %q", kerr, "bad key")
		}
		if has, _ := c.Has("good"); !has {
			t.Error("pairs before the invalid key should be stored")
		}
	})
}

func TestCache_SetMultipleNil(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[int], clock *fakeClock) {
		if _, err := c.SetMultiple(nil, DefaultTTL); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("SetMultiple(nil) error = %v, want ErrInvalidKey", err)
		}
	})
}

func TestCache_DeleteMultiple(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		c.SetMultiple(pairs[string]("key_1", "value1", "key_2", "value2"), DefaultTTL)
		ok, err := c.DeleteMultiple([]string{"key_1", "key_2"})
		if err != nil || !ok {
			t.Fatalf("DeleteMultiple = %v, %v; want true, nil", ok, err)
		}
		for _, key := range []string{"key_1", "key_2"} {
			if has, _ := c.Has(key); has {
				t.Errorf("Has(%q) after DeleteMultiple = true", key)
			}
		}
	})
}

func TestCache_Unserializable(t *testing.T) {
	backends(t, func(t *testing.T, c Cache[any], clock *fakeClock) {
		ok, err := c.Set("my_key", func() {}, DefaultTTL)
		if err != nil {
			t.Fatalf("Set error: %v", err)
		}
		if ok {
			t.Error("Set of a func should report false")
		}
		if ok, _ := c.Set("my_key", make(chan int), DefaultTTL); ok {
			t.Error("Set of a channel should report false")
		}
	})
}

func TestCache_ReturnsCopies(t *testing.T) {
	check := func(t *testing.T, c Cache[[]string]) {
		value := []string{"a", "b"}
		c.Set("k", value, DefaultTTL)
		value[0] = "mutated"

		got, _ := c.Get("k", nil)
		got[1] = "mutated"

		again, _ := c.Get("k", nil)
		if diff := cmp.Diff([]string{"a", "b"}, again); diff != "" {
			t.Errorf("stored value changed (-want +got):\n%s", diff)
		}
	}
	t.Run("memory", func(t *testing.T) {
		check(t, NewMemory[[]string](WithCopy(slices.Clone[[]string])))
	})
	t.Run("file", func(t *testing.T) {
		c, err := NewFile[[]string](t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		check(t, c)
	})
}

type withHidden struct {
	Public string
	hidden string
}

func TestMemory_KeepsValuesIntact(t *testing.T) {
	c := NewMemory[any]()
	tests := []struct {
		key   string
		value any
	}{
		{"int", 1},
		{"int64", int64(42)},
		{"int_map", map[int]string{1: "x"}},
		{"struct", withHidden{Public: "a", hidden: "b"}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ok, err := c.Set(tt.key, tt.value, DefaultTTL)
			if err != nil || !ok {
				t.Fatalf("Set = %v, %v; want true, nil", ok, err)
			}
			got, err := c.Get(tt.key, "default")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if diff := cmp.Diff(tt.value, got, cmp.AllowUnexported(withHidden{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemory_RefusesNestedFuncs(t *testing.T) {
	c := NewMemory[any]()
	for key, v := range map[string]any{
		"in_slice":  []any{1, func() {}},
		"in_map":    map[string]any{"f": make(chan int)},
		"in_struct": struct{ F func() }{F: func() {}},
	} {
		if ok, err := c.Set(key, v, DefaultTTL); ok || err != nil {
			t.Errorf("Set(%s) = %v, %v; want false, nil", key, ok, err)
		}
	}
	if ok, _ := c.Set("nil_func_field", struct{ F func() }{}, DefaultTTL); ok {
		t.Error("a struct with a func-typed field should be refused")
	}
}

func TestCache_InvalidKeys(t *testing.T) {
	keys := []string{
		"",
		strings.Repeat("0123456789", 7) + "012",
		strings.Repeat("a", 65),
		"with space",
		"slash/key",
		"dash-key",
		"clé",
	}
	backends(t, func(t *testing.T, c Cache[string], clock *fakeClock) {
		for _, key := range keys {
			if _, err := c.Get(key, ""); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := c.Set(key, "v", DefaultTTL); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := c.Delete(key); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := c.Has(key); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Has(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := c.GetMultiple([]string{"ok", key}, ""); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("GetMultiple(%q) error = %v, want ErrInvalidKey", key, err)
			}
			if _, err := c.DeleteMultiple([]string{key}); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("DeleteMultiple(%q) error = %v, want ErrInvalidKey", key, err)
			}
		}
	})
}

func TestValidKey(t *testing.T) {
	for _, key := range []string{"a", "my_key", "Key.With.Dots", "..", strings.Repeat("z", 64), HashKey("anything")} {
		if err := ValidKey(key); err != nil {
			t.Errorf("ValidKey(%q) = %v, want nil", key, err)
		}
	}
	err := ValidKey("bad key")
	var kerr *KeyError
	if !errors.As(err, &kerr) || kerr.Key != "bad key" {
		t.Errorf("ValidKey error = %#v, want *KeyError for %q", err, "bad key")
	}
}

// failingDelete refuses to delete one key.
type failingDelete struct {
	*Memory[string]
	refuse string
	calls  []string
}

func (f *failingDelete) Delete(key string) (bool, error) {
	f.calls = append(f.calls, key)
	if key == f.refuse {
		return false, nil
	}
	return f.Memory.Delete(key)
}

func TestDeleteMultiple_ShortCircuits(t *testing.T) {
	f := &failingDelete{Memory: NewMemory[string](), refuse: "b"}
	ok, err := deleteMultiple[string](f, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("deleteMultiple error: %v", err)
	}
	if ok {
		t.Error("deleteMultiple = true, want false")
	}
	if diff := cmp.Diff([]string{"a", "b"}, f.calls); diff != "" {
		t.Errorf("Delete calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := NewMemory[int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + string(rune('a'+i))
			for n := 0; n < 100; n++ {
				c.Set(key, n, DefaultTTL)
				c.Get(key, -1)
				c.Has("shared")
				c.Set("shared", n, DefaultTTL)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 9 {
		t.Errorf("Len = %d, want 9", c.Len())
	}
}

func TestTTL_Value(t *testing.T) {
	if got := DefaultTTL.Value(); got != time.Hour {
		t.Errorf("DefaultTTL = %v, want 1h", got)
	}
	if got := Seconds(60).Value(); got != time.Minute {
		t.Errorf("Seconds(60) = %v, want 1m", got)
	}
	if got := Duration(0).Value(); got != 0 {
		t.Errorf("Duration(0) = %v, want 0", got)
	}
}

func TestHashKey(t *testing.T) {
	h1 := HashKey("test")
	h2 := HashKey("test")
	h3 := HashKey("other")

	if h1 != h2 {
		t.Error("Same input should produce same hash")
	}
	if h1 == h3 {
		t.Error("Different input should produce different hash")
	}
	if len(h1) != 64 { // SHA-256 hex = 64 chars
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}
