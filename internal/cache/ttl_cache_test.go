package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newWithClock[K comparable, V any](ttl time.Duration, maxEntries int) (*TTLCache[K, V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[K, V](ttl, maxEntries)
	c.now = clock.Now
	return c, clock
}

func TestNew(t *testing.T) {
	ttl := 5 * time.Minute
	cache := New[string, int](ttl, 10)

	if cache == nil {
		t.Fatal("New returned nil")
	}
	if cache.ttl != ttl {
		t.Errorf("TTL mismatch: got %v, want %v", cache.ttl, ttl)
	}
	if cache.maxEntries != 10 {
		t.Errorf("maxEntries = %d, want 10", cache.maxEntries)
	}
	if cache.Len() != 0 {
		t.Error("new cache is not empty")
	}
}

func TestSetAndGet(t *testing.T) {
	cache := New[string, int](1*time.Minute, 0)

	cache.Set("key1", 42)

	value, ok := cache.Get("key1")
	if !ok {
		t.Fatal("Get returned ok=false for existing key")
	}
	if value != 42 {
		t.Errorf("Get returned wrong value: got %d, want 42", value)
	}

	_, ok = cache.Get("nonexistent")
	if ok {
		t.Error("Get returned ok=true for non-existent key")
	}
}

func TestGetExpired(t *testing.T) {
	cache, clock := newWithClock[string, int](time.Minute, 0)

	cache.Set("key1", 42)
	if v, ok := cache.Get("key1"); !ok || v != 42 {
		t.Fatal("Initial Get failed")
	}

	clock.Advance(time.Minute)

	if _, ok := cache.Get("key1"); ok {
		t.Error("Get returned ok=true for expired entry")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not removed on Get, Len = %d", cache.Len())
	}
}

func TestPerEntryExpiry(t *testing.T) {
	cache, clock := newWithClock[string, int](time.Minute, 0)

	cache.Set("old", 1)
	clock.Advance(40 * time.Second)
	cache.Set("new", 2)
	clock.Advance(30 * time.Second)

	if _, ok := cache.Get("old"); ok {
		t.Error("old entry should have expired")
	}
	if _, ok := cache.Get("new"); !ok {
		t.Error("new entry expired with the old one")
	}
}

func TestSetResetsTTL(t *testing.T) {
	cache, clock := newWithClock[string, int](time.Minute, 0)

	cache.Set("key", 1)
	clock.Advance(50 * time.Second)
	cache.Set("key", 2)
	clock.Advance(50 * time.Second)

	v, ok := cache.Get("key")
	if !ok || v != 2 {
		t.Errorf("Get = %d, %v; want 2, true", v, ok)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	cache, clock := newWithClock[string, int](0, 0)

	cache.Set("key", 1)
	clock.Advance(24 * time.Hour)

	if _, ok := cache.Get("key"); !ok {
		t.Error("entry expired with zero TTL")
	}
}

func TestMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	cache := New[string, int](time.Minute, 2)
	var evicted []string
	cache.OnEvict(func(key string, expired bool) {
		if expired {
			t.Errorf("eviction of %q reported as expiry", key)
		}
		evicted = append(evicted, key)
	})

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a") // a is now more recent than b
	cache.Set("c", 3)

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := cache.Get(k); !ok {
			t.Errorf("%s missing after eviction", k)
		}
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Errorf("evicted = %v, want [b]", evicted)
	}
}

func TestPurge(t *testing.T) {
	cache, clock := newWithClock[int, string](time.Minute, 0)
	expired := 0
	cache.OnEvict(func(int, bool) { expired++ })

	for i := 0; i < 5; i++ {
		cache.Set(i, "v")
	}
	clock.Advance(2 * time.Minute)
	cache.Set(99, "fresh")

	if n := cache.Purge(); n != 5 {
		t.Errorf("Purge() = %d, want 5", n)
	}
	if expired != 5 {
		t.Errorf("OnEvict ran %d times, want 5", expired)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestDelete(t *testing.T) {
	cache := New[string, int](time.Minute, 0)
	cache.Set("key", 1)
	cache.Delete("key")
	cache.Delete("missing")

	if _, ok := cache.Get("key"); ok {
		t.Error("deleted key still present")
	}
}

func TestInvalidate(t *testing.T) {
	cache := New[string, int](1*time.Minute, 0)

	cache.Set("key1", 1)
	cache.Set("key2", 2)

	if cache.Len() != 2 {
		t.Errorf("Len before Invalidate = %d, want 2", cache.Len())
	}

	cache.Invalidate()

	if cache.Len() != 0 {
		t.Errorf("Len after Invalidate = %d, want 0", cache.Len())
	}
	if _, ok := cache.Get("key1"); ok {
		t.Error("Get returned ok=true after Invalidate")
	}

	// Cache is usable again after Invalidate
	cache.Set("key3", 3)
	if v, ok := cache.Get("key3"); !ok || v != 3 {
		t.Error("Set after Invalidate failed")
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := New[string, int](1*time.Minute, 50)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%10)
				cache.Set(key, j)
				cache.Get(key)
				if j%25 == 0 {
					cache.Purge()
				}
			}
		}(i)
	}

	wg.Wait()

	if n := cache.Len(); n > 50 {
		t.Errorf("Len = %d exceeds bound 50", n)
	}
}

func TestMultipleTypes(t *testing.T) {
	t.Run("string to struct", func(t *testing.T) {
		type data struct {
			Name  string
			Value int
		}
		cache := New[string, data](time.Minute, 0)
		cache.Set("k", data{Name: "n", Value: 1})
		got, ok := cache.Get("k")
		if !ok || got.Name != "n" || got.Value != 1 {
			t.Errorf("Get = %+v, %v", got, ok)
		}
	})

	t.Run("array key", func(t *testing.T) {
		cache := New[[4]byte, string](time.Minute, 0)
		cache.Set([4]byte{1, 2, 3, 4}, "x")
		if _, ok := cache.Get([4]byte{1, 2, 3, 4}); !ok {
			t.Error("array key lookup failed")
		}
	})
}

func TestZeroValue(t *testing.T) {
	cache := New[string, *int](time.Minute, 0)
	cache.Set("nil", nil)

	v, ok := cache.Get("nil")
	if !ok {
		t.Error("Get returned ok=false for stored nil")
	}
	if v != nil {
		t.Errorf("Get = %v, want nil", v)
	}
}
