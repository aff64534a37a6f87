package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
)

func TestKeyOf(t *testing.T) {
	a := KeyOf("SELECT * FROM person")
	b := KeyOf("SELECT * FROM person")
	c := KeyOf("SELECT * FROM person ")

	if a != b {
		t.Error("equal sources hash differently")
	}
	if a == c {
		t.Error("different sources share a key")
	}
	if len(a.String()) != 64 {
		t.Errorf("String() length = %d, want 64", len(a.String()))
	}
}

func TestQueryCacheHit(t *testing.T) {
	qc := NewQueryCache(time.Minute, 16)
	src := "SELECT name FROM person WHERE age > 18"

	first, cached, err := qc.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cached {
		t.Error("first parse reported as cached")
	}

	second, cached, err := qc.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cached {
		t.Error("second parse missed the cache")
	}
	if first.String() != second.String() {
		t.Errorf("cached query %q differs from %q", second, first)
	}

	stats := qc.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Stats = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}
}

func TestQueryCacheDoesNotStoreFailures(t *testing.T) {
	qc := NewQueryCache(time.Minute, 16)

	for i := 0; i < 2; i++ {
		_, cached, err := qc.Parse("SELECT * FROM")
		if err == nil {
			t.Fatal("expected a parse error")
		}
		if cached {
			t.Error("failed parse reported as cached")
		}
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("error %v is not ErrInvalidInput", err)
		}
	}
	if n := qc.Stats().Entries; n != 0 {
		t.Errorf("Entries = %d after failures, want 0", n)
	}
}

func TestQueryCacheExpiry(t *testing.T) {
	qc := NewQueryCache(time.Minute, 16)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	qc.entries.now = clock.Now

	if _, _, err := qc.Parse("RETURN 1"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Minute)

	if _, cached, _ := qc.Parse("RETURN 1"); cached {
		t.Error("expired query served from cache")
	}
	if n := qc.Purge(); n != 0 {
		t.Errorf("Purge() = %d, want 0 after re-parse", n)
	}
}

func TestQueryCacheBound(t *testing.T) {
	qc := NewQueryCache(time.Minute, 2)
	for _, src := range []string{"RETURN 1", "RETURN 2", "RETURN 3"} {
		if _, _, err := qc.Parse(src); err != nil {
			t.Fatal(err)
		}
	}
	if n := qc.Stats().Entries; n != 2 {
		t.Errorf("Entries = %d, want 2", n)
	}
	if _, cached, _ := qc.Parse("RETURN 1"); cached {
		t.Error("oldest query survived eviction")
	}
}

func TestQueryCacheConcurrentParse(t *testing.T) {
	qc := NewQueryCache(time.Minute, 0)
	sources := []string{
		"SELECT * FROM person",
		"CREATE person:tobie SET name = 'Tobie'",
		"RETURN [1, 2, 3]",
		"SELECT * FROM",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				src := sources[j%len(sources)]
				_, _, err := qc.Parse(src)
				if (err != nil) != (src == "SELECT * FROM") {
					t.Errorf("Parse(%q) error = %v", src, err)
				}
			}
		}()
	}
	wg.Wait()

	if n := qc.Stats().Entries; n != 3 {
		t.Errorf("Entries = %d, want 3", n)
	}
}
