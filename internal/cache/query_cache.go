package cache

import (
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/FocuswithJustin/quill/core/syn/parser"
	"github.com/FocuswithJustin/quill/internal/logging"
)

// Key identifies query text by its BLAKE3-256 digest.
type Key [32]byte

// KeyOf returns the cache key for src.
func KeyOf(src string) Key {
	return Key(blake3.Sum256([]byte(src)))
}

// String returns the key as lowercase hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Stats is a snapshot of QueryCache activity.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// QueryCache parses queries and remembers successful results. Failed parses
// are never stored so their diagnostics always reflect the current source.
// Returned queries are shared between callers and must not be modified.
type QueryCache struct {
	entries *TTLCache[Key, sql.Query]
	parsers sync.Pool
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewQueryCache creates a QueryCache holding at most size queries for ttl.
func NewQueryCache(ttl time.Duration, size int) *QueryCache {
	qc := &QueryCache{
		entries: New[Key, sql.Query](ttl, size),
		parsers: sync.Pool{
			New: func() any { return parser.New(nil) },
		},
	}
	qc.entries.OnEvict(func(k Key, expired bool) {
		reason := "capacity"
		if expired {
			reason = "expired"
		}
		logging.CacheEvent("evict", qc.entries.order.Len(), "key", k.String()[:16], "reason", reason)
	})
	return qc
}

// Parse returns the parsed form of src and whether it came from the cache.
func (qc *QueryCache) Parse(src string) (sql.Query, bool, error) {
	key := KeyOf(src)
	if q, ok := qc.entries.Get(key); ok {
		qc.hits.Add(1)
		return q, true, nil
	}
	qc.misses.Add(1)

	q, err := qc.parse(src)
	if err != nil {
		return nil, false, err
	}
	qc.entries.Set(key, q)
	return q, false, nil
}

// parse runs src through a pooled parser.
func (qc *QueryCache) parse(src string) (sql.Query, error) {
	p := qc.parsers.Get().(*parser.Parser)
	defer func() {
		p.Reset(nil)
		qc.parsers.Put(p)
	}()
	p.Reset([]byte(src))
	return p.ParseQuery()
}

// Purge drops expired queries and returns how many were removed.
func (qc *QueryCache) Purge() int {
	return qc.entries.Purge()
}

// Stats reports the current entry count and hit/miss totals.
func (qc *QueryCache) Stats() Stats {
	return Stats{
		Entries: qc.entries.Len(),
		Hits:    qc.hits.Load(),
		Misses:  qc.misses.Load(),
	}
}
