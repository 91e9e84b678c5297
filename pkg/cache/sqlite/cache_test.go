package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/cache"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "usage_cache_test.db")
	c, err := New(dbPath, ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testKey(names ...string) cache.Key {
	return cache.Key{
		Names:        names,
		Endpoint:     "https://chatgpt.com/backend-api/wham/usage",
		Fingerprints: names, // stand-in fingerprints
	}
}

func okBatch(names ...string) map[string]models.UsageRecord {
	out := make(map[string]models.UsageRecord, len(names))
	for _, n := range names {
		out[n] = models.UsageRecord{OK: true, RollingRemaining: 50, WeeklyRemaining: 80}
	}
	return out
}

func TestPutAndGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	key := testKey("a", "b")

	if err := c.Put(key, okBatch("a", "b")); err != nil {
		t.Fatal(err)
	}

	results, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(results) != 2 || !results["a"].OK {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestKeyMismatchIsMiss(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.Put(testKey("a", "b"), okBatch("a", "b")); err != nil {
		t.Fatal(err)
	}

	// Different account set: miss, even though it's a subset.
	if _, ok := c.Get(testKey("a")); ok {
		t.Error("expected miss for different account set")
	}

	// Different order: miss; the key is ordered.
	if _, ok := c.Get(testKey("b", "a")); ok {
		t.Error("expected miss for reordered account set")
	}

	// Different endpoint: miss.
	key := testKey("a", "b")
	key.Endpoint = "https://other.example.com/api/codex/usage"
	if _, ok := c.Get(key); ok {
		t.Error("expected miss for different endpoint")
	}

	// Different fingerprints (credential changed on disk): miss.
	key = testKey("a", "b")
	key.Fingerprints = []string{"a:changed", "b"}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss for changed fingerprints")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t, time.Millisecond)
	key := testKey("a")

	if err := c.Put(key, okBatch("a")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("expected miss after TTL expiration")
	}
}

func TestDisabledTTL(t *testing.T) {
	c := newTestCache(t, 0)
	key := testKey("a")

	if err := c.Put(key, okBatch("a")); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("ttl<=0 must disable caching")
	}
}

func TestPutReplacesPreviousBatch(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.Put(testKey("a"), okBatch("a")); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(testKey("b"), okBatch("b")); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(testKey("a")); ok {
		t.Error("old batch should have been replaced")
	}
	if _, ok := c.Get(testKey("b")); !ok {
		t.Error("new batch should be served")
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected single stored batch, got %d", stats.Entries)
	}
}

func TestStatsAndClear(t *testing.T) {
	c := newTestCache(t, time.Hour)
	key := testKey("a")

	_ = c.Put(key, okBatch("a"))
	c.Get(key)           // hit
	c.Get(testKey("zz")) // miss

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	stats, _ = c.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}

func TestJournalModeWAL(t *testing.T) {
	c := newTestCache(t, time.Hour)

	var mode string
	if err := c.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int64
	if err := c.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestStatsPersistAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "usage_cache_test.db")
	key := testKey("a")

	c, err := New(dbPath, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Put(key, okBatch("a"))
	c.Get(key)           // hit
	c.Get(testKey("zz")) // miss
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	// A later invocation of the tool opens a fresh Cache over the same file.
	reopened, err := New(dbPath, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	stats, err := reopened.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected counters to survive reopen, got %+v", stats)
	}

	reopened.Get(key) // hit
	stats, _ = reopened.Stats()
	if stats.Hits != 2 {
		t.Errorf("expected accumulated hits = 2, got %+v", stats)
	}
}
