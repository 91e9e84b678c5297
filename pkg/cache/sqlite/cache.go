// Package sqlite persists the batch usage cache in a SQLite database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/cache"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// Cache is a single-batch usage cache backed by SQLite. Writes replace the
// previous batch inside a transaction, so concurrent invocations of the tool
// race benignly: last write wins, the file never corrupts.
//
// Hit and miss counters live in the database too. Each invocation of the
// tool is a fresh process, so in-memory counters would always read zero.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

const createTables = `
CREATE TABLE IF NOT EXISTS usage_batches (
	key_hash TEXT PRIMARY KEY,
	results BLOB NOT NULL,
	fetched_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_stats (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	hits INTEGER NOT NULL,
	misses INTEGER NOT NULL
);
INSERT OR IGNORE INTO cache_stats (id, hits, misses) VALUES (1, 0, 0);
`

// New opens a Cache at the given database path with the given TTL.
// ttl <= 0 disables caching: lookups always miss and writes are dropped.
func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get retrieves the cached batch for the key. Returns false when caching is
// disabled, the key differs, or the entry has expired.
func (c *Cache) Get(key cache.Key) (map[string]models.UsageRecord, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	var blob []byte
	var fetchedAt time.Time
	err := c.db.QueryRow(
		`SELECT results, fetched_at FROM usage_batches WHERE key_hash = ?`,
		key.Hash(),
	).Scan(&blob, &fetchedAt)

	if err != nil {
		c.recordMiss()
		return nil, false
	}
	if time.Since(fetchedAt) > c.ttl {
		c.recordMiss()
		return nil, false
	}

	var results map[string]models.UsageRecord
	if err := json.Unmarshal(blob, &results); err != nil {
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return results, true
}

// Counter updates are best effort; a failed bump never fails a lookup.

func (c *Cache) recordHit() {
	_, _ = c.db.Exec(`UPDATE cache_stats SET hits = hits + 1 WHERE id = 1`)
}

func (c *Cache) recordMiss() {
	_, _ = c.db.Exec(`UPDATE cache_stats SET misses = misses + 1 WHERE id = 1`)
}

// Put replaces the stored batch with fresh results for the key.
func (c *Cache) Put(key cache.Key, results map[string]models.UsageRecord) error {
	if c.ttl <= 0 {
		return nil
	}

	blob, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM usage_batches`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("cache put: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO usage_batches (key_hash, results, fetched_at) VALUES (?, ?, ?)`,
		key.Hash(), blob, time.Now().UTC(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("cache put: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats returns cache performance metrics, accumulated across invocations.
func (c *Cache) Stats() (models.CacheStats, error) {
	var stats models.CacheStats
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM usage_batches`).Scan(&stats.Entries); err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	if err := c.db.QueryRow(`SELECT hits, misses FROM cache_stats WHERE id = 1`).Scan(&stats.Hits, &stats.Misses); err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes the stored batch.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM usage_batches`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
