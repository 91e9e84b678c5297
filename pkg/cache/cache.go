// Package cache stores one batch usage result with a short TTL.
//
// The cache is all-or-nothing per batch: an entry only serves a request whose
// key (the ordered account set, the resolved endpoint, and the credential
// fingerprints) matches exactly. Anything else is a miss, so a newly added
// account or an externally modified credential never sees stale data.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// Key identifies one batch usage request.
type Key struct {
	Names        []string `json:"names"`
	Endpoint     string   `json:"endpoint"`
	Fingerprints []string `json:"fingerprints"`
}

// Hash computes a SHA-256 hash over the key's canonical JSON encoding.
func (k Key) Hash() string {
	h := sha256.New()
	data, _ := json.Marshal(k)
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Cache is a TTL-bounded store for one batch of usage results.
// Implementations with ttl <= 0 behave as disabled: every Get misses and Put
// is a no-op.
type Cache interface {
	// Get returns the cached batch for the key, or false on expiry or any
	// key mismatch.
	Get(key Key) (map[string]models.UsageRecord, bool)
	// Put replaces the stored batch with fresh results for the key.
	Put(key Key, results map[string]models.UsageRecord) error
	// Stats returns cache performance metrics.
	Stats() (models.CacheStats, error)
	// Clear removes the stored batch.
	Clear() error
	// Close releases resources.
	Close() error
}

// Memory is an in-process Cache used by tests and as a fallback when no
// cache database is configured.
type Memory struct {
	mu        sync.Mutex
	ttl       time.Duration
	keyHash   string
	fetchedAt time.Time
	results   map[string]models.UsageRecord
	hits      atomic.Int64
	misses    atomic.Int64
	now       func() time.Time
}

// NewMemory creates a Memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

// SetNow replaces the time source. Used in tests only.
func (m *Memory) SetNow(fn func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = fn
}

// Get returns the stored batch if the key matches and the entry is fresh.
func (m *Memory) Get(key Key) (map[string]models.UsageRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl <= 0 || m.results == nil || m.keyHash != key.Hash() ||
		m.now().Sub(m.fetchedAt) > m.ttl {
		m.misses.Add(1)
		return nil, false
	}

	out := make(map[string]models.UsageRecord, len(m.results))
	for k, v := range m.results {
		out[k] = v
	}
	m.hits.Add(1)
	return out, true
}

// Put replaces the stored batch.
func (m *Memory) Put(key Key, results map[string]models.UsageRecord) error {
	if m.ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make(map[string]models.UsageRecord, len(results))
	for k, v := range results {
		stored[k] = v
	}
	m.keyHash = key.Hash()
	m.fetchedAt = m.now()
	m.results = stored
	return nil
}

// Stats returns cache performance metrics.
func (m *Memory) Stats() (models.CacheStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries int64
	if m.results != nil {
		entries = 1
	}
	return models.CacheStats{
		Entries: entries,
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}, nil
}

// Clear removes the stored batch.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyHash = ""
	m.results = nil
	return nil
}

// Close is a no-op for the in-memory cache.
func (m *Memory) Close() error { return nil }
