// Package resolver fans usage fetches out across all saved accounts and
// merges the results through the batch cache.
package resolver

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/cache"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/logger"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/store"
)

// DefaultConcurrency bounds parallel usage fetches.
const DefaultConcurrency = 6

// Fetcher performs a single usage call for one credential file.
type Fetcher interface {
	// URL returns the resolved usage endpoint, used in the cache key.
	URL() string
	// FetchFile retrieves usage for one credential; never returns an error,
	// failures degrade to unavailable records.
	FetchFile(ctx context.Context, path string) models.UsageRecord
}

// Resolver resolves usage for a set of saved accounts.
type Resolver struct {
	store       *store.Store
	fetcher     Fetcher
	cache       cache.Cache
	concurrency int
}

// New creates a Resolver. cache may be nil to disable caching entirely;
// concurrency <= 0 selects the default.
func New(s *store.Store, f Fetcher, c cache.Cache, concurrency int) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{store: s, fetcher: f, cache: c, concurrency: concurrency}
}

// Resolve returns a usage record for every requested account, from the cache
// when a fresh batch with an identical key exists, otherwise by a bounded
// parallel fetch. The returned map always covers every name; individual
// failures are isolated into unavailable records.
func (r *Resolver) Resolve(ctx context.Context, names []string) map[string]models.UsageRecord {
	if len(names) == 0 {
		return map[string]models.UsageRecord{}
	}

	key := r.batchKey(names)
	if r.cache != nil {
		if results, ok := r.cache.Get(key); ok {
			return results
		}
	}

	results := r.fetchAll(ctx, names)

	if r.cache != nil {
		// A failed write only forfeits future cache hits.
		if err := r.cache.Put(key, results); err != nil {
			logger.Warn("usage cache write failed", "error", err)
		}
	}
	return results
}

// batchKey builds the cache key: ordered names, endpoint, and a fingerprint
// of each credential file so an out-of-band credential change invalidates
// the batch.
func (r *Resolver) batchKey(names []string) cache.Key {
	fingerprints := make([]string, len(names))
	for i, name := range names {
		path := r.store.Path(name)
		if info, err := os.Stat(path); err == nil {
			fingerprints[i] = fmt.Sprintf("%s:%d:%d", path, info.ModTime().UnixNano(), info.Size())
		} else {
			fingerprints[i] = path + ":missing"
		}
	}
	return cache.Key{
		Names:        append([]string(nil), names...),
		Endpoint:     r.fetcher.URL(),
		Fingerprints: fingerprints,
	}
}

func (r *Resolver) fetchAll(ctx context.Context, names []string) map[string]models.UsageRecord {
	workers := r.concurrency
	if workers > len(names) {
		workers = len(names)
	}

	// Each worker writes only its own slot, so the merged map is built
	// without a lock and output order never depends on completion order.
	records := make([]models.UsageRecord, len(names))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = r.fetcher.FetchFile(ctx, r.store.Path(name))
		}(i, name)
	}
	wg.Wait()

	results := make(map[string]models.UsageRecord, len(names))
	for i, name := range names {
		results[name] = records[i]
	}
	return results
}

// Candidates flattens ok records into heuristic input, preserving the
// caller-supplied account order. Accounts whose usage is unavailable are
// dropped here; the heuristic never sees them.
func Candidates(names []string, results map[string]models.UsageRecord) []models.Candidate {
	var out []models.Candidate
	for _, name := range names {
		rec, ok := results[name]
		if !ok || !rec.OK {
			continue
		}
		out = append(out, models.Candidate{
			Name:             name,
			WeeklyRemaining:  rec.WeeklyRemaining,
			RollingRemaining: rec.RollingRemaining,
			WeeklyResetAt:    rec.Weekly.ResetAt,
			RollingResetAt:   rec.Rolling.ResetAt,
		})
	}
	return out
}
