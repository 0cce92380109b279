package cache

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("cache")

type memoryCache struct {
	mut        sync.RWMutex
	entries    map[string]*common.CacheEntry
	ttl        time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewMemoryCache creates an in-process cache store with TTL-bounded entries and
// starts the background janitor pruning expired ones
func NewMemoryCache(ttl time.Duration) *memoryCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &memoryCache{
		entries:    make(map[string]*common.CacheEntry),
		ttl:        ttl,
		cancelFunc: cancel,
	}

	c.startJanitor(ctx)

	return c
}

// Get returns the stored entry for the key, expired entries count as misses
func (c *memoryCache) Get(_ context.Context, key string) (*common.CacheEntry, bool, error) {
	c.mut.RLock()
	defer c.mut.RUnlock()

	entry, found := c.entries[key]
	if !found || c.isExpired(entry) {
		return nil, false, nil
	}

	return entry, true, nil
}

// Put stores the entry, overwriting any previous one for the same key
func (c *memoryCache) Put(_ context.Context, key string, entry *common.CacheEntry) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.entries[key] = entry

	return nil
}

func (c *memoryCache) isExpired(entry *common.CacheEntry) bool {
	return time.Now().Unix()-entry.StoredAt >= int64(c.ttl.Seconds())
}

func (c *memoryCache) startJanitor(ctx context.Context) {
	c.wg.Add(1)

	interval := c.ttl / 10
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer c.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.pruneExpired()
			}
		}
	}()
}

func (c *memoryCache) pruneExpired() {
	c.mut.Lock()
	defer c.mut.Unlock()

	for key, entry := range c.entries {
		if c.isExpired(entry) {
			delete(c.entries, key)
		}
	}
}

// Close stops the janitor goroutine
func (c *memoryCache) Close() error {
	c.cancelFunc()
	c.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *memoryCache) IsInterfaceNil() bool {
	return c == nil
}
