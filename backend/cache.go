package backend

import (
	"context"
	"strings"
	"sync"
	"time"

	"estateadmin/logger"
	"estateadmin/models"

	"golang.org/x/sync/singleflight"
)

// CollectionKey is the cache key of one collection as seen by one session. Rows
// are never shared between sessions, since the backend authorizes per token.
func CollectionKey(entity, sessionID string) string {
	return CollectionPrefix(entity) + sessionID
}

// CollectionPrefix matches every session's copy of a collection.
func CollectionPrefix(entity string) string {
	return "/" + strings.Trim(entity, "/") + "?session="
}

// FetchFunc loads the rows for one cache key.
type FetchFunc func(ctx context.Context) ([]models.Row, error)

type cacheEntry struct {
	rows        []models.Row
	fetchedAt   time.Time
	invalidated bool
	lastErr     error
}

// Cache is a stale-while-revalidate store of collection snapshots keyed by URL.
// Concurrent misses for one key share a single fetch. Entries older than the TTL
// are served immediately while a background fetch refreshes them. A failed fetch
// never discards rows that were already cached.
type Cache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*cacheEntry
	group singleflight.Group
	now   func() time.Time

	// gens counts mutations per key. A fetch commits only if the count it saw
	// when it started is unchanged, so a write landing mid-fetch is never
	// overwritten by pre-write rows.
	gens map[string]uint64

	// revalidateTimeout bounds background refreshes, which outlive the request
	// that triggered them.
	revalidateTimeout time.Duration
}

// NewCache returns a Cache whose entries are fresh for ttl. A non-positive ttl
// makes every read past the first a background revalidation.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:               ttl,
		items:             make(map[string]*cacheEntry),
		gens:              make(map[string]uint64),
		now:               time.Now,
		revalidateTimeout: 30 * time.Second,
	}
}

// Get returns the rows for key, fetching them when absent or invalidated. When the
// fetch fails and older rows exist, those rows are returned together with the error.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) ([]models.Row, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	var rows []models.Row
	var fresh, stale bool
	if ok {
		rows = e.rows
		age := c.now().Sub(e.fetchedAt)
		fresh = !e.invalidated && e.lastErr == nil && age < c.ttl
		stale = !e.invalidated && e.lastErr == nil && !fresh
	}
	c.mu.RUnlock()

	if fresh {
		return rows, nil
	}
	if stale {
		c.revalidate(key, fetch)
		return rows, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.load(ctx, key, fetch)
	})
	if err != nil {
		c.mu.RLock()
		var prev []models.Row
		if e, ok := c.items[key]; ok {
			prev = e.rows
		}
		c.mu.RUnlock()
		return prev, err
	}
	return v.([]models.Row), nil
}

func (c *Cache) load(ctx context.Context, key string, fetch FetchFunc) ([]models.Row, error) {
	c.mu.Lock()
	gen, tracked := c.gens[key]
	if !tracked {
		c.gens[key] = 0
	}
	c.mu.Unlock()

	rows, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.gens[key]; !ok || cur != gen {
		logger.Debug("Cache: %s changed during fetch, result not stored.", key)
		return rows, err
	}
	e, ok := c.items[key]
	if !ok {
		e = &cacheEntry{}
		c.items[key] = e
	}
	if err != nil {
		e.lastErr = err
		logger.Warn("Cache: fetch for %s failed, keeping %d cached rows: %v", key, len(e.rows), err)
		return nil, err
	}
	e.rows = rows
	e.fetchedAt = c.now()
	e.invalidated = false
	e.lastErr = nil
	return rows, nil
}

func (c *Cache) revalidate(key string, fetch FetchFunc) {
	c.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.revalidateTimeout)
		defer cancel()
		logger.Debug("Cache: revalidating %s in background.", key)
		return c.load(ctx, key, fetch)
	})
}

// Peek returns the cached rows and last fetch error for key without fetching.
func (c *Cache) Peek(key string) (rows []models.Row, ok bool, lastErr error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.items[key]
	if !found {
		return nil, false, nil
	}
	return e.rows, true, e.lastErr
}

// Mutate marks key as invalid so the next Get refetches. Cached rows stay
// available as the fallback for a failing refetch. A fetch already in flight is
// detached: its callers still get its result but it is not stored, and the next
// Get starts a fresh fetch.
func (c *Cache) Mutate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutateLocked(key)
}

// MutatePrefix invalidates every key starting with prefix.
func (c *Cache) MutatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if strings.HasPrefix(k, prefix) {
			c.mutateLocked(k)
		}
	}
}

func (c *Cache) mutateLocked(key string) {
	if e, ok := c.items[key]; ok {
		e.invalidated = true
	}
	if _, ok := c.gens[key]; ok {
		c.gens[key]++
		c.group.Forget(key)
	}
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// DropSession removes every collection cached for sessionID.
func (c *Cache) DropSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if strings.HasSuffix(k, "?session="+sessionID) {
			delete(c.items, k)
			delete(c.gens, k)
			c.group.Forget(k)
		}
	}
}
