package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 10 * time.Minute

// entry is one encoded value with its expiry
type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Values are stored JSON-encoded so callers get their own copy back on Get.
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryCache creates a cache and starts its cleanup goroutine.
// Call Close to stop it.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	c := &MemoryCache{
		data: make(map[string]entry),
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.janitor(cleanupInterval)
	return c
}

// Get decodes the value stored under key into dst.
func (c *MemoryCache) Get(ctx context.Context, key string, dst interface{}) error {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || c.now().After(item.expiresAt) {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(item.payload, dst)
}

// Set stores value under key for ttl.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = entry{payload: payload, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, key)
		}
	}
}

// Close stops the cleanup goroutine and waits for it to exit. It is safe to call twice.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}
