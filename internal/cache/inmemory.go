package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache is a go-cache backed Cache implementation
type InMemoryCache struct {
	cache *gocache.Cache
}

var (
	inMemoryCache     *InMemoryCache
	inMemoryCacheOnce sync.Once
)

// NewInMemoryCache creates a new in-memory cache instance
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: gocache.New(ExpiryDefaultInMemory, 2*ExpiryDefaultInMemory),
	}
}

// InitializeInMemoryCache initializes the singleton in-memory cache
func InitializeInMemoryCache() {
	inMemoryCacheOnce.Do(func() {
		inMemoryCache = NewInMemoryCache()
	})
}

// GetInMemoryCache returns the singleton in-memory cache
func GetInMemoryCache() *InMemoryCache {
	if inMemoryCache == nil {
		InitializeInMemoryCache()
	}
	return inMemoryCache
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration <= 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix. go-cache has no
// native prefix scan so this walks the item map.
func (c *InMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(ctx context.Context) {
	c.cache.Flush()
}
