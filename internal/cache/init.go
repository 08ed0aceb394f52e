package cache

import (
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
)

// Initialize initializes the cache system. Returns a no-op friendly nil
// cache when caching is disabled in the configuration.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	if !cfg.Cache.Enabled {
		log.Info("cache disabled by configuration")
		return nil
	}

	InitializeInMemoryCache()
	log.Info("in-memory cache initialized")
	return GetInMemoryCache()
}

// UnmarshalCacheValue attempts to convert a cache value to the specified
// type. Returns the typed value and true if successful, nil and false
// otherwise.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}

	if typed, ok := value.(*T); ok {
		return typed, true
	}

	return nil, false
}
