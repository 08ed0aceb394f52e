package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used in front of hot lookups, currently
// only the active rate rule per offer type
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}
