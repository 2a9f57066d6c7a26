package ports

import (
	"context"
	"time"
)

// Cache is best-effort key-value storage. Callers must tolerate misses.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	CacheKeyLastAutocomplete = "hauling:autocomplete:last_run"
	CacheKeyUnreadIncidents  = "incidents:unread_count"
)
