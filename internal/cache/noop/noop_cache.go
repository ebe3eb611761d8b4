package noop

import (
	"context"
	"time"

	"stockdesk/internal/port"
)

// Cache is used when redis is not configured. Every Get misses.
type Cache struct{}

// NewCache creates a no-op cache.
func NewCache() *Cache {
	return &Cache{}
}

func (Cache) Get(context.Context, string) ([]byte, error) {
	return nil, port.ErrCacheMiss
}

func (Cache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
