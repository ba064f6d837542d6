// Package cache memoizes rendered artifacts so unchanged graphs are not sent
// to slow external renderers twice.
//
// The cache is disposable: deleting it never loses data, it only costs the
// next comparison run some render time. Three backends are provided:
//
//   - [FileCache]: sharded JSON entries under the user cache directory
//   - [RedisCache]: a shared Redis instance for teams comparing the same corpus
//   - [NullCache]: disables caching
//
// Keys are built with [ArtifactKey] from the graph's content hash, the
// backend name and any option string that changes the output.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
