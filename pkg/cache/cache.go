// Package cache stores computed layouts keyed by the input graph and the
// layout options.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; the CLI default.
//   - [NullCache]: stores nothing; used with --no-cache.
//   - [RedisCache]: shared cache for several service instances.
//   - [MongoCache]: persistent cache with a TTL index on the expiry field.
//
// [Open] picks a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 hash of the input graph and the
// options that influence the result:
//
//	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash(input), cache.LayoutKeyOpts{Force: true})
//
// [NewScopedKeyer] prefixes every key, e.g. per tenant or per deployment.
package cache

import (
	"context"
	"time"
)

// TTLLayout is the default lifetime of a cached layout.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with hit == false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
