package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string
	Dir     string
	TTL     time.Duration
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open returns the backend named by cfg.Backend. An empty name means
// BackendFile.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		return nonNil(NewFileCache(cfg.Dir))
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		return nonNil(NewRedisCache(ctx, cfg.Redis))
	case BackendMongo:
		return nonNil(NewMongoCache(ctx, cfg.Mongo))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// nonNil keeps a failed constructor from returning a typed nil Cache.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
