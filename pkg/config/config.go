// Package config loads ntgraph settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/ntgraph/config.toml (falling back to
// ~/.config/ntgraph/config.toml). A missing file is not an error; every
// setting has a default. Example:
//
//	[layout]
//	width_scale = 0.25
//	node_sep = 0            # 0 keeps the solver default
//	solver_timeout_seconds = 30
//
//	[cache]
//	backend = "redis"       # file | none | redis | mongo
//	ttl_hours = 168
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ntgraph/pkg/cache"
	"github.com/matzehuels/ntgraph/pkg/layout"
	"github.com/matzehuels/ntgraph/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "ntgraph"

// Defaults.
const (
	DefaultSolverTimeoutSeconds = 30
	DefaultTTLHours             = int(cache.TTLLayout / time.Hour)
	DefaultServerAddr           = ":8080"
	DefaultRedisAddr            = "localhost:6379"
	DefaultMongoURI             = "mongodb://localhost:27017"
)

// Config is the parsed configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Layout holds the default layout options.
type Layout struct {
	WidthScale           float64 `toml:"width_scale"`
	NodeSep              float64 `toml:"node_sep"`
	SolverTimeoutSeconds int     `toml:"solver_timeout_seconds"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	TTLHours        int    `toml:"ttl_hours"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Server configures the layout service.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout: Layout{
			WidthScale:           layout.DefaultWidthScale,
			SolverTimeoutSeconds: DefaultSolverTimeoutSeconds,
		},
		Cache: Cache{
			Backend:         cache.BackendFile,
			TTLHours:        DefaultTTLHours,
			RedisAddr:       DefaultRedisAddr,
			MongoURI:        DefaultMongoURI,
			MongoDatabase:   cache.DefaultMongoDatabase,
			MongoCollection: cache.DefaultMongoCollection,
		},
		Server: Server{Addr: DefaultServerAddr},
	}
}

// Load reads the file at path on top of the defaults. An empty path means
// DefaultPath; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Layout.WidthScale < 0 {
		return fmt.Errorf("layout.width_scale must not be negative")
	}
	if c.Layout.NodeSep < 0 {
		return fmt.Errorf("layout.node_sep must not be negative")
	}
	if c.Layout.SolverTimeoutSeconds < 0 {
		return fmt.Errorf("layout.solver_timeout_seconds must not be negative")
	}
	if c.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must not be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone, cache.BackendRedis, cache.BackendMongo:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	return nil
}

// PipelineOptions returns the layout defaults as pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		WidthScale:    c.Layout.WidthScale,
		NodeSep:       c.Layout.NodeSep,
		SolverTimeout: time.Duration(c.Layout.SolverTimeoutSeconds) * time.Second,
	}
}

// CacheConfig returns the cache settings for cache.Open. An empty
// directory resolves to CacheDir.
func (c Config) CacheConfig() (cache.Config, error) {
	dir := c.Cache.Dir
	if dir == "" && (c.Cache.Backend == "" || c.Cache.Backend == cache.BackendFile) {
		d, err := CacheDir()
		if err != nil {
			return cache.Config{}, err
		}
		dir = d
	}
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     dir,
		TTL:     time.Duration(c.Cache.TTLHours) * time.Hour,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}, nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/ntgraph/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using the XDG standard (~/.cache/ntgraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
