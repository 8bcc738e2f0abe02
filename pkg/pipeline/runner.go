package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ntgraph/pkg/cache"
	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
	"github.com/matzehuels/ntgraph/pkg/observability"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner encapsulates layout passes with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, solver and logger - it
// doesn't store pass results. Every pass works on its own copy of the input
// graph, so multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Solver solver.Solver
	Logger *log.Logger

	// TTL is the lifetime of cached results. Zero means cache.TTLLayout.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache, keyer and solver.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If s is nil, Graphviz is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, s solver.Solver, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if s == nil {
		s = &solver.Graphviz{Logger: logger}
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Solver: s,
		Logger: logger,
	}
}

// cachedResult is the cache representation of a Result.
type cachedResult struct {
	Graph      json.RawMessage   `json:"graph"`
	Mode       layout.Mode       `json:"mode"`
	FellBack   bool              `json:"fell_back,omitempty"`
	Mismatches []layout.Mismatch `json:"mismatches,omitempty"`
	Missing    []string          `json:"missing,omitempty"`
}

// Execute validates g and runs a layout pass with caching.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	input, err := graph.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize input graph")
	}
	graphHash := cache.Hash(input)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if res, ok := r.fromCache(ctx, cacheKey); ok {
			res.GraphHash = graphHash
			res.Stats.NodeCount = g.NodeCount()
			res.Stats.EdgeCount = g.EdgeCount()
			opts.Logger.Info("layout from cache", "mode", res.Mode, "nodes", g.NodeCount())
			return res, nil
		}
	}

	res, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.GraphHash = graphHash
	r.toCache(ctx, cacheKey, res)
	return res, nil
}

func (r *Runner) fromCache(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var entry cachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		// If deserialization fails, fall through to recompute
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	g, err := graph.Unmarshal(entry.Graph)
	if err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	hooks.OnCacheHit(ctx, cacheKeyType)
	return &Result{
		Graph:      g,
		Mode:       entry.Mode,
		FellBack:   entry.FellBack,
		Mismatches: entry.Mismatches,
		Missing:    entry.Missing,
		CacheHit:   true,
	}, true
}

func (r *Runner) toCache(ctx context.Context, key string, res *Result) {
	out, err := graph.Marshal(res.Graph)
	if err != nil {
		return
	}
	data, err := json.Marshal(cachedResult{
		Graph:      out,
		Mode:       res.Mode,
		FellBack:   res.FellBack,
		Mismatches: res.Mismatches,
		Missing:    res.Missing,
	})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLLayout
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
