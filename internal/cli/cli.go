package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ntgraph/pkg/buildinfo"
	"github.com/matzehuels/ntgraph/pkg/cache"
	"github.com/matzehuels/ntgraph/pkg/config"
	"github.com/matzehuels/ntgraph/pkg/pipeline"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string

	// solver replaces Graphviz when set.
	solver solver.Solver
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ntgraph lays out nested temporal graphs",
		Long: `ntgraph computes positions for nested temporal graphs: entities that
exist over discrete time steps, nest inside one another and are tracked from
one time step to the next. Layouts are solved with Graphviz and written back
into the graph JSON for renderers to draw.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/ntgraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the file named by --config, or the default location.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache and the
// Graphviz solver.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	lc, ttl, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	s := c.solver
	if s == nil {
		s = &solver.Graphviz{Logger: c.Logger}
	}
	runner := pipeline.NewRunner(lc, nil, s, c.Logger)
	runner.TTL = ttl
	return runner, nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, time.Duration, error) {
	if noCache {
		return cache.NewNullCache(), 0, nil
	}
	cc, err := cfg.CacheConfig()
	if err != nil {
		// no home directory: run uncached
		return cache.NewNullCache(), 0, nil
	}
	lc, err := cache.Open(ctx, cc)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s cache: %w", cc.Backend, err)
	}
	return lc, cc.TTL, nil
}
