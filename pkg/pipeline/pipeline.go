// Package pipeline runs complete nested-graph layout passes.
//
// This package implements the control flow shared by the CLI and the layout
// service, so both compute identical layouts for identical input and
// options.
//
// # Passes
//
// A pass takes a validated graph through these stages (package layout):
//
//  1. Sizes: computed when any node lacks a width.
//  2. Backup: when the input carries a layout but no backup, the layout is
//     preserved as the backup before anything overwrites it.
//  3. Initial layout, either
//     - minimal (a backup exists and Force is off): restore the backup,
//     solve the level-0 graph pinned to the backup order, check the solved
//     order against the backup; or
//     - full: solve every node without constraints.
//  4. Slots: children are placed inside their containers.
//
// With Fallback set, a minimal pass that fails with a structural or
// completeness error is retried once on the full path. Order mismatches
// never fail a pass; they are logged and returned in [Result.Mismatches].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, solver.NewGraphviz(), logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Fallback: true})
//	if err != nil {
//	    return err
//	}
//	graph.Write(os.Stdout, result.Graph)
//
// Results are cached by the hash of the input graph and the layout options.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ntgraph/pkg/cache"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one layout pass.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Force ignores any layout backup and always takes the full path.
	Force bool `json:"force,omitempty"`

	// Fallback retries a failed minimal pass on the full path.
	Fallback bool `json:"fallback,omitempty"`

	// WidthScale converts solver extents into half-extents.
	// Zero means layout.DefaultWidthScale.
	WidthScale float64 `json:"width_scale,omitempty"`

	// NodeSep overrides the solver's node separation when positive.
	NodeSep float64 `json:"node_sep,omitempty"`

	// SolverTimeout bounds every solver call when positive.
	SolverTimeout time.Duration `json:"solver_timeout,omitempty"`

	// Refresh skips cache reads; the result is still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a layout pass.
type Result struct {
	// Graph is the laid-out copy of the input.
	Graph *graph.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Mode is the path that produced Graph.
	Mode layout.Mode

	// FellBack is set when a failed minimal pass was replaced by a full one.
	FellBack bool

	// Mismatches lists where the solved order differs from the backup
	// order. Always empty for full passes.
	Mismatches []layout.Mismatch

	// Missing lists the nodes the solver returned no placement for.
	Missing []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is set when Graph came from the cache.
	CacheHit bool
}

// Stats contains pass statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	SizeTime  time.Duration
	SolveTime time.Duration
	SlotTime  time.Duration
	TotalTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.WidthScale < 0 {
		return fmt.Errorf("width_scale must not be negative, got %g", o.WidthScale)
	}
	if o.NodeSep < 0 {
		return fmt.Errorf("node_sep must not be negative, got %g", o.NodeSep)
	}
	if o.SolverTimeout < 0 {
		return fmt.Errorf("solver_timeout must not be negative, got %s", o.SolverTimeout)
	}
	if o.WidthScale == 0 {
		o.WidthScale = layout.DefaultWidthScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for a layout pass.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Force:      o.Force,
		Fallback:   o.Fallback,
		WidthScale: o.WidthScale,
		NodeSep:    o.NodeSep,
	}
}
