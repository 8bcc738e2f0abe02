package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
	"github.com/matzehuels/ntgraph/pkg/observability"
	"github.com/matzehuels/ntgraph/pkg/ranked"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

// Layout runs one pass over g without touching the cache. g must be valid
// (see graph.Graph.Validate) and is not modified.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	start := time.Now()
	result := &Result{
		Stats: Stats{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()},
	}

	work := g
	if !work.HasWidths() {
		sizeStart := time.Now()
		work = layout.ComputeSizes(work)
		result.Stats.SizeTime = time.Since(sizeStart)
		opts.Logger.Debug("computed sizes", "nodes", work.NodeCount(), "duration", result.Stats.SizeTime)
	}
	if work.HasLayout() && !work.HasBackup() {
		work = layout.Backup(work)
		opts.Logger.Debug("backed up input layout")
	}

	mode := layout.ModeFull
	if work.HasBackup() && !opts.Force {
		mode = layout.ModeMinimal
	}

	err := r.pass(ctx, work, mode, opts, result)
	if err != nil && mode == layout.ModeMinimal && opts.Fallback && recoverable(err) {
		opts.Logger.Warn("minimal layout failed, retrying full layout", "error", errors.UserMessage(err))
		result.Mismatches = nil
		result.FellBack = true
		err = r.pass(ctx, work, layout.ModeFull, opts, result)
	}
	if err != nil {
		return nil, err
	}

	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

// pass runs the initial layout and slot allocation on one path.
func (r *Runner) pass(ctx context.Context, g *graph.Graph, mode layout.Mode, opts Options, result *Result) (err error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(mode), g.NodeCount())
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, string(mode), time.Since(start), err) }()

	var rg *ranked.Graph
	if mode == layout.ModeMinimal {
		g = layout.Restore(g)
		rg, err = ranked.BuildMinimal(g)
	} else {
		rg, err = ranked.BuildFull(g)
	}
	if err != nil {
		return err
	}
	if opts.NodeSep > 0 {
		rg.NodeSep = opts.NodeSep
	}

	resolved, err := r.solve(ctx, g, rg, mode, opts, result)
	if err != nil {
		return err
	}
	if len(resolved.Missing) > 0 {
		opts.Logger.Warn("solver omitted nodes", "mode", mode, "missing", len(resolved.Missing))
	}

	if mode == layout.ModeMinimal {
		report, err := layout.CheckOrder(resolved.Graph)
		if err != nil {
			return err
		}
		if !report.Consistent() {
			hooks.OnOrderMismatch(ctx, len(report.Mismatches))
			opts.Logger.Warn("solved order differs from backup",
				"mismatches", len(report.Mismatches),
				"first", report.Mismatches[0].String())
		}
		result.Mismatches = report.Mismatches
	}

	slotStart := time.Now()
	slotted, err := layout.ComputeSlots(resolved.Graph)
	if err != nil {
		return err
	}
	result.Stats.SlotTime = time.Since(slotStart)

	result.Graph = slotted
	result.Mode = mode
	result.Missing = resolved.Missing
	opts.Logger.Info("computed layout",
		"mode", mode,
		"nodes", slotted.NodeCount(),
		"duration", time.Since(start))
	return nil
}

func (r *Runner) solve(ctx context.Context, g *graph.Graph, rg *ranked.Graph, mode layout.Mode, opts Options, result *Result) (*layout.ResolveResult, error) {
	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, string(mode), len(rg.Nodes))
	start := time.Now()

	s := solver.WithTimeout(r.Solver, opts.SolverTimeout)
	res, err := layout.Resolve(ctx, g, rg, mode, s, layout.ResolveOptions{WidthScale: opts.WidthScale})
	duration := time.Since(start)
	result.Stats.SolveTime += duration

	placed := 0
	if res != nil {
		placed = len(rg.Nodes) - len(res.Missing)
	}
	hooks.OnSolveComplete(ctx, string(mode), placed, duration, err)
	opts.Logger.Debug("solved ranked graph",
		"mode", mode,
		"nodes", len(rg.Nodes),
		"ranks", len(rg.Ranks),
		"edges", len(rg.Edges),
		"duration", duration)
	return res, err
}

// recoverable reports whether a failed minimal pass may be retried on the
// full path.
func recoverable(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeStructural, errors.ErrCodeLayoutIncomplete:
		return true
	}
	return false
}
