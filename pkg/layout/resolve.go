package layout

import (
	"context"
	stderrors "errors"
	"maps"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/ranked"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

// Mode selects the ranked-graph variant a layout pass uses.
type Mode string

const (
	// ModeFull solves every node without prior state.
	ModeFull Mode = "full"
	// ModeMinimal solves level-0 nodes in the order of the layout backup.
	ModeMinimal Mode = "minimal"
)

// DefaultWidthScale converts solver extents into layout half-extents.
const DefaultWidthScale = 0.25

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeMinimal
}

// ResolveOptions tunes [Resolve].
type ResolveOptions struct {
	// WidthScale multiplies solver extents. Zero means DefaultWidthScale.
	WidthScale float64
}

// ResolveResult is the outcome of [Resolve].
type ResolveResult struct {
	// Graph is the annotated copy of the input.
	Graph *graph.Graph
	// Missing lists requested node ids the solver returned nothing for, in
	// request order. Their layout is left unset.
	Missing []string
}

// Resolve solves rg with s and imports the placements into a copy of g:
// layout = {x: time, y: solved y, w: solved extent * scale}.
//
// In ModeMinimal every node with level > 0 that has a layout (restored from
// its backup) has w scaled by the same factor once more.
//
// Requested nodes the solver omits are listed in Missing and lose any
// layout they carried, so stale coordinates never mix with solved ones.
//
// Solver failures keep their code when they carry one and become
// SOLVER_FAILED otherwise; an expired context becomes TIMEOUT. A placement
// for an id that is not in g is STRUCTURAL_INCONSISTENCY.
func Resolve(ctx context.Context, g *graph.Graph, rg *ranked.Graph, mode Mode, s solver.Solver, opts ResolveOptions) (*ResolveResult, error) {
	if !mode.Valid() {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown layout mode %q", mode)
	}
	scale := opts.WidthScale
	if scale <= 0 {
		scale = DefaultWidthScale
	}

	sol, err := s.Solve(ctx, rg)
	if err != nil {
		return nil, solverError(err)
	}

	out := g.Clone()
	for _, id := range slices.SortedFunc(maps.Keys(sol), graph.CompareIDs) {
		n, ok := out.Node(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeStructural, "solver returned unknown node %s", id)
		}
		p := sol[id]
		n.Layout = &graph.Position{X: float64(n.Time), Y: p.Y, W: p.Extent * scale}
	}

	if mode == ModeMinimal {
		for _, n := range out.Nodes() {
			if n.Level > 0 && n.Layout != nil {
				n.Layout.W *= scale
			}
		}
	}

	var missing []string
	for _, id := range rg.NodeIDs() {
		if _, ok := sol[id]; ok {
			continue
		}
		missing = append(missing, id)
		if n, ok := out.Node(id); ok {
			n.Layout = nil
		}
	}

	out.MarkStage(graph.StageSolved)
	return &ResolveResult{Graph: out, Missing: missing}, nil
}

func solverError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "solve ranked graph")
	}
	return errors.Wrap(errors.ErrCodeSolverFailed, err, "solve ranked graph")
}
