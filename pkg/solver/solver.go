package solver

import (
	"context"
	"time"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/ranked"
)

// Placement is the solver output for one node.
type Placement struct {
	// Y is the center of the node along the axis orthogonal to time.
	Y float64
	// Extent is the solved size of the node along the same axis.
	Extent float64
}

// Solution maps node ids to their placements.
type Solution map[string]Placement

// Solver lays out a ranked graph.
type Solver interface {
	Solve(ctx context.Context, g *ranked.Graph) (Solution, error)
}

// Func adapts an ordinary function to the Solver interface.
type Func func(ctx context.Context, g *ranked.Graph) (Solution, error)

// Solve calls f(ctx, g).
func (f Func) Solve(ctx context.Context, g *ranked.Graph) (Solution, error) {
	return f(ctx, g)
}

// timeoutSolver bounds an inner solver by a deadline.
type timeoutSolver struct {
	inner   Solver
	timeout time.Duration
}

// WithTimeout returns a solver that fails with TIMEOUT when s does not return
// within d. A non-positive d returns s unchanged.
//
// The inner call keeps running in its goroutine after the deadline if it
// ignores ctx; its result is discarded.
func WithTimeout(s Solver, d time.Duration) Solver {
	if d <= 0 {
		return s
	}
	return &timeoutSolver{inner: s, timeout: d}
}

type solveResult struct {
	sol Solution
	err error
}

func (t *timeoutSolver) Solve(ctx context.Context, g *ranked.Graph) (Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan solveResult, 1)
	go func() {
		sol, err := t.inner.Solve(ctx, g)
		done <- solveResult{sol, err}
	}()

	select {
	case r := <-done:
		return r.sol, r.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "solver exceeded %s", t.timeout)
		}
		return nil, ctx.Err()
	}
}
