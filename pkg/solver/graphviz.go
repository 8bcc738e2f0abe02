package solver

import (
	"bytes"
	"context"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/ranked"
)

// formatPlain is the Graphviz text output listing node centers and sizes.
const formatPlain graphviz.Format = "plain"

// Graphviz solves ranked graphs with the dot layout engine.
type Graphviz struct {
	Logger *log.Logger
}

// NewGraphviz returns a Graphviz solver that logs nothing.
func NewGraphviz() *Graphviz {
	return &Graphviz{}
}

// Solve renders g with dot and reads the node placements back.
func (s *Graphviz) Solve(ctx context.Context, g *ranked.Graph) (Solution, error) {
	dot, ids := ToDOT(g)
	if s.Logger != nil {
		s.Logger.Debug("solving ranked graph", "nodes", len(g.Nodes), "ranks", len(g.Ranks), "edges", len(g.Edges))
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "parse DOT")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, formatPlain, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "render plain layout")
	}
	return parsePlain(&buf, ids)
}

var _ Solver = (*Graphviz)(nil)
