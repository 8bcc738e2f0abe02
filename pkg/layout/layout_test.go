package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ntgraph/pkg/graph"
)

// nestedGraph has two time steps with one container each:
//
//	t0: a{a1, a2}    t1: b{b1}
//
// and tracking edges a->b (level 0), a1->b1 and a2->b1 (level 1).
func nestedGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "a", Time: 0, Level: 0},
		{ID: "b", Time: 1, Level: 0},
		{ID: "a1", Time: 0, Level: 1},
		{ID: "a2", Time: 0, Level: 1},
		{ID: "b1", Time: 1, Level: 1},
	} {
		require.NoError(t, g.AddNode(n))
	}
	g.AddTrackingEdge(0, "a", "b")
	g.AddTrackingEdge(1, "a1", "b1")
	g.AddTrackingEdge(1, "a2", "b1")
	g.AddChild(0, "a", "a1")
	g.AddChild(0, "a", "a2")
	g.AddChild(1, "b", "b1")
	require.NoError(t, g.Validate())
	return g
}

func node(t *testing.T, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}

func setLayout(t *testing.T, g *graph.Graph, id string, y, w float64) {
	t.Helper()
	n := node(t, g, id)
	n.Layout = &graph.Position{X: float64(n.Time), Y: y, W: w}
}
