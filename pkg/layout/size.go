package layout

import (
	"github.com/matzehuels/ntgraph/pkg/graph"
)

// ComputeSizes returns a copy of g where every node carries its structural
// width: 1 on the deepest tracking level (and below), 1 plus the sum of the
// children's widths elsewhere.
//
// The deepest level is the largest key of the tracking graph, or the
// largest node level when there are no tracking levels. Levels above it are
// processed deepest first, so children are always sized before their
// parents. Existing widths are overwritten.
func ComputeSizes(g *graph.Graph) *graph.Graph {
	out := g.Clone()
	defer out.MarkStage(graph.StageSized)

	deepest, ok := deepestLevel(out)
	if !ok {
		return out
	}

	for _, n := range out.Nodes() {
		if n.Level >= deepest {
			n.Width = 1
		}
	}
	for level := deepest - 1; level >= 0; level-- {
		for _, n := range out.NodesAtLevel(level) {
			w := 1.0
			for _, id := range out.Children(n.Time, n.ID) {
				if c, ok := out.Node(id); ok {
					w += c.Width
				}
			}
			n.Width = w
		}
	}
	return out
}

func deepestLevel(g *graph.Graph) (int, bool) {
	levels := g.TrackingLevels()
	if len(levels) == 0 {
		levels = g.NodeLevels()
	}
	if len(levels) == 0 {
		return 0, false
	}
	return levels[len(levels)-1], true
}
