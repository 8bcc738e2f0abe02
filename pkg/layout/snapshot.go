package layout

import "github.com/matzehuels/ntgraph/pkg/graph"

// Backup returns a copy of g where every node's layout has been deep-copied
// into its layout backup. Nodes without a layout end up without a backup.
func Backup(g *graph.Graph) *graph.Graph {
	out := g.Clone()
	for _, n := range out.Nodes() {
		n.Backup = n.Layout.Clone()
	}
	out.MarkStage(graph.StageBackedUp)
	return out
}

// Restore returns a copy of g where every node's layout backup has been
// deep-copied into its layout. Nodes without a backup end up without a
// layout.
func Restore(g *graph.Graph) *graph.Graph {
	out := g.Clone()
	for _, n := range out.Nodes() {
		n.Layout = n.Backup.Clone()
	}
	out.MarkStage(graph.StageRestored)
	return out
}
