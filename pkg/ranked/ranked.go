// Package ranked converts nested graphs into ranked-graph descriptions for an
// external layered layout solver.
//
// A ranked graph is the narrow contract between the layout engine and a
// solver such as Graphviz dot: nodes with a fixed extent, one same-rank group
// per time step and weighted directed edges. The package knows nothing about
// any particular solver.
//
// Two variants exist:
//
//   - [BuildFull]: every node, unordered rank groups, tracking edges of every
//     level. Used for a first layout without prior state.
//   - [BuildMinimal]: level-0 nodes only, rank groups pinned to the order of
//     a previous layout by an invisible edge chain. Used to keep repeated
//     layouts visually stable.
package ranked

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
)

// Edge weights. A weight of 1 asks the solver to keep similar-sized nodes on
// a straight run, 2 keeps large dominant nodes collinear.
const (
	WeightNone    = 0
	WeightSimilar = 1
	WeightStrong  = 2
)

const (
	// MinSimilarRatio and MaxSimilarRatio bound the source/destination width
	// ratio of similar-sized nodes (inclusive).
	MinSimilarRatio = 0.5
	MaxSimilarRatio = 1.5

	// DominantFraction is the share of the maximum width above which both
	// endpoints of a minimal-graph edge count as dominant.
	DominantFraction = 0.66

	// MinimalNodeSep is the node separation requested for minimal graphs.
	MinimalNodeSep = 2.0
)

// Node is a solver node with a fixed extent along the rank axis.
type Node struct {
	ID     string
	Time   int
	Extent float64
}

// Rank groups the nodes of one time step. When Ordered is set the solver
// must keep Nodes in the given order; the order is also expressed as
// invisible edges in [Graph.Edges].
type Rank struct {
	Time    int
	Nodes   []string
	Ordered bool
}

// Edge is a weighted directed solver edge. Invisible edges only constrain
// the order inside a rank and are never drawn.
type Edge struct {
	From      string
	To        string
	Weight    int
	Invisible bool
}

// Graph is a ranked-graph description.
type Graph struct {
	Nodes []Node
	Ranks []Rank
	Edges []Edge

	// NodeSep is the requested separation between nodes of one rank.
	// Zero leaves the solver default.
	NodeSep float64
}

// NodeIDs returns the ids of all requested nodes in declaration order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// VisibleEdges returns the edges that stem from tracking edges.
func (g *Graph) VisibleEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if !e.Invisible {
			out = append(out, e)
		}
	}
	return out
}

// EdgeWeight returns the similarity weight of an edge between nodes of width
// src and dst: 1 if src/dst lies in [0.5, 1.5], else 0.
func EdgeWeight(src, dst float64) int {
	ratio := src / dst
	if ratio < MinSimilarRatio || ratio > MaxSimilarRatio {
		return WeightNone
	}
	return WeightSimilar
}

// BuildFull describes every node of g: one unordered rank per time step and
// one edge per tracking edge on every level. Widths must be computed.
func BuildFull(g *graph.Graph) (*Graph, error) {
	if err := requireWidths(g); err != nil {
		return nil, err
	}

	out := &Graph{}
	byTime := make(map[int][]string)
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Time: n.Time, Extent: n.Width})
		byTime[n.Time] = append(byTime[n.Time], n.ID)
	}

	for _, t := range g.TimeSteps() {
		if ids := byTime[t]; len(ids) > 0 {
			out.Ranks = append(out.Ranks, Rank{Time: t, Nodes: ids})
		}
	}

	for _, level := range g.TrackingLevels() {
		for _, e := range g.TrackingEdges(level) {
			src, dst, err := endpoints(g, e)
			if err != nil {
				return nil, err
			}
			out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Weight: EdgeWeight(src.Width, dst.Width)})
		}
	}
	return out, nil
}

// BuildMinimal describes only the level-0 nodes of g. Each time step becomes
// an ordered rank sorted by descending backup y, pinned by an invisible
// chain. Level-0 tracking edges get the similarity weight, upgraded to 2
// when both endpoints exceed 66% of the maximum level-0 width.
//
// Every level-0 node must carry a layout backup; a missing backup is
// LAYOUT_INCOMPLETE.
func BuildMinimal(g *graph.Graph) (*Graph, error) {
	if err := requireWidths(g); err != nil {
		return nil, err
	}

	out := &Graph{NodeSep: MinimalNodeSep}
	maxW := 0.0
	for _, n := range g.NodesAtLevel(0) {
		if n.Backup == nil {
			return nil, errors.New(errors.ErrCodeLayoutIncomplete,
				"node %s (time step %d): missing layout backup for minimal layout", n.ID, n.Time)
		}
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Time: n.Time, Extent: n.Width})
		maxW = max(maxW, n.Width)
	}

	for _, t := range g.TimeSteps() {
		nodes := g.NodesAt(t, 0)
		if len(nodes) == 0 {
			continue
		}
		slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
			return cmp.Compare(b.Backup.Y, a.Backup.Y)
		})
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		out.Ranks = append(out.Ranks, Rank{Time: t, Nodes: ids, Ordered: true})
		for i := 1; i < len(ids); i++ {
			out.Edges = append(out.Edges, Edge{From: ids[i-1], To: ids[i], Invisible: true})
		}
	}

	for _, e := range g.TrackingEdges(0) {
		src, dst, err := endpoints(g, e)
		if err != nil {
			return nil, err
		}
		w := EdgeWeight(src.Width, dst.Width)
		if src.Width > DominantFraction*maxW && dst.Width > DominantFraction*maxW {
			w = WeightStrong
		}
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Weight: w})
	}
	return out, nil
}

func requireWidths(g *graph.Graph) error {
	for _, n := range g.Nodes() {
		if n.Width <= 0 {
			return errors.New(errors.ErrCodeLayoutIncomplete,
				"node %s (time step %d): width not computed", n.ID, n.Time)
		}
	}
	return nil
}

func endpoints(g *graph.Graph, e graph.Edge) (*graph.Node, *graph.Node, error) {
	src, ok := g.Node(e.From)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeStructural, "tracking edge %s->%s: unknown node %s", e.From, e.To, e.From)
	}
	dst, ok := g.Node(e.To)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeStructural, "tracking edge %s->%s: unknown node %s", e.From, e.To, e.To)
	}
	return src, dst, nil
}
