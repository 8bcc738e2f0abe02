package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

// Graph is a nested-graph instance: nodes, tracking edges per level and
// containment trees per time step.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use; layout stages clone before writing.
type Graph struct {
	nodes    map[string]*Node
	tracking map[int]map[string][]string // level -> source -> destinations
	nesting  map[int]map[string][]string // time -> parent -> children
	stages   Stage
	version  int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		tracking: make(map[int]map[string][]string),
		nesting:  make(map[int]map[string][]string),
	}
}

// AddNode adds a copy of n to the graph.
// Returns INVALID_INPUT if the id is malformed, the level is negative or a
// node with the same id already exists.
func (g *Graph) AddNode(n Node) error {
	if err := errors.ValidateNodeID(n.ID); err != nil {
		return err
	}
	if n.Level < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node %s: negative level %d", n.ID, n.Level)
	}
	if _, exists := g.nodes[n.ID]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %s", n.ID)
	}
	g.nodes[n.ID] = n.Clone()
	return nil
}

// AddTrackingEdge appends to to the destinations of from at the given level.
// Endpoints are checked by Validate, not here, so graphs can be assembled in
// any order.
func (g *Graph) AddTrackingEdge(level int, from, to string) {
	if g.tracking[level] == nil {
		g.tracking[level] = make(map[string][]string)
	}
	g.tracking[level][from] = append(g.tracking[level][from], to)
}

// AddTrackingLevel registers a level without edges. Levels drive size
// aggregation and slot allocation even when they carry no tracking edge.
func (g *Graph) AddTrackingLevel(level int) {
	if g.tracking[level] == nil {
		g.tracking[level] = make(map[string][]string)
	}
}

// AddChild appends child to the children of parent in the nesting tree of
// the given time step.
func (g *Graph) AddChild(time int, parent, child string) {
	g.AddTimeStep(time)
	g.nesting[time][parent] = append(g.nesting[time][parent], child)
}

// AddTimeStep registers a nesting tree for the time step, possibly empty.
func (g *Graph) AddTimeStep(time int) {
	if g.nesting[time] == nil {
		g.nesting[time] = make(map[string][]string)
	}
}

// SetChildren replaces the ordered children of parent at the time step.
func (g *Graph) SetChildren(time int, parent string, children []string) {
	g.AddTimeStep(time)
	g.nesting[time][parent] = slices.Clone(children)
}

// Node returns the node with the given id.
// The returned pointer aliases graph state; stages only write through it on
// their own clone.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in natural id order.
func (g *Graph) Nodes() []*Node {
	out := slices.Collect(maps.Values(g.nodes))
	sortNodes(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of tracking edges over all levels.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, byLevel := range g.tracking {
		for _, dsts := range byLevel {
			count += len(dsts)
		}
	}
	return count
}

// NodesAtLevel returns the nodes on a nesting level in natural id order.
func (g *Graph) NodesAtLevel(level int) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Level == level {
			out = append(out, n)
		}
	}
	sortNodes(out)
	return out
}

// NodesAt returns the nodes of one time step on one level in natural id order.
func (g *Graph) NodesAt(time, level int) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Time == time && n.Level == level {
			out = append(out, n)
		}
	}
	sortNodes(out)
	return out
}

// TrackingLevels returns the levels present in the tracking graph, ascending.
func (g *Graph) TrackingLevels() []int {
	return slices.Sorted(maps.Keys(g.tracking))
}

// NodeLevels returns the distinct levels of all nodes, ascending.
func (g *Graph) NodeLevels() []int {
	seen := make(map[int]bool)
	for _, n := range g.nodes {
		seen[n.Level] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// TimeSteps returns every time step that owns a node or a nesting tree,
// ascending.
func (g *Graph) TimeSteps() []int {
	seen := make(map[int]bool, len(g.nesting))
	for t := range g.nesting {
		seen[t] = true
	}
	for _, n := range g.nodes {
		seen[n.Time] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// TrackingEdges returns the tracking edges of a level. Sources come in
// natural id order, destinations in their stored order.
func (g *Graph) TrackingEdges(level int) []Edge {
	byLevel := g.tracking[level]
	srcs := slices.SortedFunc(maps.Keys(byLevel), CompareIDs)
	var out []Edge
	for _, src := range srcs {
		for _, dst := range byLevel[src] {
			out = append(out, Edge{Level: level, From: src, To: dst})
		}
	}
	return out
}

// Children returns a copy of the ordered children of id at the time step.
// Returns nil when the node has no containment children.
func (g *Graph) Children(time int, id string) []string {
	return slices.Clone(g.nesting[time][id])
}

// HasWidths reports whether every node carries a structural width.
func (g *Graph) HasWidths() bool {
	for _, n := range g.nodes {
		if n.Width <= 0 {
			return false
		}
	}
	return true
}

// HasLayout reports whether any node carries a layout.
func (g *Graph) HasLayout() bool {
	for _, n := range g.nodes {
		if n.Layout != nil {
			return true
		}
	}
	return false
}

// HasBackup reports whether any node carries a layout backup.
func (g *Graph) HasBackup() bool {
	for _, n := range g.nodes {
		if n.Backup != nil {
			return true
		}
	}
	return false
}

// Stages returns the annotations recorded so far.
func (g *Graph) Stages() Stage { return g.stages }

// Has reports whether stage s has been recorded.
func (g *Graph) Has(s Stage) bool { return g.stages&s == s }

// Version counts the stages applied since the graph was loaded.
func (g *Graph) Version() int { return g.version }

// MarkStage records stage s and bumps the version.
func (g *Graph) MarkStage(s Stage) {
	g.stages |= s
	g.version++
}

// Clone returns a deep copy of the graph, including stage history.
func (g *Graph) Clone() *Graph {
	c := New()
	c.stages = g.stages
	c.version = g.version
	for id, n := range g.nodes {
		c.nodes[id] = n.Clone()
	}
	for level, byLevel := range g.tracking {
		c.tracking[level] = cloneAdjacency(byLevel)
	}
	for t, tree := range g.nesting {
		c.nesting[t] = cloneAdjacency(tree)
	}
	return c
}

func cloneAdjacency(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int { return CompareIDs(a.ID, b.ID) })
}
