package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

// Validate checks the structural invariants of the nested graph.
// It returns a STRUCTURAL_INCONSISTENCY error naming the offending node and
// time step when:
//   - a tracking edge references an unknown node, or one on another level
//   - a nesting tree references an unknown node, or one of another time step
//   - a child's level is not strictly greater than its parent's
//   - a child has more than one parent within a time step
//   - containment contains a cycle
//
// Levels are checked in ascending order, time steps likewise, so the
// reported violation is deterministic.
func (g *Graph) Validate() error {
	for _, level := range g.TrackingLevels() {
		for _, e := range g.TrackingEdges(level) {
			if err := g.checkTrackingEndpoint(level, e.From, e); err != nil {
				return err
			}
			if err := g.checkTrackingEndpoint(level, e.To, e); err != nil {
				return err
			}
		}
	}

	for _, t := range slices.Sorted(maps.Keys(g.nesting)) {
		if err := g.validateTree(t); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) checkTrackingEndpoint(level int, id string, e Edge) error {
	n, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeStructural,
			"tracking edge %s->%s on level %d: unknown node %s", e.From, e.To, level, id)
	}
	if n.Level != level {
		return errors.New(errors.ErrCodeStructural,
			"tracking edge %s->%s on level %d: node %s is on level %d", e.From, e.To, level, id, n.Level)
	}
	return nil
}

func (g *Graph) validateTree(t int) error {
	tree := g.nesting[t]
	parents := slices.SortedFunc(maps.Keys(tree), CompareIDs)
	parentOf := make(map[string]string)

	for _, pid := range parents {
		p, ok := g.nodes[pid]
		if !ok {
			return errors.New(errors.ErrCodeStructural, "time step %d: unknown parent node %s", t, pid)
		}
		if p.Time != t {
			return errors.New(errors.ErrCodeStructural,
				"time step %d: parent node %s belongs to time step %d", t, pid, p.Time)
		}
		for _, cid := range tree[pid] {
			c, ok := g.nodes[cid]
			if !ok {
				return errors.New(errors.ErrCodeStructural, "time step %d: node %s has unknown child %s", t, pid, cid)
			}
			if c.Time != t {
				return errors.New(errors.ErrCodeStructural,
					"time step %d: child %s of %s belongs to time step %d", t, cid, pid, c.Time)
			}
			if prev, seen := parentOf[cid]; seen {
				return errors.New(errors.ErrCodeStructural,
					"time step %d: node %s has two parents (%s, %s)", t, cid, prev, pid)
			}
			parentOf[cid] = pid
		}
	}

	if err := detectCycle(t, tree, parents); err != nil {
		return err
	}

	for _, pid := range parents {
		p := g.nodes[pid]
		for _, cid := range tree[pid] {
			if c := g.nodes[cid]; c.Level <= p.Level {
				return errors.New(errors.ErrCodeStructural,
					"time step %d: child %s (level %d) is not nested below %s (level %d)",
					t, cid, c.Level, pid, p.Level)
			}
		}
	}
	return nil
}

// detectCycle runs a depth-first search with white/gray/black coloring over
// one containment tree.
func detectCycle(t int, tree map[string][]string, roots []string) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return errors.New(errors.ErrCodeStructural, "time step %d: containment cycle through node %s", t, id)
		case black:
			return nil
		}
		color[id] = gray
		for _, child := range tree[id] {
			if err := visit(child); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range roots {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
