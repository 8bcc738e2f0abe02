package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
)

// ComputeSlots returns a copy of g where the children of every container
// are placed inside the container's band.
//
// Levels are visited from 0 downwards, so a container's own position is
// final before its children are placed. A single child is centered on its
// parent. Two or more children are sorted by their current y (stable) and
// spaced by an equal gap; the sorted order is written back to the nesting
// tree.
//
// A container with children fails with LAYOUT_INCOMPLETE when its own
// layout or that of one of its children is missing.
func ComputeSlots(g *graph.Graph) (*graph.Graph, error) {
	out := g.Clone()

	levels := out.NodeLevels()
	for i, level := range levels {
		if i == len(levels)-1 {
			break
		}
		for _, n := range out.NodesAtLevel(level) {
			if err := allocate(out, n); err != nil {
				return nil, err
			}
		}
	}

	out.MarkStage(graph.StageSlotted)
	return out, nil
}

func allocate(g *graph.Graph, parent *graph.Node) error {
	ids := g.Children(parent.Time, parent.ID)
	if len(ids) == 0 {
		return nil
	}
	if parent.Layout == nil {
		return errors.New(errors.ErrCodeLayoutIncomplete,
			"node %s (time step %d): container has no layout", parent.ID, parent.Time)
	}

	children := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		c, ok := g.Node(id)
		if !ok {
			return errors.New(errors.ErrCodeStructural,
				"time step %d: node %s has unknown child %s", parent.Time, parent.ID, id)
		}
		if c.Layout == nil {
			return errors.New(errors.ErrCodeLayoutIncomplete,
				"node %s (time step %d): child of %s has no layout", c.ID, c.Time, parent.ID)
		}
		children = append(children, c)
	}

	if len(children) == 1 {
		children[0].Layout.Y = parent.Layout.Y
		return nil
	}

	slices.SortStableFunc(children, func(a, b *graph.Node) int {
		return cmp.Compare(a.Layout.Y, b.Layout.Y)
	})

	total := 0.0
	for _, c := range children {
		total += c.Layout.W
	}
	gap := (parent.Layout.W - total) / float64(len(children)+1)

	y := parent.Layout.Y - parent.Layout.W + gap
	sorted := make([]string, len(children))
	for i, c := range children {
		y += gap + c.Layout.W
		c.Layout.Y = y
		y += gap + c.Layout.W
		sorted[i] = c.ID
	}
	g.SetChildren(parent.Time, parent.ID, sorted)
	return nil
}
