// Package layout implements the nested-graph layout stages.
//
// Each stage takes a graph, clones it, annotates the clone and records the
// stage on it (see [graph.Stage]); the input is never modified. The stages
// are, in pipeline order:
//
//   - [ComputeSizes]: bottom-up structural widths from the containment trees.
//   - [Backup] and [Restore]: deep copies between layout and layout backup.
//   - [Resolve]: runs a [solver.Solver] on a ranked graph built by package
//     ranked and imports y and extent into every returned node.
//   - [ComputeSlots]: carves each container's band into evenly spaced
//     sub-bands for its children, level by level from the outside in.
//   - [CheckOrder]: compares the level-0 order of the solved layout with the
//     order of the backup that constrained it.
//
// # Coordinates
//
// A node's layout is {x, y, w}: x is the time step, y the center of the node
// on the axis orthogonal to time, w its half-extent. Slot allocation relies
// on w being a half-extent:
//
//	gap = (parent.w - Σ child.w) / (n + 1)
//	y   = parent.y - parent.w + gap
//	for each child (by ascending y): y += gap + w; child.y = y; y += gap + w
//
// A negative gap (children overflowing their parent) is kept as is.
//
// Package pipeline wires the stages together; use it unless you need to run
// a single stage.
package layout
