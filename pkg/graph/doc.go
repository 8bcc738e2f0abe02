// Package graph provides the nested-graph model laid out by ntgraph.
//
// A nested graph G = (N, ET, EN) is a sequence of containment trees, one per
// discrete time step, connected across time steps by tracking edges. Each
// tracking edge lives on a fixed nesting level and links a node at one time
// step to a node at an adjacent time step.
//
// # Core Types
//
//   - [Graph]: nodes, per-level tracking edges, per-time-step nesting trees
//   - [Node]: one element at one (time step, level) pair
//   - [Position]: center y, half-extent w, and time-step x of a node
//   - [Stage]: annotations a layout pass has added to a graph
//
// # Annotation Pipeline
//
// Layout stages never mutate their input. Each stage clones the graph,
// annotates the clone and records itself with [Graph.MarkStage], which bumps
// [Graph.Version]. A stage that needs data produced by an earlier stage
// checks for the data itself and reports a coded error when it is missing.
//
// # Serialization
//
// Graphs use the wire format of the original nested-graph library:
//
//	{
//	  "N":  {"a": {"t": 0, "l": 0}, "b": {"t": 1, "l": 0}},
//	  "ET": {"0": {"a": ["b"]}},
//	  "EN": {"0": {}, "1": {}}
//	}
//
// Level and time-step keys must be base-10 integers; malformed keys are
// rejected at load time. Optional node fields are "w" (width), "layout" and
// "layoutbackup" (each {"x", "y", "w"}).
//
//	g, err := graph.ReadFile("steps.json")   // file → Graph (validated)
//	err = graph.WriteFile(g, "out.json")     // Graph → file
//	data, err := graph.Marshal(g)            // Graph → []byte
//
// # Determinism
//
// Go maps are unordered, so every accessor that returns nodes or edges sorts
// them: node ids in natural order (see [CompareIDs]), levels and time steps
// ascending.
package graph
