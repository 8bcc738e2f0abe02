// Package pkg provides the core libraries for ntgraph nested-graph layout.
//
// # Overview
//
// A nested temporal graph describes entities that live over discrete time
// steps, nest inside one another (a tree per time step) and are tracked from
// one time step to the next (edges per nesting level). ntgraph assigns every
// node a position: x is its time step, y its center and w its half-extent.
// Renderers draw treemap-like diagrams from those positions.
//
// # Architecture
//
// The data flow of one layout pass:
//
//	graph JSON {N, ET, EN}
//	         ↓
//	    [graph] package (load + validate)
//	         ↓
//	    [layout] SizeAggregator (structural widths)
//	         ↓
//	    [ranked] package (full or minimal ranked graph)
//	         ↓
//	    [solver] package (Graphviz dot, plain output)
//	         ↓
//	    [layout] Resolve, CheckOrder, ComputeSlots
//	         ↓
//	graph JSON with layout / layoutbackup
//
// [pipeline] runs these stages for the CLI and the HTTP service and caches
// results in [cache].
//
// # Quick Start
//
//	g, _ := graph.ReadFile("graph.json")
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, solver.NewGraphviz(), nil)
//	res, err := runner.Execute(ctx, g, pipeline.Options{Fallback: true})
//	if err != nil {
//	    return err
//	}
//	graph.WriteFile(res.Graph, "graph.layout.json")
//
// Running the same code on the written file backs the layout up and solves
// only the top-level entities, pinned to the previous order.
//
// # Main Packages
//
// [graph] - The nested graph model and its JSON wire format. Every layout
// stage clones the graph and records itself, so inputs are never mutated.
//
// [layout] - Size aggregation, layout backup and restore, solver result
// resolution, child slot allocation and order checking.
//
// [ranked] - Converts a nested graph into the ranked graph a solver lays out:
// one rank per time step, weighted tracking edges.
//
// [solver] - The Solver interface, DOT generation and the Graphviz
// implementation.
//
// [pipeline] - Complete layout passes (sizes → backup → solve → slots) with
// minimal-path fallback and result caching.
//
// [cache] - Cache interface with file, null, redis and mongo backends.
//
// [config] - TOML configuration for layout defaults, cache and server.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -short ./...                 # Skip Graphviz integration tests
//	NTGRAPH_TEST_REDIS=localhost:6379 go test ./pkg/cache/
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/layout
// [ranked]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/ranked
// [solver]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/solver
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/ntgraph/pkg/observability
package pkg
