// Package solver defines the narrow interface to an external ranked-graph
// layout engine and ships a Graphviz binding.
//
// The layout engine hands a [ranked.Graph] to a [Solver] and receives one
// [Placement] per node: a scalar position along the rank axis and a scalar
// extent. Nothing else about the solver is assumed; in particular a solver
// may omit nodes, which the caller reports as a completeness error.
//
// # Implementations
//
//   - [Graphviz]: renders the ranked graph with the dot engine (embedded
//     WebAssembly build from goccy/go-graphviz) in "plain" format and reads
//     node centers and heights back.
//   - [Func]: adapts an ordinary function, e.g. a deterministic stub in tests.
//
// # Deadlines
//
// Solvers run synchronously. Callers that need a bound wrap a solver with
// [WithTimeout]:
//
//	s := solver.WithTimeout(solver.NewGraphviz(), 30*time.Second)
//	sol, err := s.Solve(ctx, rg)
package solver
