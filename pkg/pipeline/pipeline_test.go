package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ntgraph/pkg/cache"
	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
	"github.com/matzehuels/ntgraph/pkg/ranked"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

const fixture = `{
	"N": {
		"a":  {"t": 0, "l": 0},
		"c":  {"t": 0, "l": 0},
		"b":  {"t": 1, "l": 0},
		"a1": {"t": 0, "l": 1},
		"a2": {"t": 0, "l": 1},
		"b1": {"t": 1, "l": 1}
	},
	"ET": {"0": {"a": ["b"], "c": ["b"]}, "1": {"a1": ["b1"], "a2": ["b1"]}},
	"EN": {"0": {"a": ["a1", "a2"]}, "1": {"b": ["b1"]}}
}`

func loadFixture(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Unmarshal([]byte(fixture))
	require.NoError(t, err)
	return g
}

// chainSolver walks every rank downwards from y = 0, the way dot lays out an
// LR chain, and counts its calls. With reverse set it walks upwards.
type chainSolver struct {
	calls   atomic.Int32
	reverse bool
}

func (s *chainSolver) Solve(_ context.Context, rg *ranked.Graph) (solver.Solution, error) {
	s.calls.Add(1)
	extent := make(map[string]float64)
	for _, n := range rg.Nodes {
		extent[n.ID] = n.Extent
	}
	step := -10.0
	if s.reverse {
		step = 10
	}
	sol := make(solver.Solution)
	for _, r := range rg.Ranks {
		for i, id := range r.Nodes {
			sol[id] = solver.Placement{Y: step * float64(i), Extent: extent[id]}
		}
	}
	return sol, nil
}

func newTestRunner(t *testing.T, c cache.Cache, s solver.Solver) *Runner {
	t.Helper()
	return NewRunner(c, nil, s, log.New(testWriter{t}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func nodeOf(t *testing.T, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %s", id)
	return n
}

func TestExecuteFullPass(t *testing.T) {
	s := &chainSolver{}
	g := loadFixture(t)
	res, err := newTestRunner(t, nil, s).Execute(context.Background(), g, Options{})
	require.NoError(t, err)

	assert.Equal(t, layout.ModeFull, res.Mode)
	assert.False(t, res.CacheHit)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Mismatches)
	assert.Len(t, res.GraphHash, 64)
	assert.Equal(t, 6, res.Stats.NodeCount)
	assert.Equal(t, 4, res.Stats.EdgeCount)

	out := res.Graph
	assert.True(t, out.Has(graph.StageSized|graph.StageSolved|graph.StageSlotted))
	for _, n := range out.Nodes() {
		require.NotNil(t, n.Layout, "node %s", n.ID)
		assert.Equal(t, float64(n.Time), n.Layout.X)
	}
	// b has a single child
	assert.Equal(t, nodeOf(t, out, "b").Layout.Y, nodeOf(t, out, "b1").Layout.Y)

	// input untouched
	assert.Nil(t, nodeOf(t, g, "a").Layout)
	assert.Zero(t, nodeOf(t, g, "a").Width)
}

func TestExecuteBacksUpAndGoesMinimal(t *testing.T) {
	g := loadFixture(t)
	for _, n := range g.Nodes() {
		n.Width = 1
		n.Layout = &graph.Position{X: float64(n.Time), Y: float64(len(n.ID)), W: 1}
	}
	nodeOf(t, g, "c").Layout.Y = 5

	res, err := newTestRunner(t, nil, &chainSolver{}).Execute(context.Background(), g, Options{})
	require.NoError(t, err)

	assert.Equal(t, layout.ModeMinimal, res.Mode)
	assert.Empty(t, res.Mismatches)
	assert.True(t, res.Graph.Has(graph.StageBackedUp|graph.StageRestored))

	c := nodeOf(t, res.Graph, "c")
	require.NotNil(t, c.Backup)
	assert.Equal(t, 5.0, c.Backup.Y, "backup holds the input layout")
	// c has the largest backup y at t0, so it heads the chain
	assert.Equal(t, 0.0, c.Layout.Y)
	assert.Equal(t, -10.0, nodeOf(t, res.Graph, "a").Layout.Y)
}

func TestExecuteForceIgnoresBackup(t *testing.T) {
	g := loadFixture(t)
	for _, n := range g.Nodes() {
		n.Backup = &graph.Position{X: float64(n.Time), Y: 1, W: 1}
	}

	res, err := newTestRunner(t, nil, &chainSolver{}).Execute(context.Background(), g, Options{Force: true})
	require.NoError(t, err)
	assert.Equal(t, layout.ModeFull, res.Mode)
	assert.False(t, res.Graph.Has(graph.StageRestored))
}

func TestExecuteReportsMismatches(t *testing.T) {
	g := loadFixture(t)
	nodeOf(t, g, "a").Backup = &graph.Position{Y: 2, W: 1}
	nodeOf(t, g, "c").Backup = &graph.Position{Y: 1, W: 1}
	nodeOf(t, g, "b").Backup = &graph.Position{X: 1, Y: 1, W: 1}
	for _, id := range []string{"a1", "a2", "b1"} {
		nodeOf(t, g, id).Backup = &graph.Position{Y: 1, W: 0.5}
	}

	res, err := newTestRunner(t, nil, &chainSolver{reverse: true}).Execute(context.Background(), g, Options{})
	require.NoError(t, err, "order mismatches are warnings")
	assert.Equal(t, layout.ModeMinimal, res.Mode)
	assert.Equal(t, []layout.Mismatch{
		{Time: 0, Index: 0, Backup: "c", Solved: "a"},
		{Time: 0, Index: 1, Backup: "a", Solved: "c"},
	}, res.Mismatches)
}

func TestExecuteFallback(t *testing.T) {
	// Only a carries a layout, so c ends up without a backup and the
	// minimal graph cannot be built.
	build := func() *graph.Graph {
		g := loadFixture(t)
		nodeOf(t, g, "a").Layout = &graph.Position{Y: 1, W: 1}
		return g
	}

	_, err := newTestRunner(t, nil, &chainSolver{}).Execute(context.Background(), build(), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutIncomplete), "got %v", err)

	res, err := newTestRunner(t, nil, &chainSolver{}).Execute(context.Background(), build(), Options{Fallback: true})
	require.NoError(t, err)
	assert.True(t, res.FellBack)
	assert.Equal(t, layout.ModeFull, res.Mode)
}

func TestExecuteMissingPlacements(t *testing.T) {
	partial := solver.Func(func(_ context.Context, rg *ranked.Graph) (solver.Solution, error) {
		return solver.Solution{"a": {Y: 0, Extent: 3}}, nil
	})
	_, err := newTestRunner(t, nil, partial).Execute(context.Background(), loadFixture(t), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutIncomplete))
}

func TestExecuteSolverTimeout(t *testing.T) {
	slow := solver.Func(func(ctx context.Context, _ *ranked.Graph) (solver.Solution, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := newTestRunner(t, nil, slow).Execute(context.Background(), loadFixture(t),
		Options{SolverTimeout: 10 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout), "got %v", err)
}

func TestExecuteStructuralError(t *testing.T) {
	g := loadFixture(t)
	g.AddChild(0, "a", "ghost")

	_, err := newTestRunner(t, nil, &chainSolver{}).Execute(context.Background(), g, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeStructural))
}

func TestExecuteCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := &chainSolver{}
	r := newTestRunner(t, c, s)
	ctx := context.Background()

	first, err := r.Execute(ctx, loadFixture(t), Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(ctx, loadFixture(t), Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, int32(1), s.calls.Load())
	assert.Equal(t, first.GraphHash, second.GraphHash)
	assert.Equal(t, first.Mode, second.Mode)

	want, err := graph.Marshal(first.Graph)
	require.NoError(t, err)
	got, err := graph.Marshal(second.Graph)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	// other options, other key
	_, err = r.Execute(ctx, loadFixture(t), Options{WidthScale: 0.5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), s.calls.Load())

	refreshed, err := r.Execute(ctx, loadFixture(t), Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
	assert.Equal(t, int32(3), s.calls.Load())
}

func TestExecuteConcurrent(t *testing.T) {
	r := newTestRunner(t, nil, &chainSolver{})
	g := loadFixture(t)

	done := make(chan error, 8)
	for i := 0; i < cap(done); i++ {
		go func() {
			_, err := r.Execute(context.Background(), g, Options{})
			done <- err
		}()
	}
	for i := 0; i < cap(done); i++ {
		assert.NoError(t, <-done)
	}
	assert.Nil(t, nodeOf(t, g, "a").Layout)
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"custom scale", Options{WidthScale: 1}, false},
		{"negative scale", Options{WidthScale: -1}, true},
		{"negative node sep", Options{NodeSep: -2}, true},
		{"negative timeout", Options{SolverTimeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.WidthScale != layout.DefaultWidthScale {
		t.Errorf("WidthScale = %g, want %g", o.WidthScale, layout.DefaultWidthScale)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	o := Options{Force: true, WidthScale: 0.5, NodeSep: 3}
	want := cache.LayoutKeyOpts{Force: true, WidthScale: 0.5, NodeSep: 3}
	if got := o.LayoutKeyOpts(); got != want {
		t.Errorf("LayoutKeyOpts() = %+v, want %+v", got, want)
	}
}

func TestExecuteExampleGraph(t *testing.T) {
	g, err := graph.ReadFile("../../examples/graphs/clusters.json")
	require.NoError(t, err)

	runner := newTestRunner(t, nil, &chainSolver{})
	res, err := runner.Execute(context.Background(), g, Options{Fallback: true})
	require.NoError(t, err)
	for _, n := range res.Graph.Nodes() {
		require.NotNil(t, n.Layout, "node %s", n.ID)
	}

	// the second pass runs minimal against the first layout
	again, err := runner.Execute(context.Background(), res.Graph, Options{Fallback: true})
	require.NoError(t, err)
	assert.Equal(t, layout.ModeMinimal, again.Mode)
	assert.False(t, again.FellBack)
	assert.Empty(t, again.Mismatches)
}
