package graph

import (
	"slices"
	"testing"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

func twoStepGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []Node{
		{ID: "a", Time: 0, Level: 0},
		{ID: "b", Time: 1, Level: 0},
		{ID: "a1", Time: 0, Level: 1},
		{ID: "a2", Time: 0, Level: 1},
		{ID: "b1", Time: 1, Level: 1},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s) error: %v", n.ID, err)
		}
	}
	g.AddTrackingEdge(0, "a", "b")
	g.AddTrackingEdge(1, "a1", "b1")
	g.AddTrackingEdge(1, "a2", "b1")
	g.AddChild(0, "a", "a1")
	g.AddChild(0, "a", "a2")
	g.AddChild(1, "b", "b1")
	return g
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		wantCode errors.Code
	}{
		{"valid", Node{ID: "x", Level: 0}, ""},
		{"empty id", Node{ID: ""}, errors.ErrCodeInvalidInput},
		{"negative level", Node{ID: "y", Level: -1}, errors.ErrCodeInvalidInput},
		{"duplicate", Node{ID: "dup"}, errors.ErrCodeInvalidInput},
	}

	g := New()
	if err := g.AddNode(Node{ID: "dup"}); err != nil {
		t.Fatalf("AddNode(dup) error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddNode(tt.node)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("AddNode() code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestAddNodeCopiesPositions(t *testing.T) {
	pos := &Position{X: 0, Y: 3, W: 1}
	g := New()
	_ = g.AddNode(Node{ID: "a", Layout: pos})

	pos.Y = 99
	n, _ := g.Node("a")
	if n.Layout.Y != 3 {
		t.Errorf("Layout.Y = %v after caller mutation, want 3", n.Layout.Y)
	}
}

func TestAccessors(t *testing.T) {
	g := twoStepGraph(t)

	if got := g.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}
	if got := g.TrackingLevels(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("TrackingLevels() = %v, want [0 1]", got)
	}
	if got := g.TimeSteps(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("TimeSteps() = %v, want [0 1]", got)
	}
	if got := g.Children(0, "a"); !slices.Equal(got, []string{"a1", "a2"}) {
		t.Errorf("Children(0, a) = %v, want [a1 a2]", got)
	}
	if got := g.Children(0, "a1"); got != nil {
		t.Errorf("Children(0, a1) = %v, want nil", got)
	}

	var ids []string
	for _, n := range g.NodesAt(0, 1) {
		ids = append(ids, n.ID)
	}
	if !slices.Equal(ids, []string{"a1", "a2"}) {
		t.Errorf("NodesAt(0, 1) = %v, want [a1 a2]", ids)
	}

	edges := g.TrackingEdges(1)
	want := []Edge{{Level: 1, From: "a1", To: "b1"}, {Level: 1, From: "a2", To: "b1"}}
	if !slices.Equal(edges, want) {
		t.Errorf("TrackingEdges(1) = %v, want %v", edges, want)
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	g := twoStepGraph(t)
	kids := g.Children(0, "a")
	kids[0] = "mutated"
	if got := g.Children(0, "a"); got[0] != "a1" {
		t.Errorf("Children() aliases internal state: %v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := twoStepGraph(t)
	n, _ := g.Node("a")
	n.Layout = &Position{Y: 1, W: 2}
	n.Backup = &Position{Y: 1, W: 2}
	g.MarkStage(StageSized)

	c := g.Clone()
	cn, _ := c.Node("a")
	cn.Layout.Y = 42
	cn.Backup.W = 42
	c.SetChildren(0, "a", []string{"a2", "a1"})
	c.AddTrackingEdge(0, "a", "b")

	if n.Layout.Y != 1 || n.Backup.W != 2 {
		t.Errorf("Clone() shares positions with original: layout=%v backup=%v", n.Layout, n.Backup)
	}
	if got := g.Children(0, "a"); !slices.Equal(got, []string{"a1", "a2"}) {
		t.Errorf("Clone() shares nesting with original: %v", got)
	}
	if g.EdgeCount() != 3 {
		t.Errorf("Clone() shares tracking with original: %d edges", g.EdgeCount())
	}
	if !c.Has(StageSized) || c.Version() != g.Version() {
		t.Errorf("Clone() lost stage history: %v v%d", c.Stages(), c.Version())
	}
}

func TestStages(t *testing.T) {
	g := New()
	if g.Stages().String() != "none" {
		t.Errorf("Stages() = %v, want none", g.Stages())
	}
	g.MarkStage(StageSized)
	g.MarkStage(StageSolved)

	if !g.Has(StageSized | StageSolved) {
		t.Error("Has(sized|solved) = false, want true")
	}
	if g.Has(StageSlotted) {
		t.Error("Has(slotted) = true, want false")
	}
	if got := g.Stages().String(); got != "sized|solved" {
		t.Errorf("Stages().String() = %q, want %q", got, "sized|solved")
	}
	if g.Version() != 2 {
		t.Errorf("Version() = %d, want 2", g.Version())
	}
}

func TestCompareIDs(t *testing.T) {
	ids := []string{"10", "b", "2", "a", "1"}
	slices.SortFunc(ids, CompareIDs)
	want := []string{"1", "2", "10", "a", "b"}
	if !slices.Equal(ids, want) {
		t.Errorf("sorted = %v, want %v", ids, want)
	}
}

func TestHasPredicates(t *testing.T) {
	g := twoStepGraph(t)
	if g.HasWidths() || g.HasLayout() || g.HasBackup() {
		t.Fatal("fresh graph should have no widths, layouts or backups")
	}
	n, _ := g.Node("a")
	n.Layout = &Position{}
	if !g.HasLayout() {
		t.Error("HasLayout() = false, want true")
	}
	for _, n := range g.Nodes() {
		n.Width = 1
	}
	if !g.HasWidths() {
		t.Error("HasWidths() = false, want true")
	}
}
