package graph

import (
	"cmp"
	"strconv"
	"strings"
)

// Position is the layout state of a node along the layout axes.
//
// X is the time step itself, Y is the center of the node along the axis
// orthogonal to time, and W is the half-extent (radius) of the node around Y.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
}

// Clone returns an independent copy of p. Clone of nil is nil.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Top returns the smallest y covered by the node.
func (p Position) Top() float64 { return p.Y - p.W }

// Bottom returns the largest y covered by the node.
func (p Position) Bottom() float64 { return p.Y + p.W }

// Node is one visual element at one (time step, level) pair.
//
// Width is the structural size aggregated from the containment hierarchy; a
// zero Width means "not computed yet". Layout holds the current position and
// Backup a previously supplied or solved position. Clone keeps the two fully
// independent.
type Node struct {
	ID     string
	Time   int
	Level  int
	Width  float64
	Layout *Position
	Backup *Position
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Layout = n.Layout.Clone()
	c.Backup = n.Backup.Clone()
	return &c
}

// Edge is a tracking edge on a fixed nesting level.
type Edge struct {
	Level int
	From  string
	To    string
}

// Stage is a bit set of annotations a layout pass has added to a graph.
type Stage uint8

const (
	// StageSized marks that every node carries a structural width.
	StageSized Stage = 1 << iota
	// StageBackedUp marks that layouts were copied into backups.
	StageBackedUp
	// StageRestored marks that backups were copied back into layouts.
	StageRestored
	// StageSolved marks that the external solver positions were imported.
	StageSolved
	// StageSlotted marks that children were placed into parent slots.
	StageSlotted
)

var stageNames = []struct {
	s    Stage
	name string
}{
	{StageSized, "sized"},
	{StageBackedUp, "backed-up"},
	{StageRestored, "restored"},
	{StageSolved, "solved"},
	{StageSlotted, "slotted"},
}

// String lists the set stages, e.g. "sized|solved".
func (s Stage) String() string {
	var parts []string
	for _, sn := range stageNames {
		if s&sn.s != 0 {
			parts = append(parts, sn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// CompareIDs orders node identifiers naturally: ids that parse as integers
// sort numerically and before all other ids, which sort lexicographically.
func CompareIDs(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
