package layout

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
)

// Mismatch is one position where the solved level-0 order differs from the
// backup order.
type Mismatch struct {
	Time   int    `json:"time"`
	Index  int    `json:"index"`
	Backup string `json:"backup"`
	Solved string `json:"solved"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("time step %d, index %d: backup %s, solved %s", m.Time, m.Index, m.Backup, m.Solved)
}

// OrderReport lists every order mismatch, by time step then index.
type OrderReport struct {
	Mismatches []Mismatch `json:"mismatches"`
}

// Consistent reports whether no mismatch was found.
func (r OrderReport) Consistent() bool { return len(r.Mismatches) == 0 }

// Err returns nil for a consistent report and an ORDER_MISMATCH error
// naming the first mismatch otherwise.
func (r OrderReport) Err() error {
	if r.Consistent() {
		return nil
	}
	return errors.New(errors.ErrCodeOrderMismatch, "%d order mismatches, first at %s", len(r.Mismatches), r.Mismatches[0])
}

// CheckOrder compares, for every time step, the level-0 node order by
// layout y with the order by backup y. Both orders are ascending; equal
// coordinates keep natural id order.
//
// A level-0 node without layout or backup is LAYOUT_INCOMPLETE.
func CheckOrder(g *graph.Graph) (OrderReport, error) {
	var report OrderReport
	for _, t := range g.TimeSteps() {
		nodes := g.NodesAt(t, 0)
		for _, n := range nodes {
			if n.Layout == nil {
				return OrderReport{}, errors.New(errors.ErrCodeLayoutIncomplete,
					"node %s (time step %d): no layout to check", n.ID, n.Time)
			}
			if n.Backup == nil {
				return OrderReport{}, errors.New(errors.ErrCodeLayoutIncomplete,
					"node %s (time step %d): no layout backup to check against", n.ID, n.Time)
			}
		}

		solved := orderBy(nodes, func(n *graph.Node) float64 { return n.Layout.Y })
		backup := orderBy(nodes, func(n *graph.Node) float64 { return n.Backup.Y })
		for i := range solved {
			if solved[i] != backup[i] {
				report.Mismatches = append(report.Mismatches, Mismatch{Time: t, Index: i, Backup: backup[i], Solved: solved[i]})
			}
		}
	}
	return report, nil
}

func orderBy(nodes []*graph.Node, y func(*graph.Node) float64) []string {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *graph.Node) int {
		return cmp.Compare(y(a), y(b))
	})
	ids := make([]string, len(sorted))
	for i, n := range sorted {
		ids[i] = n.ID
	}
	return ids
}
