package solver

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/ntgraph/pkg/ranked"
)

// ToDOT converts a ranked graph to Graphviz DOT format.
//
// Node ids are replaced by synthetic names (n0, n1, ...) so arbitrary ids
// never need quoting; the returned map translates names back to ids. Ordered
// ranks emit their invisible chain inside the rank group, as dot only honors
// in-rank order for flat edges declared there.
func ToDOT(g *ranked.Graph) (string, map[string]string) {
	names := make(map[string]string, len(g.Nodes))
	ids := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		name := "n" + strconv.Itoa(i)
		names[n.ID] = name
		ids[name] = n.ID
	}
	nameOf := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return strconv.Quote(id)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph g {\n")
	buf.WriteString("  rankdir=LR;\n")
	if g.NodeSep > 0 {
		fmt.Fprintf(&buf, "  nodesep=%s;\n", fmtFloat(g.NodeSep))
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %s [shape=box, fixedsize=true, height=%s];\n", nameOf(n.ID), fmtFloat(n.Extent))
	}

	buf.WriteString("\n")
	for _, r := range g.Ranks {
		parts := make([]string, len(r.Nodes))
		for i, id := range r.Nodes {
			parts[i] = nameOf(id)
		}
		switch {
		case r.Ordered && len(parts) > 1:
			fmt.Fprintf(&buf, "  {rank=same; %s [style=invis];}\n", strings.Join(parts, " -> "))
		default:
			fmt.Fprintf(&buf, "  {rank=same; %s;}\n", strings.Join(parts, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Invisible {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [weight=%d];\n", nameOf(e.From), nameOf(e.To), e.Weight)
	}

	buf.WriteString("}\n")
	return buf.String(), ids
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
