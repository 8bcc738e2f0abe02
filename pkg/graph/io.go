package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

// wireGraph is the serialized contract {N, ET, EN}.
type wireGraph struct {
	N  map[string]wireNode           `json:"N"`
	ET map[string]map[string][]string `json:"ET"`
	EN map[string]map[string][]string `json:"EN"`
}

type wireNode struct {
	T      int       `json:"t"`
	L      int       `json:"l"`
	W      float64   `json:"w,omitempty"`
	Layout *Position `json:"layout,omitempty"`
	Backup *Position `json:"layoutbackup,omitempty"`
}

// Read decodes a JSON nested graph from r and validates it.
//
// Read returns INVALID_INPUT for malformed JSON, malformed level or time-step
// keys and invalid node ids, and STRUCTURAL_INCONSISTENCY for dangling
// references or containment cycles (see [Graph.Validate]). Read does not
// close r.
func Read(r io.Reader) (*Graph, error) {
	var data wireGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode graph")
	}
	g, err := fromWire(data)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Unmarshal decodes and validates a JSON nested graph.
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile reads and validates the nested graph stored at path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Marshal encodes g in the wire format. Map keys are emitted sorted, so equal
// graphs always produce equal bytes.
func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(toWire(g), "", "  ")
}

// Write encodes g to w in the wire format.
func Write(w io.Writer, g *Graph) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteFile writes g to path in the wire format.
func WriteFile(g *Graph, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func fromWire(data wireGraph) (*Graph, error) {
	g := New()

	for _, id := range slices.SortedFunc(maps.Keys(data.N), CompareIDs) {
		wn := data.N[id]
		n := Node{ID: id, Time: wn.T, Level: wn.L, Width: wn.W, Layout: wn.Layout, Backup: wn.Backup}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	for key, bySource := range data.ET {
		level, err := errors.ParseLevelKey(key)
		if err != nil {
			return nil, err
		}
		g.AddTrackingLevel(level)
		for _, src := range slices.SortedFunc(maps.Keys(bySource), CompareIDs) {
			for _, dst := range bySource[src] {
				g.AddTrackingEdge(level, src, dst)
			}
		}
	}

	for key, tree := range data.EN {
		t, err := errors.ParseTimeKey(key)
		if err != nil {
			return nil, err
		}
		g.AddTimeStep(t)
		for parent, children := range tree {
			g.SetChildren(t, parent, children)
		}
	}

	return g, nil
}

func toWire(g *Graph) wireGraph {
	out := wireGraph{
		N:  make(map[string]wireNode, len(g.nodes)),
		ET: make(map[string]map[string][]string, len(g.tracking)),
		EN: make(map[string]map[string][]string, len(g.nesting)),
	}
	for id, n := range g.nodes {
		out.N[id] = wireNode{T: n.Time, L: n.Level, W: n.Width, Layout: n.Layout, Backup: n.Backup}
	}
	for level, bySource := range g.tracking {
		out.ET[strconv.Itoa(level)] = cloneAdjacency(bySource)
	}
	for t, tree := range g.nesting {
		out.EN[strconv.Itoa(t)] = cloneAdjacency(tree)
	}
	return out
}
