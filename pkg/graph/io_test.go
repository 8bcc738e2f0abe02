package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

const sampleJSON = `{
  "N": {
    "1": {"t": 0, "l": 0},
    "2": {"t": 1, "l": 0, "w": 3},
    "3": {"t": 1, "l": 1, "layout": {"x": 1, "y": 2.5, "w": 0.25}},
    "4": {"t": 1, "l": 1, "layout": {"x": 1, "y": 4, "w": 0.5}, "layoutbackup": {"x": 1, "y": 4, "w": 0.5}}
  },
  "ET": {"0": {"1": ["2"]}, "1": {}},
  "EN": {"0": {}, "1": {"2": ["3", "4"]}}
}`

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	n2, _ := g.Node("2")
	if n2.Time != 1 || n2.Level != 0 || n2.Width != 3 {
		t.Errorf("node 2 = %+v, want t=1 l=0 w=3", n2)
	}
	n3, _ := g.Node("3")
	if n3.Layout == nil || n3.Layout.Y != 2.5 || n3.Backup != nil {
		t.Errorf("node 3 layout=%v backup=%v", n3.Layout, n3.Backup)
	}
	n4, _ := g.Node("4")
	if n4.Backup == nil || n4.Backup == n4.Layout {
		t.Errorf("node 4 backup must be present and independent: %p %p", n4.Backup, n4.Layout)
	}
	if got := g.TrackingLevels(); len(got) != 2 {
		t.Errorf("TrackingLevels() = %v, want two levels (empty level kept)", got)
	}
	if got := g.Children(1, "2"); len(got) != 2 || got[0] != "3" {
		t.Errorf("Children(1, 2) = %v, want [3 4]", got)
	}
}

func TestReadRejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
	}{
		{"malformed json", `{"N": [}`, errors.ErrCodeInvalidInput},
		{"non-integer level key", `{"N": {}, "ET": {"zero": {}}, "EN": {}}`, errors.ErrCodeInvalidInput},
		{"negative level key", `{"N": {}, "ET": {"-1": {}}, "EN": {}}`, errors.ErrCodeInvalidInput},
		{"non-integer time key", `{"N": {}, "ET": {}, "EN": {"1.0": {}}}`, errors.ErrCodeInvalidInput},
		{"negative node level", `{"N": {"a": {"t": 0, "l": -2}}, "ET": {}, "EN": {}}`, errors.ErrCodeInvalidInput},
		{"dangling tracking edge", `{"N": {"a": {"t": 0, "l": 0}}, "ET": {"0": {"a": ["b"]}}, "EN": {}}`, errors.ErrCodeStructural},
		{"dangling child", `{"N": {"a": {"t": 0, "l": 0}}, "ET": {}, "EN": {"0": {"a": ["x"]}}}`, errors.ErrCodeStructural},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Read() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("Read() code = %v, want %v (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g, err := Unmarshal([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	again, err := Unmarshal(first)
	if err != nil {
		t.Fatalf("Unmarshal(Marshal()) error: %v", err)
	}
	second, err := Marshal(again)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("Marshal() not stable across round trip:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(string(first), `"layoutbackup"`) {
		t.Error("Marshal() output missing layoutbackup key")
	}
}

func TestFileRoundTrip(t *testing.T) {
	g, err := Unmarshal([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	read, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if read.NodeCount() != g.NodeCount() || read.EdgeCount() != g.EdgeCount() {
		t.Errorf("ReadFile() = %d nodes / %d edges, want %d / %d",
			read.NodeCount(), read.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFile() on missing file should fail")
	}
}

func TestWrite(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	g.AddTimeStep(0)

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("Write() output should end with a newline: %q", buf.String())
	}
}
