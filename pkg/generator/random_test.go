package generator

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/ritzau/dotlite/pkg/parser"
)

func TestEdgeCount(t *testing.T) {
	tests := []struct {
		nodes     int
		connexity float64
		want      int
	}{
		{0, 0.5, 0},
		{1, 1, 0},
		{4, 1, 6},
		{4, 0.5, 3},
		{10, 0.1, 4},
		{1000, 0.1, 49950},
	}

	for _, tt := range tests {
		if got := EdgeCount(tt.nodes, tt.connexity); got != tt.want {
			t.Errorf("EdgeCount(%d, %g) = %d, want %d", tt.nodes, tt.connexity, got, tt.want)
		}
	}
}

func TestEdgesAreUniquePairs(t *testing.T) {
	for _, connexity := range []float64{0.1, 0.3, 0.8, 1} {
		pairs, err := Edges(40, connexity, 7)
		if err != nil {
			t.Fatalf("Edges() error: %v", err)
		}
		if len(pairs) != EdgeCount(40, connexity) {
			t.Errorf("connexity %g: got %d edges, want %d", connexity, len(pairs), EdgeCount(40, connexity))
		}

		seen := make(map[Pair]bool)
		for _, p := range pairs {
			if p.A >= p.B || p.A < 0 || p.B >= 40 {
				t.Errorf("bad pair %v", p)
			}
			if seen[p] {
				t.Errorf("duplicate pair %v", p)
			}
			seen[p] = true
		}
	}
}

func TestEdgesDeterministic(t *testing.T) {
	a, _ := Edges(30, 0.2, 42)
	b, _ := Edges(30, 0.2, 42)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("edge %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	for _, c := range []float64{-0.1, 1.5, math.NaN(), math.Inf(1)} {
		if _, err := Generate(10, c, 1); !errors.Is(err, ErrInvalidConnexity) {
			t.Errorf("Generate(10, %g) error = %v, want ErrInvalidConnexity", c, err)
		}
		if _, err := Edges(10, c, 1); !errors.Is(err, ErrInvalidConnexity) {
			t.Errorf("Edges(10, %g) error = %v, want ErrInvalidConnexity", c, err)
		}
	}
	for _, n := range []int{-1, 0} {
		if _, err := Generate(n, 0.5, 1); !errors.Is(err, ErrInvalidNodeCount) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidNodeCount", n, err)
		}
	}
}

func TestGenerateDecodes(t *testing.T) {
	text, err := Generate(50, 0.25, 3)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.HasPrefix(text, "graph graphname {\n") || !strings.HasSuffix(text, "}\n") {
		t.Errorf("unexpected framing:\n%s", text)
	}

	g, err := parser.ParseString(text)
	if err != nil {
		t.Fatalf("generated graph does not decode: %v", err)
	}
	if g.IsDirected {
		t.Error("generated graph should be undirected")
	}

	entries := 0
	for _, neighbors := range g.Adjacency {
		entries += len(neighbors)
	}
	if entries/2 != EdgeCount(50, 0.25) {
		t.Errorf("decoded %d edges, want %d", entries/2, EdgeCount(50, 0.25))
	}
}

func TestGenerateWithoutEdges(t *testing.T) {
	text, err := Generate(3, 0, 1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if want := "graph graphname {\n    0;\n    1;\n    2;\n}\n"; text != want {
		t.Errorf("Generate() = %q, want %q", text, want)
	}
}

func TestGenerateKeepsAllNodes(t *testing.T) {
	tests := []struct {
		nodes     int
		connexity float64
	}{
		{1, 0},
		{1, 1},
		{2, 0.4},
		{3, 0.2},
		{100, 0},
		{100, 0.0001},
		{30, 0.5},
		{12, 1},
	}

	for _, tt := range tests {
		text, err := Generate(tt.nodes, tt.connexity, 1)
		if err != nil {
			t.Fatalf("Generate(%d, %g) error: %v", tt.nodes, tt.connexity, err)
		}
		g, err := parser.ParseString(text)
		if err != nil {
			t.Errorf("Generate(%d, %g) does not decode: %v", tt.nodes, tt.connexity, err)
			continue
		}
		if len(g.Nodes) != tt.nodes {
			t.Errorf("Generate(%d, %g) decoded %d nodes", tt.nodes, tt.connexity, len(g.Nodes))
		}
		for i, name := range g.Nodes {
			if name != strconv.Itoa(i) {
				t.Errorf("node %d is named %q", i, name)
				break
			}
		}
		if got := len(g.Edges()); got != EdgeCount(tt.nodes, tt.connexity) {
			t.Errorf("Generate(%d, %g) decoded %d edges, want %d", tt.nodes, tt.connexity, got, EdgeCount(tt.nodes, tt.connexity))
		}
	}
}
