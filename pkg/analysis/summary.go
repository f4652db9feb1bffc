package analysis

import (
	"fmt"
	"sort"

	"github.com/ritzau/dotlite/pkg/cycles"
	"github.com/ritzau/dotlite/pkg/graph"
	"github.com/ritzau/dotlite/pkg/model"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// Summary describes the shape of a decoded graph
type Summary struct {
	Directed      bool     `json:"directed"`
	Nodes         int      `json:"nodes"`
	Edges         int      `json:"edges"`
	SelfLoops     []string `json:"self_loops"`
	Isolated      []string `json:"isolated"`
	MaxDegreeNode string   `json:"max_degree_node,omitempty"`
	MaxDegree     int      `json:"max_degree"`

	// Undirected graphs only
	Components [][]string `json:"components,omitempty"`

	// Directed graphs only
	Acyclic          bool           `json:"acyclic"`
	TopologicalOrder []string       `json:"topological_order,omitempty"`
	Cycles           []cycles.Cycle `json:"cycles,omitempty"`
}

// Summarize computes node, edge and connectivity statistics for a decoded graph
func Summarize(g *model.Graph) (*Summary, error) {
	dg, err := graph.FromModel(g)
	if err != nil {
		return nil, fmt.Errorf("building graph view: %w", err)
	}

	s := &Summary{
		Directed:  g.IsDirected,
		Nodes:     len(g.Nodes),
		Edges:     dg.EdgeCount(),
		SelfLoops: append([]string{}, dg.SelfLoops()...),
		Isolated:  isolated(g),
	}

	for i, name := range g.Nodes {
		if d := len(g.Adjacency[i]); d > s.MaxDegree {
			s.MaxDegree = d
			s.MaxDegreeNode = name
		}
	}

	if !g.IsDirected {
		s.Components = components(dg)
		return s, nil
	}

	found, err := cycles.FindCycles(dg)
	if err != nil {
		return nil, err
	}
	s.Cycles = found

	order, err := topo.SortStabilized(dg.DirectedGraph(), byID)
	if err == nil && len(s.SelfLoops) == 0 {
		s.Acyclic = true
		s.TopologicalOrder = names(dg, order)
	}

	return s, nil
}

// isolated returns nodes that take part in no edge at all
func isolated(g *model.Graph) []string {
	touched := make([]bool, len(g.Nodes))
	for from, neighbors := range g.Adjacency {
		for _, to := range neighbors {
			touched[from] = true
			touched[to] = true
		}
	}

	out := make([]string, 0)
	for i, name := range g.Nodes {
		if !touched[i] {
			out = append(out, name)
		}
	}
	return out
}

// components returns connected components, each in node order, ordered by
// their first node
func components(dg *graph.DotGraph) [][]string {
	ccs := topo.ConnectedComponents(dg.UndirectedGraph())
	for _, cc := range ccs {
		byID(cc)
	}
	sort.Slice(ccs, func(i, j int) bool { return ccs[i][0].ID() < ccs[j][0].ID() })

	out := make([][]string, 0, len(ccs))
	for _, cc := range ccs {
		out = append(out, names(dg, cc))
	}
	return out
}

func byID(nodes []gonum.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

func names(dg *graph.DotGraph, nodes []gonum.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if node, ok := dg.NodeByID(n.ID()); ok {
			out = append(out, node.Name)
		}
	}
	return out
}
