package graph

import (
	"fmt"

	"github.com/ritzau/dotlite/pkg/model"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is a decoded DOT node inside the gonum graph.
// Its ID is the node's index in the decoded graph.
type Node struct {
	Index int
	Name  string
}

// ID implements gonum graph.Node
func (n Node) ID() int64 { return int64(n.Index) }

// DOTID returns the node name, as used by gonum's DOT encoder
func (n Node) DOTID() string { return n.Name }

// DotGraph is a gonum view of a decoded graph. Parallel edges are collapsed
// and self loops are kept aside because gonum simple graphs cannot hold them.
type DotGraph struct {
	src       *model.Graph
	directed  *simple.DirectedGraph
	undirect  *simple.UndirectedGraph
	nodes     []Node
	ids       map[string]int
	selfLoops []string
}

// FromModel builds the gonum view of a decoded graph.
// It fails if the graph breaks the Nodes/Adjacency invariants.
func FromModel(g *model.Graph) (*DotGraph, error) {
	if len(g.Nodes) != len(g.Adjacency) {
		return nil, fmt.Errorf("graph has %d nodes but %d adjacency lists", len(g.Nodes), len(g.Adjacency))
	}

	dg := &DotGraph{
		src:   g,
		nodes: make([]Node, len(g.Nodes)),
		ids:   make(map[string]int, len(g.Nodes)),
	}
	if g.IsDirected {
		dg.directed = simple.NewDirectedGraph()
	} else {
		dg.undirect = simple.NewUndirectedGraph()
	}

	for i, name := range g.Nodes {
		if _, dup := dg.ids[name]; dup {
			return nil, fmt.Errorf("duplicate node name %q", name)
		}
		n := Node{Index: i, Name: name}
		dg.nodes[i] = n
		dg.ids[name] = i
		dg.builder().AddNode(n)
	}

	loops := make(map[int]bool)
	for from, neighbors := range g.Adjacency {
		for _, to := range neighbors {
			if to < 0 || to >= len(g.Nodes) {
				return nil, fmt.Errorf("node %q has out of range neighbor %d", g.Nodes[from], to)
			}
			if from == to {
				if !loops[from] {
					loops[from] = true
					dg.selfLoops = append(dg.selfLoops, g.Nodes[from])
				}
				continue
			}
			if dg.hasEdge(from, to) {
				continue
			}
			dg.builder().SetEdge(simple.Edge{F: dg.nodes[from], T: dg.nodes[to]})
		}
	}

	return dg, nil
}

type builder interface {
	AddNode(gonum.Node)
	SetEdge(gonum.Edge)
}

func (dg *DotGraph) builder() builder {
	if dg.directed != nil {
		return dg.directed
	}
	return dg.undirect
}

func (dg *DotGraph) hasEdge(from, to int) bool {
	if dg.directed != nil {
		return dg.directed.HasEdgeFromTo(int64(from), int64(to))
	}
	return dg.undirect.HasEdgeBetween(int64(from), int64(to))
}

// Directed reports whether the decoded graph was a digraph
func (dg *DotGraph) Directed() bool {
	return dg.directed != nil
}

// Graph returns the underlying gonum graph
func (dg *DotGraph) Graph() gonum.Graph {
	if dg.directed != nil {
		return dg.directed
	}
	return dg.undirect
}

// DirectedGraph returns the gonum directed graph, or nil for undirected input
func (dg *DotGraph) DirectedGraph() gonum.Directed {
	if dg.directed == nil {
		return nil
	}
	return dg.directed
}

// UndirectedGraph returns the gonum undirected graph, or nil for directed input
func (dg *DotGraph) UndirectedGraph() gonum.Undirected {
	if dg.undirect == nil {
		return nil
	}
	return dg.undirect
}

// Model returns the decoded graph this view was built from
func (dg *DotGraph) Model() *model.Graph {
	return dg.src
}

// Node returns a node by name
func (dg *DotGraph) Node(name string) (Node, bool) {
	idx, ok := dg.ids[name]
	if !ok {
		return Node{}, false
	}
	return dg.nodes[idx], true
}

// NodeByID returns a node by its gonum ID
func (dg *DotGraph) NodeByID(id int64) (Node, bool) {
	if id < 0 || id >= int64(len(dg.nodes)) {
		return Node{}, false
	}
	return dg.nodes[id], true
}

// Names returns node names in declaration order
func (dg *DotGraph) Names() []string {
	names := make([]string, len(dg.nodes))
	for i, n := range dg.nodes {
		names[i] = n.Name
	}
	return names
}

// Edges returns the declared edges as [from, to] name pairs, in the order of
// model.Graph.Edges
func (dg *DotGraph) Edges() [][2]string {
	var edges [][2]string
	for _, e := range dg.src.Edges() {
		edges = append(edges, [2]string{dg.nodes[e.From].Name, dg.nodes[e.To].Name})
	}
	return edges
}

// EdgeCount returns the number of declared edges, parallel edges included
func (dg *DotGraph) EdgeCount() int {
	total := 0
	for _, neighbors := range dg.src.Adjacency {
		total += len(neighbors)
	}
	if dg.src.IsDirected {
		return total
	}
	return total / 2
}

// Neighbors returns the distinct neighbors of a node (successors for
// directed graphs), excluding self loops, in gonum iteration order
func (dg *DotGraph) Neighbors(name string) []string {
	idx, ok := dg.ids[name]
	if !ok {
		return nil
	}

	var names []string
	it := dg.Graph().From(int64(idx))
	for it.Next() {
		if n, ok := dg.NodeByID(it.Node().ID()); ok {
			names = append(names, n.Name)
		}
	}
	return names
}

// Degree returns the number of adjacency entries of a node, which for
// directed graphs is its out-degree
func (dg *DotGraph) Degree(name string) int {
	idx, ok := dg.ids[name]
	if !ok {
		return 0
	}
	return len(dg.src.Adjacency[idx])
}

// SelfLoops returns the names of nodes with an edge to themselves
func (dg *DotGraph) SelfLoops() []string {
	return dg.selfLoops
}
