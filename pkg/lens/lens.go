package lens

import (
	"github.com/ritzau/dotlite/pkg/graph"
	"github.com/ritzau/dotlite/pkg/model"
)

// View is the part of a graph around a set of focused nodes
type View struct {
	Focus     []string       `json:"focus"`
	Depth     int            `json:"depth"`
	Graph     *model.Graph   `json:"graph"`
	Distances map[string]int `json:"distances"`
}

// Focus keeps the nodes at most depth edges away from a selected node,
// ignoring direction, and the edges between them. Node order and the order
// of the remaining adjacency entries are kept. A negative depth keeps
// everything reachable.
func Focus(g *model.Graph, selected []string, depth int) (*View, error) {
	dg, err := graph.FromModel(g)
	if err != nil {
		return nil, err
	}

	all, err := Distances(dg, selected)
	if err != nil {
		return nil, err
	}

	keep := make(map[int]int) // old index -> new index
	view := &View{
		Focus:     selected,
		Depth:     depth,
		Graph:     &model.Graph{IsDirected: g.IsDirected, Nodes: []string{}, Adjacency: [][]int{}},
		Distances: make(map[string]int),
	}
	for i, name := range g.Nodes {
		d, ok := all[name]
		if !ok || (depth >= 0 && d > depth) {
			continue
		}
		keep[i] = len(view.Graph.Nodes)
		view.Graph.Nodes = append(view.Graph.Nodes, name)
		view.Distances[name] = d
	}

	for i, neighbors := range g.Adjacency {
		if _, ok := keep[i]; !ok {
			continue
		}
		kept := []int{}
		for _, n := range neighbors {
			if idx, ok := keep[n]; ok {
				kept = append(kept, idx)
			}
		}
		view.Graph.Adjacency = append(view.Graph.Adjacency, kept)
	}

	return view, nil
}
