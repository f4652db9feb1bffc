package cycles

import (
	"errors"

	"github.com/ritzau/dotlite/pkg/graph"
)

// ErrUndirected is returned when cycle detection is asked of an undirected graph
var ErrUndirected = errors.New("cycle detection needs a directed graph")

// Cycle is a set of nodes that can all reach each other
type Cycle struct {
	Nodes []string `json:"nodes"`
}

// FindCycles returns the strongly connected components of a directed
// graph that contain a cycle: components of two or more nodes, plus one
// single-node cycle per self loop.
func FindCycles(dg *graph.DotGraph) ([]Cycle, error) {
	directed := dg.DirectedGraph()
	if directed == nil {
		return nil, ErrUndirected
	}

	cycles := make([]Cycle, 0)
	for _, scc := range NewTarjanSCC(directed).FindSCCs() {
		names := make([]string, 0, len(scc))
		for _, id := range scc {
			if n, ok := dg.NodeByID(id); ok {
				names = append(names, n.Name)
			}
		}
		cycles = append(cycles, Cycle{Nodes: names})
	}

	for _, name := range dg.SelfLoops() {
		cycles = append(cycles, Cycle{Nodes: []string{name}})
	}

	return cycles, nil
}
