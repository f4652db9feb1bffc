package lens

import (
	"fmt"

	"github.com/ritzau/dotlite/pkg/graph"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

// Distances returns the number of edges between each node and the nearest
// selected node, ignoring edge direction. Nodes that cannot be reached are
// left out. Unknown selected names are an error.
func Distances(dg *graph.DotGraph, selected []string) (map[string]int, error) {
	var g traverse.Graph
	if dg.Directed() {
		g = gonum.Undirect{G: dg.DirectedGraph()}
	} else {
		g = dg.UndirectedGraph()
	}

	distances := make(map[string]int)
	for _, name := range selected {
		start, ok := dg.Node(name)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", name)
		}

		var bf traverse.BreadthFirst
		bf.Walk(g, start, func(n gonum.Node, depth int) bool {
			node, ok := dg.NodeByID(n.ID())
			if !ok {
				return false
			}
			if d, seen := distances[node.Name]; !seen || depth < d {
				distances[node.Name] = depth
			}
			return false
		})
	}

	return distances, nil
}
