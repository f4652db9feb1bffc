package model

// Graph is the decoded form of a DOT file.
// It is a plain value: Nodes[i] is the name of node i and Adjacency[i] lists
// the neighbor indices of node i in the order the edges were declared.
// Parallel edges are kept, so the adjacency behaves like a multigraph.
type Graph struct {
	IsDirected bool     `json:"is_directed"`
	Nodes      []string `json:"nodes"`
	Adjacency  [][]int  `json:"adjacency"`
}

// Edge is a declared edge between two node indices
type Edge struct {
	From int
	To   int
}

// Edges returns the declared edges grouped by source node in node order and
// in adjacency order within a node. Parallel edges are kept. An undirected
// edge sits in two adjacency lists (twice in one list for a self loop) and is
// returned once, from the endpoint listed first.
func (g *Graph) Edges() []Edge {
	var edges []Edge

	if g.IsDirected {
		for from, neighbors := range g.Adjacency {
			for _, to := range neighbors {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
		return edges
	}

	// Mirror entries still owed, keyed by (from, to)
	owed := make(map[Edge]int)
	for from, neighbors := range g.Adjacency {
		for _, to := range neighbors {
			e := Edge{From: from, To: to}
			if owed[e] > 0 {
				owed[e]--
				continue
			}
			owed[Edge{From: to, To: from}]++
			edges = append(edges, e)
		}
	}
	return edges
}
