package lens

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ritzau/dotlite/pkg/model"
)

// GraphDiff is the difference between two versions of a graph.
// Edges are "from->to" keys ("a--b" with the smaller name first for
// undirected graphs); a parallel edge added or removed appears once per copy.
type GraphDiff struct {
	AddedNodes      []string `json:"added_nodes"`
	RemovedNodes    []string `json:"removed_nodes"`
	AddedEdges      []string `json:"added_edges"`
	RemovedEdges    []string `json:"removed_edges"`
	DirectedChanged bool     `json:"directed_changed"`
}

// Empty reports whether the two versions are the same graph up to
// adjacency order
func (d *GraphDiff) Empty() bool {
	return !d.DirectedChanged &&
		len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// Compare computes what changed from before to after. A nil before graph
// counts as empty.
func Compare(before, after *model.Graph) *GraphDiff {
	if before == nil {
		before = &model.Graph{IsDirected: after.IsDirected}
	}

	diff := &GraphDiff{
		AddedNodes:      []string{},
		RemovedNodes:    []string{},
		AddedEdges:      []string{},
		RemovedEdges:    []string{},
		DirectedChanged: before.IsDirected != after.IsDirected,
	}

	beforeNodes := make(map[string]bool, len(before.Nodes))
	for _, n := range before.Nodes {
		beforeNodes[n] = true
	}
	afterNodes := make(map[string]bool, len(after.Nodes))
	for _, n := range after.Nodes {
		afterNodes[n] = true
		if !beforeNodes[n] {
			diff.AddedNodes = append(diff.AddedNodes, n)
		}
	}
	for _, n := range before.Nodes {
		if !afterNodes[n] {
			diff.RemovedNodes = append(diff.RemovedNodes, n)
		}
	}

	beforeEdges, afterEdges := edgeCounts(before), edgeCounts(after)
	for key, count := range afterEdges {
		for i := beforeEdges[key]; i < count; i++ {
			diff.AddedEdges = append(diff.AddedEdges, key)
		}
	}
	for key, count := range beforeEdges {
		for i := afterEdges[key]; i < count; i++ {
			diff.RemovedEdges = append(diff.RemovedEdges, key)
		}
	}
	sort.Strings(diff.AddedEdges)
	sort.Strings(diff.RemovedEdges)

	return diff
}

func edgeCounts(g *model.Graph) map[string]int {
	counts := make(map[string]int)
	for _, e := range g.Edges() {
		counts[edgeKey(g, e)]++
	}
	return counts
}

func edgeKey(g *model.Graph, e model.Edge) string {
	from, to := g.Nodes[e.From], g.Nodes[e.To]
	if g.IsDirected {
		return from + "->" + to
	}
	if to < from {
		from, to = to, from
	}
	return from + "--" + to
}

// Hash returns a content hash of a graph, used as its HTTP entity tag
func Hash(g *model.Graph) string {
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
