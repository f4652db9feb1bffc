package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// GraphName is the name written into generated graphs
const GraphName = "graphname"

var (
	// ErrInvalidConnexity is returned for a connexity outside [0, 1]
	ErrInvalidConnexity = errors.New("connexity must be between 0 and 1")

	// ErrInvalidNodeCount is returned for fewer than one node, since a graph
	// with an empty body does not decode
	ErrInvalidNodeCount = errors.New("node count must be at least 1")
)

// Pair is an undirected edge between node numbers, with A < B
type Pair struct {
	A int
	B int
}

// EdgeCount returns how many edges a graph of the given size and connexity
// gets: connexity times the n(n-1)/2 possible edges, rounded down
func EdgeCount(nodes int, connexity float64) int {
	return int(connexity * float64(nodes*(nodes-1)/2))
}

// Edges picks EdgeCount(nodes, connexity) distinct unordered pairs of
// distinct nodes. The same seed always gives the same edges.
func Edges(nodes int, connexity float64, seed uint64) ([]Pair, error) {
	if nodes < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeCount, nodes)
	}
	// Written negated so NaN is rejected too
	if !(connexity >= 0 && connexity <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidConnexity, connexity)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	want := EdgeCount(nodes, connexity)
	total := nodes * (nodes - 1) / 2

	// Dense graphs shuffle the full pair list instead of rejecting repeats
	if want > total/2 {
		all := make([]Pair, 0, total)
		for a := 0; a < nodes; a++ {
			for b := a + 1; b < nodes; b++ {
				all = append(all, Pair{A: a, B: b})
			}
		}
		rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		return all[:want], nil
	}

	seen := make(map[Pair]bool, want)
	pairs := make([]Pair, 0, want)
	for len(pairs) < want {
		a, b := rng.IntN(nodes), rng.IntN(nodes)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		p := Pair{A: a, B: b}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Generate writes a random undirected graph as DOT text. Nodes are named
// "0" to "nodes-1" and each is declared on its own line before the edges,
// so isolated nodes survive and the body is never empty.
func Generate(nodes int, connexity float64, seed uint64) (string, error) {
	pairs, err := Edges(nodes, connexity, seed)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("graph " + GraphName + " {\n")
	for i := 0; i < nodes; i++ {
		b.WriteString("    ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(";\n")
	}
	for _, p := range pairs {
		b.WriteString("    ")
		b.WriteString(strconv.Itoa(p.A))
		b.WriteString(" -- ")
		b.WriteString(strconv.Itoa(p.B))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}
