package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ritzau/dotlite/pkg/analysis"
	"github.com/ritzau/dotlite/pkg/batch"
	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/parser"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// PrintGraph prints a decoded graph as a node list with neighbors
func PrintGraph(w io.Writer, name string, g *model.Graph) {
	kind := "undirected"
	arrow := "--"
	if g.IsDirected {
		kind = "directed"
		arrow = "->"
	}

	bold.Fprintf(w, "Graph %s\n", name)
	fmt.Fprintf(w, "Kind: %s\n", kind)
	fmt.Fprintf(w, "Nodes: %d\n", len(g.Nodes))
	fmt.Fprintln(w)

	for i, node := range g.Nodes {
		cyan.Fprintf(w, "  %d %s", i, node)
		if len(g.Adjacency[i]) == 0 {
			fmt.Fprintln(w)
			continue
		}
		neighbors := make([]string, len(g.Adjacency[i]))
		for j, n := range g.Adjacency[i] {
			neighbors[j] = g.Nodes[n]
		}
		fmt.Fprintf(w, " %s %s\n", arrow, strings.Join(neighbors, ", "))
	}
}

// PrintBatch prints one line per decoded file and a closing tally.
// It returns the number of files that failed.
func PrintBatch(w io.Writer, results []batch.Result) int {
	failed := 0
	for _, r := range results {
		if r.OK() {
			green.Fprint(w, "✓ ")
			fmt.Fprintf(w, "%s (%d nodes)\n", r.Path, len(r.Graph.Nodes))
			continue
		}
		failed++
		red.Fprint(w, "✗ ")
		fmt.Fprintf(w, "%s\n", r.Path)
		yellow.Fprintf(w, "    %s\n", describeError(r.Err))
	}

	fmt.Fprintln(w)
	if failed == 0 {
		green.Fprintf(w, "All %d file(s) decoded\n", len(results))
	} else {
		red.Fprintf(w, "%d of %d file(s) failed\n", failed, len(results))
	}
	return failed
}

func describeError(err error) string {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s (token %d)", se.Error(), se.Index)
	}
	return err.Error()
}

// PrintSummary prints the analysis of a graph
func PrintSummary(w io.Writer, s *analysis.Summary) {
	bold.Fprintln(w, "Graph Summary")
	bold.Fprintln(w, "=============")
	fmt.Fprintf(w, "Nodes: %d\n", s.Nodes)
	fmt.Fprintf(w, "Edges: %d\n", s.Edges)
	if s.MaxDegreeNode != "" {
		fmt.Fprintf(w, "Max degree: %s (%d)\n", s.MaxDegreeNode, s.MaxDegree)
	}
	printList(w, "Isolated", s.Isolated)
	printList(w, "Self loops", s.SelfLoops)

	if !s.Directed {
		cyan.Fprintf(w, "Connected components: %d\n", len(s.Components))
		for i, cc := range s.Components {
			fmt.Fprintf(w, "  %d: %s\n", i+1, strings.Join(cc, ", "))
		}
		return
	}

	if s.Acyclic {
		green.Fprintln(w, "✓ Acyclic")
		fmt.Fprintf(w, "Topological order: %s\n", strings.Join(s.TopologicalOrder, ", "))
		return
	}

	red.Fprintf(w, "Cycles: %d\n", len(s.Cycles))
	for _, c := range s.Cycles {
		yellow.Fprintf(w, "  %s\n", strings.Join(c.Nodes, " -> "))
	}
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	yellow.Fprintf(w, "%s: %s\n", label, strings.Join(items, ", "))
}

// PrintTiming prints benchmark results
func PrintTiming(w io.Writer, t batch.Timing) {
	bold.Fprintf(w, "Decoded %s %d times (%d nodes)\n", t.Path, t.Iterations, t.Nodes)
	fmt.Fprintf(w, "  min:   %v\n", t.Min)
	cyan.Fprintf(w, "  mean:  %v\n", t.Mean)
	fmt.Fprintf(w, "  max:   %v\n", t.Max)
	fmt.Fprintf(w, "  total: %v\n", t.Total)
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
