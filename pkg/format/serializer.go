package format

import (
	"fmt"
	"strings"

	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/tokenizer"
)

// DefaultName is used when the requested graph name would not decode as a
// single identifier
const DefaultName = "G"

// Serialize converts a decoded graph back to DOT text that the decoder
// accepts. Every node is declared first as a lone statement, which fixes the
// node order, followed by one statement per edge. Decoding the result gives
// back the same graph; for undirected graphs the order inside an adjacency
// list may differ.
func Serialize(g *model.Graph, name string) string {
	var b strings.Builder

	keyword, op := "graph", "--"
	if g.IsDirected {
		keyword, op = "digraph", "->"
	}

	if !isIdentifier(name) {
		name = DefaultName
	}
	fmt.Fprintf(&b, "%s %s {\n", keyword, name)

	for _, node := range g.Nodes {
		fmt.Fprintf(&b, "    %s;\n", node)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "    %s %s %s;\n", g.Nodes[e.From], op, g.Nodes[e.To])
	}

	b.WriteString("}\n")
	return b.String()
}

func isIdentifier(name string) bool {
	tokens := tokenizer.Tokenize(name)
	return len(tokens) == 1 && tokens[0].Kind == tokenizer.Identifier
}
