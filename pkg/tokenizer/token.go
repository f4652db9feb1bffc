package tokenizer

import "fmt"

// Kind identifies the type of a token
type Kind int

const (
	// EOF marks the end of the token stream. No word ever classifies as EOF;
	// it only appears in errors reporting truncated input.
	EOF              Kind = iota
	Graph                 // graph
	Digraph               // digraph
	LeftBracket           // {
	RightBracket          // }
	Semicolon             // ;
	DirectedEdgeOp        // ->
	UndirectedEdgeOp      // --
	Identifier            // any other word
)

var kindNames = map[Kind]string{
	EOF:              "end of input",
	Graph:            "'graph'",
	Digraph:          "'digraph'",
	LeftBracket:      "'{'",
	RightBracket:     "'}'",
	Semicolon:        "';'",
	DirectedEdgeOp:   "'->'",
	UndirectedEdgeOp: "'--'",
	Identifier:       "identifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a classified word. Name is only set for identifiers.
type Token struct {
	Kind Kind
	Name string
}

func (t Token) String() string {
	if t.Kind == Identifier {
		return fmt.Sprintf("identifier %q", t.Name)
	}
	return t.Kind.String()
}

// keywords maps the fixed keyword and operator words to their kinds
var keywords = map[string]Kind{
	"graph":   Graph,
	"digraph": Digraph,
	"{":       LeftBracket,
	"}":       RightBracket,
	";":       Semicolon,
	"->":      DirectedEdgeOp,
	"--":      UndirectedEdgeOp,
}
