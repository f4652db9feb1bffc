package parser

import (
	"os"

	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/tokenizer"
)

// Parser turns a token stream into a model.Graph.
// A Parser holds the node table and the current chain for a single graph,
// so a new one must be created for every parse.
type Parser struct {
	state    State
	directed bool
	name     string
	used     bool

	nodeIndex map[string]int // node name -> index into nodes
	chain     []int          // node indices of the statement being parsed

	nodes     []string
	adjacency [][]int
}

// New creates a parser in the Start state
func New() *Parser {
	return &Parser{
		state:     Start,
		nodeIndex: make(map[string]int),
	}
}

// Name returns the graph name read from the header, once parsed.
// It is not part of the decoded graph.
func (p *Parser) Name() string {
	return p.name
}

// State returns the current state of the parser
func (p *Parser) State() State {
	return p.state
}

// Parse consumes tokens until the closing bracket and returns the graph.
// The first fault stops the parse and no graph is returned.
func (p *Parser) Parse(tokens []tokenizer.Token) (*model.Graph, error) {
	if p.used {
		return nil, ErrParserUsed
	}
	p.used = true

	for i, tok := range tokens {
		if err := p.step(tok); err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Index = i
			}
			return nil, err
		}
	}

	if p.state != End {
		err := newSyntaxError(p.state, tokenizer.Token{Kind: tokenizer.EOF}, TruncatedInput, expected(p.state, p.directed))
		err.Index = len(tokens)
		return nil, err
	}

	return &model.Graph{
		IsDirected: p.directed,
		Nodes:      p.nodes,
		Adjacency:  p.adjacency,
	}, nil
}

// step applies a single token
func (p *Parser) step(tok tokenizer.Token) error {
	from := p.state
	if from == Start && tok.Kind == tokenizer.Digraph {
		p.directed = true
	}

	to, err := Transition(from, tok, p.directed)
	if err != nil {
		return err
	}

	switch {
	case from == ExpectGraphName:
		p.name = tok.Name
	case tok.Kind == tokenizer.Identifier:
		p.chain = append(p.chain, p.nodeIndexFor(tok.Name))
	case tok.Kind == tokenizer.Semicolon:
		p.flushChain()
	}

	p.state = to
	return nil
}

// nodeIndexFor returns the index of a node, registering it on first sight
func (p *Parser) nodeIndexFor(name string) int {
	if idx, ok := p.nodeIndex[name]; ok {
		return idx
	}
	idx := len(p.nodes)
	p.nodeIndex[name] = idx
	p.nodes = append(p.nodes, name)
	p.adjacency = append(p.adjacency, []int{})
	return idx
}

// flushChain turns the current chain into consecutive pairwise edges.
// Undirected edges are recorded at both endpoints.
func (p *Parser) flushChain() {
	for i := 0; i+1 < len(p.chain); i++ {
		from, to := p.chain[i], p.chain[i+1]
		p.adjacency[from] = append(p.adjacency[from], to)
		if !p.directed {
			p.adjacency[to] = append(p.adjacency[to], from)
		}
	}
	p.chain = p.chain[:0]
}

// ParseTokens parses an already tokenized graph with a fresh parser
func ParseTokens(tokens []tokenizer.Token) (*model.Graph, error) {
	return New().Parse(tokens)
}

// ParseString tokenizes and parses DOT text
func ParseString(text string) (*model.Graph, error) {
	return ParseTokens(tokenizer.Tokenize(text))
}

// ParseBytes tokenizes and parses DOT source
func ParseBytes(src []byte) (*model.Graph, error) {
	return ParseString(string(src))
}

// ParseFile reads and parses a DOT file.
// Read failures are returned as-is from os.ReadFile.
func ParseFile(path string) (*model.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	g, err := ParseBytes(src)
	if err != nil {
		logging.Debug("failed to decode graph", "path", path, "error", err)
		return nil, err
	}

	logging.Debug("decoded graph", "path", path, "nodes", len(g.Nodes), "directed", g.IsDirected)
	return g, nil
}
