package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/tokenizer"
)

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *model.Graph
	}{
		{
			name:  "undirected chain and branch",
			input: "graph g { a -- b -- c; b -- d; }",
			want: &model.Graph{
				IsDirected: false,
				Nodes:      []string{"a", "b", "c", "d"},
				Adjacency:  [][]int{{1}, {0, 2, 3}, {1}, {1}},
			},
		},
		{
			name:  "directed chain",
			input: "digraph g { a -> b -> c; }",
			want: &model.Graph{
				IsDirected: true,
				Nodes:      []string{"a", "b", "c"},
				Adjacency:  [][]int{{1}, {2}, {}},
			},
		},
		{
			name:  "lone node",
			input: "graph g { x; }",
			want: &model.Graph{
				Nodes:     []string{"x"},
				Adjacency: [][]int{{}},
			},
		},
		{
			name:  "directed sample file",
			input: "digraph MyGraph {\n    a -> b;\n    b -> c;\n    b -> d;\n}\n",
			want: &model.Graph{
				IsDirected: true,
				Nodes:      []string{"a", "b", "c", "d"},
				Adjacency:  [][]int{{1}, {2, 3}, {}, {}},
			},
		},
		{
			name:  "parallel edges kept",
			input: "graph g { a -- b; a -- b; }",
			want: &model.Graph{
				Nodes:     []string{"a", "b"},
				Adjacency: [][]int{{1, 1}, {0, 0}},
			},
		},
		{
			name:  "self loop undirected",
			input: "graph g { a -- a; }",
			want: &model.Graph{
				Nodes:     []string{"a"},
				Adjacency: [][]int{{0, 0}},
			},
		},
		{
			name:  "no whitespace around semicolons",
			input: "digraph g { a -> b;b -> a;}",
			want: &model.Graph{
				IsDirected: true,
				Nodes:      []string{"a", "b"},
				Adjacency:  [][]int{{1}, {0}},
			},
		},
		{
			name:  "keyword-like node names",
			input: "digraph graphs { node -> edge; }",
			want: &model.Graph{
				IsDirected: true,
				Nodes:      []string{"node", "edge"},
				Adjacency:  [][]int{{1}, {}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNodeIndexIsStable(t *testing.T) {
	g, err := ParseString("graph g { a -- b; c -- a; b -- c -- a; d; a; }")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	wantNodes := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(g.Nodes, wantNodes) {
		t.Errorf("Nodes = %v, want %v", g.Nodes, wantNodes)
	}
	if len(g.Nodes) != len(g.Adjacency) {
		t.Errorf("len(Nodes) = %d, len(Adjacency) = %d", len(g.Nodes), len(g.Adjacency))
	}
	if len(g.Adjacency[3]) != 0 {
		t.Errorf("lone node d has neighbors %v", g.Adjacency[3])
	}
}

func TestParseDirectedHasNoReverseEdges(t *testing.T) {
	g, err := ParseString("digraph g { a -> b -> c; }")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	for from, neighbors := range g.Adjacency {
		for _, to := range neighbors {
			if to <= from {
				t.Errorf("unexpected edge %s -> %s", g.Nodes[from], g.Nodes[to])
			}
		}
	}
}

func TestParseUnicodeWhitespace(t *testing.T) {
	want := &model.Graph{
		IsDirected: false,
		Nodes:      []string{"a", "b"},
		Adjacency:  [][]int{{1}, {0}},
	}

	for _, src := range []string{
		"graph g { a\u00a0--\u00a0b; }",
		"graph g {\va -- b; }",
		"graph\u2003g\u3000{\u0085a -- b;\u2029}",
	} {
		g, err := ParseString(src)
		if err != nil {
			t.Errorf("ParseString(%q) error: %v", src, err)
			continue
		}
		if !reflect.DeepEqual(g, want) {
			t.Errorf("ParseString(%q) = %+v, want %+v", src, g, want)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantState  State
		wantReason Reason
		wantToken  tokenizer.Token
	}{
		{
			name:       "undirected op in digraph",
			input:      "digraph g { a -- b; }",
			wantState:  ExpectEdgeOrSemicolon,
			wantReason: WrongEdgeOperator,
			wantToken:  tokenizer.Token{Kind: tokenizer.UndirectedEdgeOp},
		},
		{
			name:       "directed op in graph",
			input:      "graph g { a -> b; }",
			wantState:  ExpectEdgeOrSemicolon,
			wantReason: WrongEdgeOperator,
			wantToken:  tokenizer.Token{Kind: tokenizer.DirectedEdgeOp},
		},
		{
			name:       "missing header keyword",
			input:      "g { a; }",
			wantState:  Start,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Identifier, Name: "g"},
		},
		{
			name:       "missing graph name",
			input:      "graph { a; }",
			wantState:  ExpectGraphName,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.LeftBracket},
		},
		{
			name:       "missing left bracket",
			input:      "graph g a; }",
			wantState:  ExpectLBracket,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Identifier, Name: "a"},
		},
		{
			name:       "empty body",
			input:      "graph g { }",
			wantState:  ExpectNodeName,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.RightBracket},
		},
		{
			name:       "dangling edge operator",
			input:      "graph g { a -- ; }",
			wantState:  ExpectNodeName,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Semicolon},
		},
		{
			name:       "missing semicolon before bracket",
			input:      "graph g { a -- b }",
			wantState:  ExpectEdgeOrSemicolon,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.RightBracket},
		},
		{
			name:       "two identifiers in a row",
			input:      "graph g { a b; }",
			wantState:  ExpectEdgeOrSemicolon,
			wantReason: UnexpectedToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Identifier, Name: "b"},
		},
		{
			name:       "trailing token",
			input:      "graph g { a; } b",
			wantState:  End,
			wantReason: TrailingToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Identifier, Name: "b"},
		},
		{
			name:       "second graph",
			input:      "graph g { a; } graph h { b; }",
			wantState:  End,
			wantReason: TrailingToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Graph},
		},
		{
			name:       "trailing semicolon",
			input:      "graph g { a; };",
			wantState:  End,
			wantReason: TrailingToken,
			wantToken:  tokenizer.Token{Kind: tokenizer.Semicolon},
		},
		{
			name:       "empty input",
			input:      "",
			wantState:  Start,
			wantReason: TruncatedInput,
			wantToken:  tokenizer.Token{Kind: tokenizer.EOF},
		},
		{
			name:       "truncated body",
			input:      "digraph g { a -> b;",
			wantState:  ExpectNodeNameOrRBracket,
			wantReason: TruncatedInput,
			wantToken:  tokenizer.Token{Kind: tokenizer.EOF},
		},
		{
			name:       "truncated chain",
			input:      "digraph g { a ->",
			wantState:  ExpectNodeName,
			wantReason: TruncatedInput,
			wantToken:  tokenizer.Token{Kind: tokenizer.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseString(tt.input)
			if err == nil {
				t.Fatalf("ParseString(%q) = %+v, want error", tt.input, g)
			}
			if g != nil {
				t.Errorf("ParseString(%q) returned a partial graph %+v", tt.input, g)
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %v is %T, want *SyntaxError", err, err)
			}
			if se.State != tt.wantState {
				t.Errorf("State = %s, want %s", se.State, tt.wantState)
			}
			if se.Reason != tt.wantReason {
				t.Errorf("Reason = %s, want %s", se.Reason, tt.wantReason)
			}
			if se.Token != tt.wantToken {
				t.Errorf("Token = %v, want %v", se.Token, tt.wantToken)
			}
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := ParseString("digraph g { a -- b; }")
	if err == nil {
		t.Fatal("expected error")
	}

	want := "wrong edge operator in state ExpectEdgeOrSemicolon: expected '->' or ';', got '--'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var se *SyntaxError
	if errors.As(err, &se) && se.Index != 4 {
		t.Errorf("Index = %d, want 4", se.Index)
	}
}

func TestTransitionTable(t *testing.T) {
	id := tokenizer.Token{Kind: tokenizer.Identifier, Name: "n"}
	tok := func(k tokenizer.Kind) tokenizer.Token { return tokenizer.Token{Kind: k} }

	tests := []struct {
		from     State
		tok      tokenizer.Token
		directed bool
		want     State
	}{
		{Start, tok(tokenizer.Graph), false, ExpectGraphName},
		{Start, tok(tokenizer.Digraph), true, ExpectGraphName},
		{ExpectGraphName, id, false, ExpectLBracket},
		{ExpectLBracket, tok(tokenizer.LeftBracket), false, ExpectNodeName},
		{ExpectNodeName, id, false, ExpectEdgeOrSemicolon},
		{ExpectNodeNameOrRBracket, id, true, ExpectEdgeOrSemicolon},
		{ExpectEdgeOrSemicolon, tok(tokenizer.DirectedEdgeOp), true, ExpectNodeName},
		{ExpectEdgeOrSemicolon, tok(tokenizer.UndirectedEdgeOp), false, ExpectNodeName},
		{ExpectEdgeOrSemicolon, tok(tokenizer.Semicolon), true, ExpectNodeNameOrRBracket},
		{ExpectNodeNameOrRBracket, tok(tokenizer.RightBracket), false, End},
	}

	for _, tt := range tests {
		got, err := Transition(tt.from, tt.tok, tt.directed)
		if err != nil {
			t.Errorf("Transition(%s, %v, %t) error: %v", tt.from, tt.tok, tt.directed, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Transition(%s, %v, %t) = %s, want %s", tt.from, tt.tok, tt.directed, got, tt.want)
		}
	}
}

func TestTransitionRejectsEverythingElse(t *testing.T) {
	kinds := []tokenizer.Kind{
		tokenizer.Graph, tokenizer.Digraph, tokenizer.LeftBracket, tokenizer.RightBracket,
		tokenizer.Semicolon, tokenizer.DirectedEdgeOp, tokenizer.UndirectedEdgeOp, tokenizer.Identifier,
	}
	valid := map[State]map[tokenizer.Kind]bool{
		Start:                    {tokenizer.Graph: true, tokenizer.Digraph: true},
		ExpectGraphName:          {tokenizer.Identifier: true},
		ExpectLBracket:           {tokenizer.LeftBracket: true},
		ExpectNodeName:           {tokenizer.Identifier: true},
		ExpectEdgeOrSemicolon:    {tokenizer.DirectedEdgeOp: true, tokenizer.Semicolon: true},
		ExpectNodeNameOrRBracket: {tokenizer.Identifier: true, tokenizer.RightBracket: true},
		End:                      {},
	}

	for state, accepted := range valid {
		for _, k := range kinds {
			_, err := Transition(state, tokenizer.Token{Kind: k}, true)
			if accepted[k] && err != nil {
				t.Errorf("Transition(%s, %s) error: %v", state, k, err)
			}
			if !accepted[k] && err == nil {
				t.Errorf("Transition(%s, %s) accepted, want error", state, k)
			}
		}
	}
}

func TestParserName(t *testing.T) {
	p := New()
	if _, err := p.Parse(tokenizer.Tokenize("graph MyCoolUndirectedGraph { a -- b; }")); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.Name() != "MyCoolUndirectedGraph" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.State() != End {
		t.Errorf("State() = %s, want End", p.State())
	}
}

func TestParserIsSingleUse(t *testing.T) {
	p := New()
	tokens := tokenizer.Tokenize("graph g { a; }")
	if _, err := p.Parse(tokens); err != nil {
		t.Fatalf("first Parse() error: %v", err)
	}
	if _, err := p.Parse(tokens); !errors.Is(err, ErrParserUsed) {
		t.Errorf("second Parse() error = %v, want ErrParserUsed", err)
	}
}

func TestParseIndependentCalls(t *testing.T) {
	first, err := ParseString("graph g { a -- b; }")
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseString("graph g { b -- c; }")
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}

	if !reflect.DeepEqual(first.Nodes, []string{"a", "b"}) {
		t.Errorf("first.Nodes = %v", first.Nodes)
	}
	if !reflect.DeepEqual(second.Nodes, []string{"b", "c"}) {
		t.Errorf("second.Nodes = %v (state leaked between parses?)", second.Nodes)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "undir.dot")
	content := "graph MyCoolUndirectedGraph {\n    a -- b -- c;\n    b -- d;\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(g.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4", len(g.Nodes))
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.dot"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		t.Error("read failure reported as a syntax error")
	}
}

func TestParseLargeGraph(t *testing.T) {
	var b strings.Builder
	b.WriteString("graph BigGraph {\n")
	for i := 0; i < 1000; i++ {
		b.WriteString("    n")
		b.WriteString(strings.Repeat("x", i%3))
		b.WriteString(strconv.Itoa(i))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	g, err := ParseString(b.String())
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if len(g.Nodes) != 1000 {
		t.Errorf("got %d nodes, want 1000", len(g.Nodes))
	}
}
