package parser

import (
	"fmt"

	"github.com/ritzau/dotlite/pkg/tokenizer"
)

// State is a state of the statement parser
type State int

const (
	Start State = iota
	ExpectGraphName
	ExpectLBracket
	ExpectNodeName
	ExpectEdgeOrSemicolon
	ExpectNodeNameOrRBracket
	End
)

var stateNames = [...]string{
	Start:                    "Start",
	ExpectGraphName:          "ExpectGraphName",
	ExpectLBracket:           "ExpectLBracket",
	ExpectNodeName:           "ExpectNodeName",
	ExpectEdgeOrSemicolon:    "ExpectEdgeOrSemicolon",
	ExpectNodeNameOrRBracket: "ExpectNodeNameOrRBracket",
	End:                      "End",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// expected describes what the given state accepts, for error messages
func expected(s State, directed bool) string {
	switch s {
	case Start:
		return "'graph' or 'digraph'"
	case ExpectGraphName:
		return "graph name"
	case ExpectLBracket:
		return "'{'"
	case ExpectNodeName:
		return "node name"
	case ExpectEdgeOrSemicolon:
		if directed {
			return "'->' or ';'"
		}
		return "'--' or ';'"
	case ExpectNodeNameOrRBracket:
		return "node name or '}'"
	default:
		return "end of input"
	}
}

// Transition returns the state reached by consuming tok in state s.
// It only looks at the token kind. A pair with no transition yields a
// *SyntaxError; so does an edge operator that does not match directed.
func Transition(s State, tok tokenizer.Token, directed bool) (State, error) {
	switch s {
	case Start:
		switch tok.Kind {
		case tokenizer.Graph, tokenizer.Digraph:
			return ExpectGraphName, nil
		}

	case ExpectGraphName:
		if tok.Kind == tokenizer.Identifier {
			return ExpectLBracket, nil
		}

	case ExpectLBracket:
		if tok.Kind == tokenizer.LeftBracket {
			return ExpectNodeName, nil
		}

	case ExpectNodeName:
		if tok.Kind == tokenizer.Identifier {
			return ExpectEdgeOrSemicolon, nil
		}

	case ExpectNodeNameOrRBracket:
		switch tok.Kind {
		case tokenizer.Identifier:
			return ExpectEdgeOrSemicolon, nil
		case tokenizer.RightBracket:
			return End, nil
		}

	case ExpectEdgeOrSemicolon:
		switch tok.Kind {
		case tokenizer.DirectedEdgeOp:
			if directed {
				return ExpectNodeName, nil
			}
			return s, newSyntaxError(s, tok, WrongEdgeOperator, expected(s, directed))
		case tokenizer.UndirectedEdgeOp:
			if !directed {
				return ExpectNodeName, nil
			}
			return s, newSyntaxError(s, tok, WrongEdgeOperator, expected(s, directed))
		case tokenizer.Semicolon:
			return ExpectNodeNameOrRBracket, nil
		}

	case End:
		return s, newSyntaxError(s, tok, TrailingToken, expected(s, directed))
	}

	return s, newSyntaxError(s, tok, UnexpectedToken, expected(s, directed))
}
