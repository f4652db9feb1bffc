package parser

import (
	"errors"
	"fmt"

	"github.com/ritzau/dotlite/pkg/tokenizer"
)

// ErrParserUsed is returned when Parse is called twice on the same Parser
var ErrParserUsed = errors.New("parser already used; create a new one per graph")

// Reason classifies a syntax error
type Reason int

const (
	UnexpectedToken Reason = iota
	WrongEdgeOperator
	TruncatedInput
	TrailingToken
)

func (r Reason) String() string {
	switch r {
	case UnexpectedToken:
		return "unexpected token"
	case WrongEdgeOperator:
		return "wrong edge operator"
	case TruncatedInput:
		return "truncated input"
	case TrailingToken:
		return "unexpected trailing token"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// SyntaxError reports the token that had no transition and the state the
// parser was in. For truncated input Token has kind tokenizer.EOF.
type SyntaxError struct {
	State    State
	Token    tokenizer.Token
	Reason   Reason
	Expected string
	// Index is the position of Token in the token stream
	Index int
}

func newSyntaxError(s State, tok tokenizer.Token, reason Reason, want string) *SyntaxError {
	return &SyntaxError{
		State:    s,
		Token:    tok,
		Reason:   reason,
		Expected: want,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s in state %s: expected %s, got %s", e.Reason, e.State, e.Expected, e.Token)
}
