package tokenizer

import (
	"regexp"
	"strings"
)

// delimiter matches runs of Unicode whitespace or a single semicolon.
// RE2's \s is ASCII only, so \v, NEL and the Z categories are listed too.
var delimiter = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+|;`)

// SplitWords splits text into words on whitespace and semicolons.
// Whitespace is dropped; each semicolon is kept as its own word.
// Empty words are never returned.
func SplitWords(text string) []string {
	var words []string
	prevEnd := 0

	for _, loc := range delimiter.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]

		if start != prevEnd {
			words = append(words, text[prevEnd:start])
		}
		if strings.TrimSpace(text[start:end]) != "" {
			words = append(words, text[start:end])
		}
		prevEnd = end
	}

	if prevEnd != len(text) {
		words = append(words, text[prevEnd:])
	}

	return words
}

// WordToToken classifies a single word. Anything that is not one of the
// fixed keywords or operators becomes an identifier.
func WordToToken(word string) Token {
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind}
	}
	return Token{Kind: Identifier, Name: word}
}

// Tokenize splits and classifies text in one eager pass
func Tokenize(text string) []Token {
	words := SplitWords(text)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, WordToToken(w))
	}
	return tokens
}
