package token

import (
	"strings"
	"unicode"
)

type Type int

const (
	Header Type = iota
	Field
	EOL
)

func (t Type) String() string {
	switch t {
	case Header:
		return "section header"
	case Field:
		return "field"
	case EOL:
		return "end of line"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits a sequence file into headers, whitespace separated fields
// and line ends. Comments (# to end of line) and blank lines produce no
// tokens. A header is a line holding only "[NAME]"; its Value is NAME.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 0

	for len(input) > 0 {
		line++
		var text string
		if i := strings.IndexByte(input, '\n'); i >= 0 {
			text, input = input[:i], input[i+1:]
		} else {
			text, input = input, ""
		}

		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimFunc(text, unicode.IsSpace)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			tokens = append(tokens, Token{text[1 : len(text)-1], Header, line})
			continue
		}

		for _, f := range strings.Fields(text) {
			tokens = append(tokens, Token{f, Field, line})
		}
		tokens = append(tokens, Token{"", EOL, line})
	}

	return tokens
}
