package token

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"header",
			"[VERSION]",
			[]Token{{"VERSION", Header, 1}},
		},
		{
			"fields",
			"major 1",
			[]Token{{"major", Field, 1}, {"1", Field, 1}, {"", EOL, 1}},
		},
		{
			"tabs_and_spaces",
			" 1\t2   3 ",
			[]Token{{"1", Field, 1}, {"2", Field, 1}, {"3", Field, 1}, {"", EOL, 1}},
		},
		{
			"comment_line",
			"# Pulseq sequence file\n[BLOCKS]",
			[]Token{{"BLOCKS", Header, 2}},
		},
		{
			"trailing_comment",
			"1 2 # id amp",
			[]Token{{"1", Field, 1}, {"2", Field, 1}, {"", EOL, 1}},
		},
		{
			"blank_lines",
			"\n\n[RF]\n\n1\n",
			[]Token{{"RF", Header, 3}, {"1", Field, 5}, {"", EOL, 5}},
		},
		{
			"crlf",
			"[ADC]\r\n1 2\r\n",
			[]Token{{"ADC", Header, 1}, {"1", Field, 2}, {"2", Field, 2}, {"", EOL, 2}},
		},
		{
			"negative_float",
			"-1.5e-3",
			[]Token{{"-1.5e-3", Field, 1}, {"", EOL, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.expected) {
				t.Fatalf("token count mismatch: got %d, want %d\ngot: %v", len(tokens), len(tt.expected), tokens)
			}
			for i, tok := range tokens {
				exp := tt.expected[i]
				if tok.Type != exp.Type || tok.Value != exp.Value || tok.Line != exp.Line {
					t.Errorf("token %d mismatch:\n  got:  %+v\n  want: %+v", i, tok, exp)
				}
			}
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{"section header", Header},
		{"field", Field},
		{"end of line", EOL},
		{"unknown", Type(999)},
	}

	for _, tt := range tests {
		got := tt.typ.String()
		if got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
