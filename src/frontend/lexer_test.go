package frontend

import (
	"testing"

	"la/src/diag"
	"la/src/token"
)

// TestLexer is a table-driven plain-testing check in the same style as a
// hand-rolled lexer test table: a fixed source snippet and the literal
// slice of kinds the lexer must produce for it.
func TestLexer(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "empty source is just EOF",
			src:  "",
			want: []token.Kind{token.EOF},
		},
		{
			name: "identifiers and keywords",
			src:  "var x fun return",
			want: []token.Kind{token.KwVar, token.Identifier, token.KwFun, token.KwReturn, token.EOF},
		},
		{
			name: "two-char operators preferred over one-char prefixes",
			src:  "a >= b -> c",
			want: []token.Kind{token.Identifier, token.GreaterEqual, token.Identifier, token.Arrow, token.Identifier, token.EOF},
		},
		{
			name: "bare >> is two Greater tokens",
			src:  "a >> b",
			want: []token.Kind{token.Identifier, token.Greater, token.Greater, token.Identifier, token.EOF},
		},
		{
			name: ">>= is one RightShiftEqual token",
			src:  "a >>= b",
			want: []token.Kind{token.Identifier, token.RightShiftEqual, token.Identifier, token.EOF},
		},
		{
			name: "triple-dash is the undefined keyword",
			src:  "---",
			want: []token.Kind{token.KwUndefined, token.EOF},
		},
		{
			name: "line comment consumes to end of line",
			src:  "a // comment\nb",
			want: []token.Kind{token.Identifier, token.Identifier, token.EOF},
		},
		{
			name: "block comment",
			src:  "a /* multi\nline */ b",
			want: []token.Kind{token.Identifier, token.Identifier, token.EOF},
		},
		{
			name: "suffixed integer literal",
			src:  "42i64",
			want: []token.Kind{token.I64, token.EOF},
		},
		{
			name: "unsuffixed literal stays unclassified",
			src:  "42",
			want: []token.Kind{token.Int, token.EOF},
		},
		{
			name: "hex, binary and octal prefixes",
			src:  "0xFF 0b101 0o17",
			want: []token.Kind{token.Int, token.Int, token.Int, token.EOF},
		},
		{
			name: "string literal",
			src:  `"hello\n"`,
			want: []token.Kind{token.String, token.EOF},
		},
		{
			name: "unterminated string is Invalid",
			src:  `"oops`,
			want: []token.Kind{token.Invalid, token.EOF},
		},
		{
			name: "empty character literal is Invalid",
			src:  `''`,
			want: []token.Kind{token.Invalid, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := diag.NewSink()
			toks := Lex(0, tt.src, sink)
			if len(toks) != len(tt.want) {
				t.Fatalf("Lex(%q) produced %d tokens %v, want %d %v", tt.src, len(toks), toks, len(tt.want), tt.want)
			}
			for i, tok := range toks {
				if tok.Kind != tt.want[i] {
					t.Errorf("Lex(%q) token %d = %v, want %v", tt.src, i, tok.Kind, tt.want[i])
				}
			}
		})
	}
}

func TestLexerDigitSeparatorsKeptInLexeme(t *testing.T) {
	sink := diag.NewSink()
	toks := Lex(0, "1_000_000", sink)
	if len(toks) != 2 || toks[0].Kind != token.Int {
		t.Fatalf("unexpected token stream: %v", toks)
	}
	if toks[0].Lexeme != "1_000_000" {
		t.Errorf("Lexeme = %q, want underscores kept as in the source %q", toks[0].Lexeme, "1_000_000")
	}
}

func TestLexerAlwaysTerminatesWithEOF(t *testing.T) {
	sink := diag.NewSink()
	toks := Lex(0, "var x = 1;", sink)
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatal("token stream must terminate with EOF")
	}
}
