package token_test

import (
	"testing"

	"github.com/funvibe/phylostack/internal/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  token.TokenType
	}{
		{"dup", token.KEYWORD},
		{"Normal", token.KEYWORD},
		{"normal", token.IDENT},
		{"categoryRates", token.KEYWORD},
		{"myModel", token.IDENT},
	}
	for _, tt := range tests {
		if got := token.LookupIdent(tt.ident); got != tt.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.ident, got, tt.want)
		}
	}
}

func TestIsKeywordIgnoresCase(t *testing.T) {
	for _, name := range []string{"DUP", "normal", "PHYLOCTMC"} {
		if !token.IsKeyword(name) {
			t.Errorf("%q should be a keyword", name)
		}
	}
	if token.IsKeyword("double") {
		t.Error("'double' is not a keyword")
	}
}

func TestTokenEnd(t *testing.T) {
	tok := token.Token{Lexeme: "Normal", Column: 5}
	if tok.End() != 11 {
		t.Errorf("expected end column 11, got %d", tok.End())
	}
	if !(token.Token{Type: token.SLASH}).IsOperator() || (token.Token{Type: token.LBRACKET}).IsOperator() {
		t.Error("IsOperator mismatch")
	}
}
