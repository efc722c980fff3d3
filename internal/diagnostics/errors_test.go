package diagnostics_test

import (
	"errors"
	"testing"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/token"
)

func TestCategory(t *testing.T) {
	tests := map[diagnostics.ErrorCode]string{
		diagnostics.ErrL001: "lexical error",
		diagnostics.ErrP004: "syntax error",
		diagnostics.ErrB002: "binding error",
		diagnostics.ErrD005: "domain error",
		diagnostics.ErrU001: "unsupported operation",
		diagnostics.ErrR001: "runtime error",
		diagnostics.ErrR002: "runtime error",
	}
	for code, want := range tests {
		if got := code.Category(); got != want {
			t.Errorf("%s: expected %q, got %q", code, want, got)
		}
	}
}

func TestErrorRendering(t *testing.T) {
	tok := token.Token{Lexeme: "/", Line: 3, Column: 7}
	cause := errors.New("division by zero")

	err := diagnostics.Wrap(diagnostics.ErrD003, tok, "/", cause)
	if got, want := err.Error(), "3:7: domain error [D003]: '/': division by zero"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	err.File = "m.phylo"
	err.Trace = []diagnostics.Frame{{Name: "f", Line: 9, Column: 1}}
	want := "m.phylo:3:7: domain error [D003]: '/': division by zero\n  at 9:1 (called f)"
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if err.Line() != 3 || err.Column() != 7 {
		t.Errorf("unexpected position %d:%d", err.Line(), err.Column())
	}
}

func TestPushFrameFoldsRepeats(t *testing.T) {
	err := diagnostics.NewError(diagnostics.ErrR001, token.Token{Line: 1, Column: 5}, "call depth exceeded")
	for i := 0; i < 3; i++ {
		err.PushFrame(diagnostics.Frame{Name: "f", Line: 1, Column: 5})
	}
	err.PushFrame(diagnostics.Frame{Name: "f", Line: 2, Column: 1})
	err.PushFrame(diagnostics.Frame{Name: "f", Line: 1, Column: 5})

	if len(err.Trace) != 3 {
		t.Fatalf("expected 3 frames, got %+v", err.Trace)
	}
	want := "1:5: runtime error [R001]: call depth exceeded" +
		"\n  at 1:5 (called f) x3" +
		"\n  at 2:1 (called f)" +
		"\n  at 1:5 (called f)"
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNewError(t *testing.T) {
	err := diagnostics.NewError(diagnostics.ErrP002, token.Token{Line: 1, Column: 2}, `unknown operation "x"`)
	if got, want := err.Error(), `1:2: syntax error [P002]: unknown operation "x"`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if errors.Unwrap(err) != nil {
		t.Error("NewError has no cause")
	}
}
