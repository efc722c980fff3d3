package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string, ops parser.OperationTable) (*pipeline.PipelineContext, []*diagnostics.DiagnosticError) {
	ctx := &pipeline.PipelineContext{SourceCode: input, FilePath: "model.phylo"}
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{Operations: ops}
	ctx = pp.Process(ctx)
	return ctx, ctx.Errors
}

// expectError asserts an error with the given code at line:col.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode, line, col int) *diagnostics.DiagnosticError {
	t.Helper()
	ctx, errs := parseWithErrors(input, nil)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	if ctx.Program != nil {
		t.Errorf("failed parse should not produce a program\ninput: %s", input)
	}
	for _, e := range errs {
		if e.Code == code {
			if e.Line() != line || e.Column() != col {
				t.Errorf("expected %s at %d:%d, got %d:%d\ninput: %s", code, line, col, e.Line(), e.Column(), input)
			}
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// ---------------------------------------------------------------------------
// P001: Unexpected token
// ---------------------------------------------------------------------------

func TestP001_SemicolonOutsideFunction(t *testing.T) {
	expectError(t, "1 2 ;", diagnostics.ErrP001, 1, 5)
}

func TestP001_Comma(t *testing.T) {
	expectError(t, "1.0 , 0.5 Normal", diagnostics.ErrP001, 1, 5)
}

func TestP001_StrayParen(t *testing.T) {
	expectError(t, "1 )", diagnostics.ErrP001, 1, 3)
	expectError(t, "( a -- b )", diagnostics.ErrP001, 1, 1)
}

// ---------------------------------------------------------------------------
// P002: Unknown operation
// ---------------------------------------------------------------------------

func TestP002_KeywordMissingFromTable(t *testing.T) {
	_, errs := parseWithErrors("1 1 Beta", table{"dup": "dup"})
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrP002 {
		t.Fatalf("expected one P002, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "Beta") {
		t.Errorf("message should name the operation: %s", errs[0].Error())
	}
}

func TestP002_SymbolMissingFromTable(t *testing.T) {
	_, errs := parseWithErrors("1 2 +", table{})
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrP002 {
		t.Fatalf("expected one P002, got %v", errs)
	}
}

// ---------------------------------------------------------------------------
// P003: Arrays
// ---------------------------------------------------------------------------

func TestP003_UnmatchedClose(t *testing.T) {
	expectError(t, "1 ]", diagnostics.ErrP003, 1, 3)
}

func TestP003_UnterminatedArray(t *testing.T) {
	expectError(t, "[ 1 [ 2 ]", diagnostics.ErrP003, 1, 1)
}

func TestP003_ArrayOpenAcrossFunctionBoundary(t *testing.T) {
	expectError(t, ": f [ 1 ; ]", diagnostics.ErrP003, 1, 5)
	expectError(t, "[ : f ] ; ]", diagnostics.ErrP003, 1, 7)
}

// ---------------------------------------------------------------------------
// P004 / P005: Unterminated function and stack-effect comment
// ---------------------------------------------------------------------------

func TestP004_MissingSemicolon(t *testing.T) {
	e := expectError(t, "1\n: f dup *", diagnostics.ErrP004, 2, 1)
	if !strings.Contains(e.Error(), "'f'") {
		t.Errorf("message should name the function: %s", e.Error())
	}
}

func TestP005_UnterminatedStackEffect(t *testing.T) {
	expectError(t, ": f ( a -- b dup ;", diagnostics.ErrP005, 1, 5)
}

// ---------------------------------------------------------------------------
// P006 / P007: Function names and nesting
// ---------------------------------------------------------------------------

func TestP006_MissingName(t *testing.T) {
	expectError(t, ": ;", diagnostics.ErrP006, 1, 1)
	expectError(t, ": 5 ;", diagnostics.ErrP006, 1, 1)
	expectError(t, `: "f" ;`, diagnostics.ErrP006, 1, 1)
}

func TestP006_BuiltinName(t *testing.T) {
	expectError(t, ": dup ;", diagnostics.ErrP006, 1, 3)
	expectError(t, ": DUP ;", diagnostics.ErrP006, 1, 3)
}

func TestP007_NestedDefinition(t *testing.T) {
	expectError(t, ": outer : inner ; ;", diagnostics.ErrP007, 1, 9)
}

// ---------------------------------------------------------------------------
// Lexical errors stop the parser
// ---------------------------------------------------------------------------

func TestLexicalErrorsSkipParsing(t *testing.T) {
	ctx, errs := parseWithErrors("1 @ ] \"open", nil)
	if len(errs) != 2 {
		t.Fatalf("expected the two lexical errors only, got %d: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Code.Category() != "lexical error" {
			t.Errorf("unexpected %s error: %s", e.Code, e.Error())
		}
	}
	if ctx.Program != nil {
		t.Errorf("program should not be set")
	}
}

func TestErrorFormat(t *testing.T) {
	_, errs := parseWithErrors("1 ]", nil)
	want := "model.phylo:1:3: syntax error [P003]: unmatched ']'"
	if got := errs[0].Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFirstSyntaxErrorStops(t *testing.T) {
	_, errs := parseWithErrors("] ] ;", nil)
	if len(errs) != 1 {
		t.Errorf("expected parsing to stop at the first error, got %d errors", len(errs))
	}
}
