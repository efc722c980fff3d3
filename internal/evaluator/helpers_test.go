package evaluator_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
)

// evaluate runs input through the full pipeline.
func evaluate(input string) (*evaluator.Interpreter, error) {
	in := evaluator.New()
	ctx := pipeline.NewPipelineContext(input)
	ctx.FilePath = "test.phylo"
	pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: in.Registry()},
		&evaluator.EvaluatorProcessor{Interp: in},
	).Run(ctx)
	return in, ctx.Err()
}

func mustEval(t *testing.T, input string) *evaluator.Interpreter {
	t.Helper()
	in, err := evaluate(input)
	if err != nil {
		t.Fatalf("unexpected error for %q:\n%v", input, err)
	}
	return in
}

// expectCode asserts that input fails with code and returns the diagnostic.
func expectCode(t *testing.T, input string, code diagnostics.ErrorCode) (*evaluator.Interpreter, *diagnostics.DiagnosticError) {
	t.Helper()
	in, err := evaluate(input)
	if err == nil {
		t.Fatalf("expected %s for %q, got no error (stack %s)", code, input, in.Stack())
	}
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("expected a DiagnosticError, got %T: %v", err, err)
	}
	if diag.Code != code {
		t.Fatalf("expected %s for %q, got %s", code, input, diag.Error())
	}
	return in, diag
}

// top returns the single remaining stack item.
func top(t *testing.T, in *evaluator.Interpreter) evaluator.StackItem {
	t.Helper()
	if in.Stack().Size() != 1 {
		t.Fatalf("expected exactly one stack item, got %s", in.Stack())
	}
	item, _ := in.Stack().Peek()
	return item
}

func topNumber(t *testing.T, in *evaluator.Interpreter) float64 {
	t.Helper()
	p, ok := top(t, in).(*evaluator.Primitive)
	if !ok || !p.IsNumeric() {
		t.Fatalf("expected a number on top, got %s", in.Stack())
	}
	v, _ := p.NumberValue()
	return v
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func stackString(in *evaluator.Interpreter) string {
	var parts []string
	for _, it := range in.Stack().Items() {
		parts = append(parts, it.Inspect())
	}
	return strings.Join(parts, " ")
}

func evaluatorCode(code string) diagnostics.ErrorCode {
	return diagnostics.ErrorCode(code)
}

// evaluateWith runs input on an existing interpreter.
func evaluateWith(in *evaluator.Interpreter, input string) error {
	ctx := pipeline.NewPipelineContext(input)
	pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: in.Registry()},
		&evaluator.EvaluatorProcessor{Interp: in},
	).Run(ctx)
	return ctx.Err()
}
