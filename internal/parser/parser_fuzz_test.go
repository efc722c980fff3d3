package parser_test

import (
	"testing"

	"github.com/funvibe/phylostack/internal/ast"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/prettyprinter"
)

func parseAll(input string) *pipeline.PipelineContext {
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(pipeline.NewPipelineContext(input))
}

// FuzzParser checks that arbitrary input never panics the parser and that
// every accepted program survives a round trip through the formatter.
func FuzzParser(f *testing.F) {
	f.Add(`1.0 0.5 Normal "x" ~ 2.0 "x" observe`)
	f.Add(": sq ( x -- x2 ) dup * ; 3 sq")
	f.Add(`[ 0.25 0.25 0.25 0.25 ] "pi" = 2.0 "pi" var HKY "Q" =`)
	f.Add("[ [ 1 ] ] ] ; : : (")
	f.Add("\"open\n1 // comment\n@")

	f.Fuzz(func(t *testing.T, input string) {
		ctx := parseAll(input)
		if len(ctx.Errors) > 0 {
			for _, err := range ctx.Errors {
				if err.Code == "" {
					t.Fatalf("diagnostic without code for %q: %v", input, err)
				}
			}
			return
		}
		if ctx.Program == nil {
			t.Fatalf("no program and no error for %q", input)
		}

		formatted := prettyprinter.Format(ctx.Program)
		again := parseAll(formatted)
		if len(again.Errors) > 0 {
			t.Fatalf("formatted program does not parse:\n%s\n%v", formatted, again.Errors[0])
		}
		if !sameOps(ctx.Program.Ops, again.Program.Ops) {
			t.Fatalf("round trip changed the program:\n%s\n---\n%s", ctx.Program, again.Program)
		}
	})
}

func sameOps(a, b []ast.Op) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
