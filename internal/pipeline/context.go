package pipeline

import (
	"github.com/funvibe/phylostack/internal/ast"
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/token"
)

// Processor is one stage of the lex -> parse -> interpret chain.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is what the lexer hands to the parser.
type TokenStream interface {
	Next() token.Token
	Peek() token.Token
}

type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
	Program     *ast.Program
	Errors      []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Err returns the first diagnostic, or nil.
func (c *PipelineContext) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}
