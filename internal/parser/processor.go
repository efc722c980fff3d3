package parser

import (
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/token"
)

type ParserProcessor struct {
	// Operations resolves built-in names; nil means the keyword table.
	Operations OperationTable
}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	// Lexical errors were already reported together; any of them is fatal.
	if len(ctx.Errors) > 0 {
		return ctx
	}

	p := New(ctx.TokenStream, ctx, pp.Operations)
	program := p.ParseProgram()
	if !p.Failed() {
		ctx.Program = program
	}
	return ctx
}
