package lexer

import (
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/token"
)

// TokenStream is a buffered token sequence with one token of lookahead.
type TokenStream struct {
	tokens []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) *TokenStream {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return &TokenStream{tokens: tokens}
}

// FromTokens wraps an already scanned sequence. A missing EOF is appended.
func FromTokens(tokens []token.Token) *TokenStream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF, Line: 1, Column: 1}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Column = last.Line, last.End()
		}
		tokens = append(tokens, eof)
	}
	return &TokenStream{tokens: tokens}
}

func (s *TokenStream) Next() token.Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

func (s *TokenStream) Peek() token.Token {
	return s.tokens[s.pos]
}

func (s *TokenStream) Tokens() []token.Token {
	return s.tokens
}

type LexerProcessor struct{}

// Process tokenizes ctx.SourceCode and reports every ILLEGAL token at once.
func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	stream := NewTokenStream(New(ctx.SourceCode))
	ctx.TokenStream = stream
	for _, tok := range stream.tokens {
		if tok.Type != token.ILLEGAL {
			continue
		}
		ctx.Errors = append(ctx.Errors, IllegalError(tok, ctx.FilePath))
	}
	return ctx
}

// IllegalError converts an ILLEGAL token into a lexical diagnostic.
func IllegalError(tok token.Token, file string) *diagnostics.DiagnosticError {
	code, msg := diagnostics.ErrL002, "illegal token "+tok.Lexeme
	if p, ok := tok.Literal.(Problem); ok {
		code, msg = p.Code, p.Message
	}
	err := diagnostics.NewError(code, tok, msg)
	err.File = file
	return err
}
