package parser

import (
	"fmt"
	"strings"

	"github.com/funvibe/phylostack/internal/ast"
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/token"
)

// OperationTable resolves an operation name, ignoring case, to its
// canonical spelling.
type OperationTable interface {
	Resolve(name string) (string, bool)
}

// KeywordTable resolves against the lexer's keyword set and the symbolic
// operators. It is used when no registry is supplied.
type KeywordTable struct{}

func (KeywordTable) Resolve(name string) (string, bool) {
	switch name {
	case "~", "=", "+", "-", "*", "/", "]":
		return name, true
	}
	if token.LookupIdent(name) == token.KEYWORD {
		return name, true
	}
	for _, kw := range token.Keywords() {
		if strings.EqualFold(kw, name) {
			return kw, true
		}
	}
	return "", false
}

type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.PipelineContext
	ops    OperationTable

	curToken token.Token
	out      []ast.Op

	// open '[' tokens of the current segment (top level or function body)
	arrays []token.Token

	inFunction bool
	fnToken    token.Token
	fnName     string
	outer      []token.Token

	failed bool
}

func New(stream pipeline.TokenStream, ctx *pipeline.PipelineContext, ops OperationTable) *Parser {
	if ops == nil {
		ops = KeywordTable{}
	}
	return &Parser{stream: stream, ctx: ctx, ops: ops}
}

// ParseProgram makes a single left-to-right pass over the tokens. It stops
// at the first syntax error, which is appended to ctx.Errors; the returned
// program is then incomplete.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}
	for !p.failed {
		p.curToken = p.stream.Next()
		if p.curToken.Type == token.EOF {
			p.finish()
			break
		}
		p.parseToken()
	}
	program.Ops = p.out
	return program
}

// Failed reports whether a syntax error was recorded.
func (p *Parser) Failed() bool { return p.failed }

func (p *Parser) parseToken() {
	tok := p.curToken
	switch tok.Type {
	case token.ILLEGAL:
		p.fail(lexer.IllegalError(tok, p.ctx.FilePath))
	case token.NUMBER:
		p.emit(ast.Op{Kind: ast.PushNumber, Token: tok, Value: tok.Literal})
	case token.STRING:
		p.emit(ast.Op{Kind: ast.PushString, Token: tok, Value: tok.Literal})
	case token.LBRACKET:
		p.arrays = append(p.arrays, tok)
		p.emit(ast.Op{Kind: ast.ArrayOpen, Token: tok})
	case token.RBRACKET:
		if len(p.arrays) == 0 {
			p.errorf(diagnostics.ErrP003, tok, "unmatched ']'")
			return
		}
		p.arrays = p.arrays[:len(p.arrays)-1]
		p.parseNamed(tok)
	case token.TILDE, token.ASSIGN, token.ASTERISK, token.PLUS, token.MINUS, token.SLASH:
		p.parseNamed(tok)
	case token.KEYWORD:
		p.parseNamed(tok)
	case token.IDENT:
		if name, ok := p.ops.Resolve(tok.Lexeme); ok {
			p.emit(ast.Op{Kind: ast.Named, Token: tok, Name: name})
			return
		}
		p.emit(ast.Op{Kind: ast.CallFunction, Token: tok, Name: tok.Lexeme})
	case token.COLON:
		p.parseFunctionHeader()
	case token.SEMICOLON:
		p.parseFunctionEnd()
	default:
		p.errorf(diagnostics.ErrP001, tok, "unexpected token %q", tok.Lexeme)
	}
}

func (p *Parser) parseNamed(tok token.Token) {
	name, ok := p.ops.Resolve(tok.Lexeme)
	if !ok {
		p.errorf(diagnostics.ErrP002, tok, "unknown operation %q", tok.Lexeme)
		return
	}
	p.emit(ast.Op{Kind: ast.Named, Token: tok, Name: name})
}

// parseFunctionHeader handles ': name [( effect )]'.
func (p *Parser) parseFunctionHeader() {
	colon := p.curToken
	if p.inFunction {
		p.errorf(diagnostics.ErrP007, colon, "nested function definition inside '%s'", p.fnName)
		return
	}

	nameTok := p.stream.Peek()
	switch nameTok.Type {
	case token.IDENT:
		if _, builtin := p.ops.Resolve(nameTok.Lexeme); builtin {
			p.errorf(diagnostics.ErrP006, nameTok, "cannot redefine built-in operation %q", nameTok.Lexeme)
			return
		}
	case token.KEYWORD:
		p.errorf(diagnostics.ErrP006, nameTok, "cannot redefine built-in operation %q", nameTok.Lexeme)
		return
	default:
		p.errorf(diagnostics.ErrP006, colon, "expected function name after ':', got %q", nameTok.Lexeme)
		return
	}
	p.stream.Next()

	p.emit(ast.Op{Kind: ast.FunctionStart, Token: colon})
	p.emit(ast.Op{Kind: ast.FunctionName, Token: nameTok, Name: nameTok.Lexeme})

	if p.stream.Peek().Type == token.LPAREN {
		open := p.stream.Next()
		text, ok := p.readStackEffect(open)
		if !ok {
			return
		}
		p.emit(ast.Op{Kind: ast.StackEffect, Token: open, Value: text})
	}

	p.inFunction = true
	p.fnToken = colon
	p.fnName = nameTok.Lexeme
	p.outer = p.arrays
	p.arrays = nil
}

// readStackEffect captures the tokens up to ')' as documentation text,
// keeping the original spacing between tokens on the same line.
func (p *Parser) readStackEffect(open token.Token) (string, bool) {
	var sb strings.Builder
	prev := open
	for {
		tok := p.stream.Next()
		switch tok.Type {
		case token.EOF:
			p.errorf(diagnostics.ErrP005, open, "unterminated stack-effect comment")
			return "", false
		case token.ILLEGAL:
			p.fail(lexer.IllegalError(tok, p.ctx.FilePath))
			return "", false
		case token.RPAREN:
			return sb.String(), true
		}
		if sb.Len() > 0 && (tok.Line != prev.Line || tok.Column != prev.End()) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Lexeme)
		prev = tok
	}
}

func (p *Parser) parseFunctionEnd() {
	tok := p.curToken
	if !p.inFunction {
		p.errorf(diagnostics.ErrP001, tok, "unexpected ';' outside a function definition")
		return
	}
	if n := len(p.arrays); n > 0 {
		p.errorf(diagnostics.ErrP003, p.arrays[n-1], "unterminated array in function '%s'", p.fnName)
		return
	}
	p.emit(ast.Op{Kind: ast.FunctionEnd, Token: tok, Name: p.fnName})
	p.inFunction = false
	p.arrays = p.outer
	p.outer = nil
	p.fnName = ""
}

func (p *Parser) finish() {
	if p.inFunction {
		p.errorf(diagnostics.ErrP004, p.fnToken, "unterminated function definition '%s': missing ';'", p.fnName)
		return
	}
	if n := len(p.arrays); n > 0 {
		p.errorf(diagnostics.ErrP003, p.arrays[n-1], "unterminated array: missing ']'")
	}
}

func (p *Parser) emit(op ast.Op) {
	p.out = append(p.out, op)
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	err := diagnostics.NewError(code, tok, fmt.Sprintf(format, args...))
	err.File = p.ctx.FilePath
	p.fail(err)
}

func (p *Parser) fail(err *diagnostics.DiagnosticError) {
	p.ctx.Errors = append(p.ctx.Errors, err)
	p.failed = true
}
