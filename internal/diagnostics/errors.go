package diagnostics

import (
	"fmt"

	"github.com/funvibe/phylostack/internal/token"
)

type ErrorCode string

// Lexical errors
const (
	ErrL001 ErrorCode = "L001" // unterminated string
	ErrL002 ErrorCode = "L002" // unrecognized character
	ErrL003 ErrorCode = "L003" // malformed number
)

// Syntax errors
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // unknown operation
	ErrP003 ErrorCode = "P003" // unterminated or unmatched array
	ErrP004 ErrorCode = "P004" // unterminated function definition
	ErrP005 ErrorCode = "P005" // unterminated stack-effect comment
	ErrP006 ErrorCode = "P006" // missing or invalid function name
	ErrP007 ErrorCode = "P007" // nested function definition
)

// Binding errors
const (
	ErrB001 ErrorCode = "B001" // duplicate name
	ErrB002 ErrorCode = "B002" // unbound variable
	ErrB003 ErrorCode = "B003" // unbound function
	ErrB004 ErrorCode = "B004" // observe on deterministic variable
	ErrB005 ErrorCode = "B005" // stochastic bind of a non-distribution
	ErrB006 ErrorCode = "B006" // variable already observed
)

// Domain errors
const (
	ErrD001 ErrorCode = "D001" // stack underflow
	ErrD002 ErrorCode = "D002" // wrong stack item variant
	ErrD003 ErrorCode = "D003" // division by zero
	ErrD004 ErrorCode = "D004" // math domain
	ErrD005 ErrorCode = "D005" // invalid distribution/model parameter
	ErrD006 ErrorCode = "D006" // index out of range
	ErrD007 ErrorCode = "D007" // invalid data
)

const (
	ErrU001 ErrorCode = "U001" // unsupported operation
	ErrR001 ErrorCode = "R001" // runtime limit
	ErrR002 ErrorCode = "R002" // internal failure
)

// Category returns the taxonomy bucket of a code.
func (c ErrorCode) Category() string {
	if c == "" {
		return "error"
	}
	switch c[0] {
	case 'L':
		return "lexical error"
	case 'P':
		return "syntax error"
	case 'B':
		return "binding error"
	case 'D':
		return "domain error"
	case 'U':
		return "unsupported operation"
	default:
		return "runtime error"
	}
}

// DiagnosticError is a positioned failure from any stage of the pipeline.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	// Op is the operation that failed, if any.
	Op string
	// Trace lists user-function call sites, innermost first.
	Trace []Frame
	Err   error
}

// Frame is a call site of a user-defined function. Repeat counts the
// extra consecutive occurrences folded into it.
type Frame struct {
	Name   string
	Line   int
	Column int
	Repeat int
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

// Wrap builds a diagnostic around a cause.
func Wrap(code ErrorCode, tok token.Token, op string, err error) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Op: op, Message: err.Error(), Err: err}
}

func (e *DiagnosticError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("'%s': %s", e.Op, msg)
	}
	pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	out := fmt.Sprintf("%s: %s [%s]: %s", pos, e.Code.Category(), e.Code, msg)
	for _, f := range e.Trace {
		out += fmt.Sprintf("\n  at %d:%d (called %s)", f.Line, f.Column, f.Name)
		if f.Repeat > 0 {
			out += fmt.Sprintf(" x%d", f.Repeat+1)
		}
	}
	return out
}

// PushFrame appends a call site, folding it into the last frame when the
// same call repeats.
func (e *DiagnosticError) PushFrame(f Frame) {
	if n := len(e.Trace); n > 0 {
		last := &e.Trace[n-1]
		if last.Name == f.Name && last.Line == f.Line && last.Column == f.Column {
			last.Repeat++
			return
		}
	}
	e.Trace = append(e.Trace, f)
}

func (e *DiagnosticError) Unwrap() error { return e.Err }

// Line and Column expose the position for front ends.
func (e *DiagnosticError) Line() int   { return e.Token.Line }
func (e *DiagnosticError) Column() int { return e.Token.Column }
