// Package phylostack runs model programs from Go code.
//
//	env, err := phylostack.Run(`1.0 "mu" = "mu" var 0.5 Normal "x" ~`)
//
// Run and RunFile interpret a whole program in a fresh interpreter. A
// Session keeps the stack and the model graph between Eval calls, which
// is what an interactive front end needs.
package phylostack

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/prettyprinter"
)

// Diagnostic is the positioned error every stage reports.
type Diagnostic = diagnostics.DiagnosticError

// Errors holds every diagnostic of one run in the order they were found.
// Lexical errors are reported together; later stages stop at the first.
type Errors []*Diagnostic

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap lets errors.Is and errors.As see each diagnostic.
func (e Errors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}

// Option configures a Session.
type Option func(*Session)

// WithTrace logs every executed operation to logger.
func WithTrace(logger *log.Logger) Option {
	return func(s *Session) { s.interp.SetTrace(logger) }
}

// WithMaxCallDepth bounds user-function nesting; 0 removes the bound.
func WithMaxCallDepth(n int) Option {
	return func(s *Session) { s.interp.SetMaxCallDepth(n) }
}

// Session is one interpreter whose state survives between Eval calls.
// It is not safe for concurrent use.
type Session struct {
	interp *evaluator.Interpreter
}

func NewSession(opts ...Option) *Session {
	s := &Session{interp: evaluator.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eval interprets source against the session's stack and environment.
// Bindings made before a failing operation are kept.
func (s *Session) Eval(source string) error {
	return s.eval(source, "")
}

// EvalFile reads and interprets path; diagnostics carry the file name.
func (s *Session) EvalFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return s.eval(string(data), path)
}

func (s *Session) eval(source, file string) error {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = file
	s.interp.SetFile(file)

	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: s.interp.Registry()},
		&evaluator.EvaluatorProcessor{Interp: s.interp},
	)
	ctx = p.Run(ctx)
	if len(ctx.Errors) > 0 {
		return Errors(ctx.Errors)
	}
	return nil
}

// Reset clears the stack and every binding.
func (s *Session) Reset() { s.interp.Reset() }

func (s *Session) Env() *evaluator.Environment         { return s.interp.Env() }
func (s *Session) Stack() *evaluator.Stack             { return s.interp.Stack() }
func (s *Session) Interpreter() *evaluator.Interpreter { return s.interp }

// Run interprets a complete program and returns its model graph.
func Run(source string, opts ...Option) (*evaluator.Environment, error) {
	s := NewSession(opts...)
	if err := s.Eval(source); err != nil {
		return nil, err
	}
	return s.Env(), nil
}

// RunFile is Run for a program stored on disk.
func RunFile(path string, opts ...Option) (*evaluator.Environment, error) {
	s := NewSession(opts...)
	if err := s.EvalFile(path); err != nil {
		return nil, err
	}
	return s.Env(), nil
}

// FirstDiagnostic returns the earliest diagnostic in err, if any.
func FirstDiagnostic(err error) (*Diagnostic, bool) {
	var diag *Diagnostic
	if errors.As(err, &diag) {
		return diag, true
	}
	return nil, false
}

// Format parses source and prints it back in canonical layout: one
// statement per line, function bodies indented. Nothing is executed.
func Format(source string) (string, error) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: evaluator.NewRegistry()},
	).Run(pipeline.NewPipelineContext(source))
	if len(ctx.Errors) > 0 {
		return "", Errors(ctx.Errors)
	}
	return prettyprinter.Format(ctx.Program), nil
}
