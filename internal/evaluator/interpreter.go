package evaluator

import (
	"errors"
	"fmt"
	"log"

	"github.com/funvibe/phylostack/internal/ast"
	"github.com/funvibe/phylostack/internal/config"
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/token"
)

type state int

const (
	stateNormal state = iota
	stateCollectingFunction
)

// Interpreter runs operation sequences against one Stack and one
// Environment. Instances share nothing; use one per concurrent program.
type Interpreter struct {
	stack    *Stack
	env      *Environment
	registry *Registry

	file     string
	maxDepth int
	depth    int
	trace    *log.Logger
}

func New() *Interpreter {
	return &Interpreter{
		stack:    NewStack(),
		env:      NewEnvironment(),
		registry: NewRegistry(),
		maxDepth: config.MaxCallDepth,
	}
}

func (in *Interpreter) Stack() *Stack               { return in.stack }
func (in *Interpreter) Env() *Environment           { return in.env }
func (in *Interpreter) Registry() *Registry         { return in.registry }
func (in *Interpreter) SetFile(file string)         { in.file = file }
func (in *Interpreter) SetTrace(logger *log.Logger) { in.trace = logger }

// SetMaxCallDepth bounds user-function nesting; 0 removes the bound.
func (in *Interpreter) SetMaxCallDepth(n int) { in.maxDepth = n }

// Reset clears the stack and the environment.
func (in *Interpreter) Reset() {
	in.stack.Clear()
	in.env.Reset()
	in.depth = 0
}

// Run executes a parsed program. The first failing operation aborts the
// run; its error is a *diagnostics.DiagnosticError.
func (in *Interpreter) Run(program *ast.Program) error {
	if program == nil {
		return nil
	}
	if program.File != "" {
		in.file = program.File
	}
	return in.execute(program.Ops)
}

// execute is the two-state loop: NORMAL runs operations, and a
// FunctionStart marker switches to collecting a definition until the
// matching FunctionEnd.
func (in *Interpreter) execute(ops []ast.Op) error {
	st := stateNormal
	var (
		fn        *UserFunction
		start     ast.Op
		bodyStart int
	)

	for pc := 0; pc < len(ops); pc++ {
		op := ops[pc]

		if st == stateNormal {
			if op.Kind == ast.FunctionStart {
				st = stateCollectingFunction
				start = op
				fn = nil
				continue
			}
			if err := in.step(op); err != nil {
				return err
			}
			continue
		}

		switch {
		case fn == nil:
			if op.Kind != ast.FunctionName {
				return in.fail(op, fmt.Errorf("%w: expected a function name after ':'", ErrMalformedProgram))
			}
			fn = &UserFunction{Name: op.Name}
			bodyStart = pc + 1
		case op.Kind == ast.StackEffect && pc == bodyStart:
			fn.StackEffect, _ = op.Value.(string)
			bodyStart = pc + 1
		case op.Kind == ast.FunctionStart:
			return in.failCode(op, diagnostics.ErrP007, fmt.Errorf("nested function definition inside '%s'", fn.Name))
		case op.Kind == ast.FunctionEnd:
			fn.Body = ops[bodyStart:pc:pc]
			if err := in.env.DefineFunction(fn); err != nil {
				return in.fail(start, err)
			}
			if in.trace != nil {
				in.trace.Printf("%d:%d define %s (%d ops)", start.Token.Line, start.Token.Column, fn.Name, len(fn.Body))
			}
			st = stateNormal
		}
	}

	if st == stateCollectingFunction {
		name := "?"
		if fn != nil {
			name = fn.Name
		}
		return in.fail(start, fmt.Errorf("%w: function '%s' has no terminating ';'", ErrMalformedProgram, name))
	}
	return nil
}

func (in *Interpreter) step(op ast.Op) error {
	if in.trace != nil {
		in.trace.Printf("%d:%d %-14s depth=%d", op.Token.Line, op.Token.Column, op.String(), in.stack.Size())
	}

	switch op.Kind {
	case ast.PushNumber:
		switch v := op.Value.(type) {
		case int64:
			in.stack.Push(NewInt(v))
		case float64:
			in.stack.Push(NewDouble(v))
		default:
			return in.fail(op, fmt.Errorf("%w: bad number literal %v", ErrMalformedProgram, op.Value))
		}
	case ast.PushString:
		s, _ := op.Value.(string)
		in.stack.Push(NewString(s))
	case ast.ArrayOpen:
		in.stack.Push(theArrayMarker)
	case ast.Named:
		return in.callBuiltin(op)
	case ast.CallFunction:
		return in.callFunction(op)
	default:
		return in.fail(op, fmt.Errorf("%w: stray %s", ErrMalformedProgram, op.Kind))
	}
	return nil
}

func (in *Interpreter) callBuiltin(op ast.Op) error {
	builtin, ok := in.registry.Lookup(op.Name)
	if !ok {
		return in.fail(op, fmt.Errorf("%w: '%s'", ErrUnknownOperation, op.Name))
	}
	if err := in.stack.Require(builtin.Arity); err != nil {
		return in.fail(op, err)
	}
	if err := builtin.Fn(in); err != nil {
		return in.fail(op, err)
	}
	return nil
}

// callFunction re-runs a stored body against the caller's stack and
// environment. There is no frame and no local scope.
func (in *Interpreter) callFunction(op ast.Op) error {
	fn, ok := in.env.GetFunction(op.Name)
	if !ok {
		return in.fail(op, fmt.Errorf("%w: '%s'", ErrUnboundFunction, op.Name))
	}
	if in.maxDepth > 0 && in.depth >= in.maxDepth {
		return in.fail(op, fmt.Errorf("%w: more than %d nested calls (last '%s')", ErrCallDepthExceeded, in.maxDepth, op.Name))
	}

	in.depth++
	err := in.execute(fn.Body)
	in.depth--
	if err != nil {
		var diag *diagnostics.DiagnosticError
		if errors.As(err, &diag) {
			diag.PushFrame(diagnostics.Frame{Name: fn.Name, Line: op.Token.Line, Column: op.Token.Column})
			return diag
		}
		return in.fail(op, err)
	}
	return nil
}

func (in *Interpreter) fail(op ast.Op, err error) error {
	return in.failCode(op, CodeFor(err), err)
}

func (in *Interpreter) failCode(op ast.Op, code diagnostics.ErrorCode, err error) error {
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		return err
	}
	diag = diagnostics.Wrap(code, op.Token, op.Label(), err)
	diag.File = in.file
	return diag
}

// Position of an operation, for front ends that only hold the error.
func Position(err error) (token.Token, bool) {
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		return diag.Token, true
	}
	return token.Token{}, false
}
