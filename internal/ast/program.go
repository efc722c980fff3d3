// Package ast holds the parser's output: a flat sequence of operations.
//
// Function bodies are not nested. A definition is emitted inline as
//
//	FunctionStart FunctionName [StackEffect] body... FunctionEnd
//
// and the interpreter extracts the slice between the markers.
package ast

import (
	"fmt"
	"strings"

	"github.com/funvibe/phylostack/internal/token"
)

type OpKind int

const (
	PushNumber    OpKind = iota // Value is int64 or float64
	PushString                  // Value is string
	ArrayOpen                   // pushes the array marker
	Named                       // built-in operation, Name is its canonical name
	CallFunction                // user function call, resolved at run time
	FunctionStart               // ':'
	FunctionName                // Name is the function being defined
	StackEffect                 // Value is the documentation text
	FunctionEnd                 // ';'
)

var opKindNames = [...]string{
	PushNumber:    "push-number",
	PushString:    "push-string",
	ArrayOpen:     "array-open",
	Named:         "op",
	CallFunction:  "call",
	FunctionStart: "function-start",
	FunctionName:  "function-name",
	StackEffect:   "stack-effect",
	FunctionEnd:   "function-end",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one element of the operation sequence.
type Op struct {
	Kind  OpKind
	Token token.Token
	Name  string
	Value interface{}
}

func (o Op) String() string {
	switch o.Kind {
	case PushNumber:
		return fmt.Sprintf("%s %v", o.Kind, o.Value)
	case PushString:
		return fmt.Sprintf("%s %q", o.Kind, o.Value)
	case StackEffect:
		return fmt.Sprintf("%s (%v)", o.Kind, o.Value)
	case Named, CallFunction, FunctionName:
		return fmt.Sprintf("%s %s", o.Kind, o.Name)
	default:
		return o.Kind.String()
	}
}

// Label is the name used for the operation in diagnostics.
func (o Op) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Token.Lexeme
}

type Program struct {
	File string
	Ops  []Op
}

// String renders one operation per line, indenting function bodies.
func (p *Program) String() string {
	var sb strings.Builder
	indent := ""
	for _, op := range p.Ops {
		if op.Kind == FunctionEnd {
			indent = ""
		}
		sb.WriteString(indent)
		sb.WriteString(op.String())
		sb.WriteByte('\n')
		if op.Kind == FunctionStart {
			indent = "  "
		}
	}
	return sb.String()
}
