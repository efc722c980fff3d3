package export

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/phylostack/internal/evaluator"
)

// value converts a stack item to its document form. Variables become
// references so the graph structure survives.
func value(item evaluator.StackItem) interface{} {
	switch it := item.(type) {
	case *evaluator.Primitive:
		return primitive(it)
	case *evaluator.Variable:
		return Ref{Ref: it.Name()}
	case *evaluator.Distribution:
		return distribution(it)
	case *evaluator.Model:
		return Model{Model: string(it.Kind), Parameters: params(it.ParamNames(), it.Params)}
	case *evaluator.Sequence:
		return Sequence{Taxon: it.Taxon, Sequence: it.Residues}
	case *evaluator.Constraint:
		return constraint(it)
	case *evaluator.UserFunction:
		return Function{Name: it.Name, StackEffect: it.StackEffect, Body: body(it)}
	}
	return item.Inspect()
}

func primitive(p *evaluator.Primitive) interface{} {
	switch p.Tag {
	case evaluator.IntTag:
		return Number{text: strconv.FormatInt(p.Int, 10), integer: true}
	case evaluator.DoubleTag:
		if math.IsNaN(p.Float) || math.IsInf(p.Float, 0) {
			return evaluator.FormatDouble(p.Float)
		}
		return Number{text: evaluator.FormatDouble(p.Float)}
	case evaluator.StringTag:
		return p.Str
	}
	arr := make([]interface{}, len(p.Items))
	for i, it := range p.Items {
		arr[i] = value(it)
	}
	return arr
}

func distribution(d *evaluator.Distribution) *Distribution {
	if d == nil {
		return nil
	}
	return &Distribution{Type: string(d.Kind), Parameters: params(d.ParamNames(), d.Params)}
}

func params(names []string, values []evaluator.Parameter) Params {
	out := make(Params, len(values))
	for i, p := range values {
		name := "p" + strconv.Itoa(i)
		if i < len(names) {
			name = names[i]
		}
		out[i] = Param{Name: name, Value: value(p)}
	}
	return out
}

func constraint(c *evaluator.Constraint) Constraint {
	ops := make([]interface{}, len(c.Operands))
	for i, p := range c.Operands {
		ops[i] = value(p)
	}
	return Constraint{Type: string(c.Kind), Operands: ops}
}

// body re-renders a function body as source text.
func body(fn *evaluator.UserFunction) string {
	parts := make([]string, len(fn.Body))
	for i, op := range fn.Body {
		parts[i] = op.Token.Lexeme
	}
	return strings.Join(parts, " ")
}
