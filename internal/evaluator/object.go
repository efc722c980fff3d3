package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/phylostack/internal/ast"
)

type ItemType string

const (
	PRIMITIVE_ITEM    ItemType = "Primitive"
	VARIABLE_ITEM     ItemType = "Variable"
	DISTRIBUTION_ITEM ItemType = "Distribution"
	MODEL_ITEM        ItemType = "Model"
	SEQUENCE_ITEM     ItemType = "Sequence"
	CONSTRAINT_ITEM   ItemType = "Constraint"
	FUNCTION_ITEM     ItemType = "UserFunction"
	MARKER_ITEM       ItemType = "ArrayMarker"
)

// StackItem is any value on the interpreter stack. The set of
// implementations is closed: the unexported method keeps other packages
// from adding variants.
type StackItem interface {
	Type() ItemType
	Inspect() string
	stackItem()
}

type PrimitiveTag int

const (
	IntTag PrimitiveTag = iota
	DoubleTag
	StringTag
	ArrayTag
)

// Primitive is an anonymous literal. Integers and doubles are kept apart
// so that exporters can print 5 and 5.0 differently.
type Primitive struct {
	Tag   PrimitiveTag
	Int   int64
	Float float64
	Str   string
	Items []StackItem
}

func NewInt(v int64) *Primitive      { return &Primitive{Tag: IntTag, Int: v} }
func NewDouble(v float64) *Primitive { return &Primitive{Tag: DoubleTag, Float: v} }
func NewString(v string) *Primitive  { return &Primitive{Tag: StringTag, Str: v} }

func NewArray(items []StackItem) *Primitive {
	if items == nil {
		items = []StackItem{}
	}
	return &Primitive{Tag: ArrayTag, Items: items}
}

// NewDoubleArray wraps a float slice as an array of double Primitives.
func NewDoubleArray(vals []float64) *Primitive {
	items := make([]StackItem, len(vals))
	for i, v := range vals {
		items[i] = NewDouble(v)
	}
	return NewArray(items)
}

func (p *Primitive) Type() ItemType { return PRIMITIVE_ITEM }
func (p *Primitive) stackItem()     {}

func (p *Primitive) IsNumeric() bool { return p.Tag == IntTag || p.Tag == DoubleTag }

// Copy returns an equal value. Nested Primitives are copied; other items
// inside an array stay shared.
func (p *Primitive) Copy() *Primitive {
	cp := *p
	if p.Tag == ArrayTag {
		cp.Items = make([]StackItem, len(p.Items))
		for i, it := range p.Items {
			if inner, ok := it.(*Primitive); ok {
				cp.Items[i] = inner.Copy()
			} else {
				cp.Items[i] = it
			}
		}
	}
	return &cp
}

func (p *Primitive) Inspect() string {
	switch p.Tag {
	case IntTag:
		return strconv.FormatInt(p.Int, 10)
	case DoubleTag:
		return FormatDouble(p.Float)
	case StringTag:
		return strconv.Quote(p.Str)
	default:
		parts := make([]string, len(p.Items))
		for i, it := range p.Items {
			parts[i] = it.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// FormatDouble prints integral doubles with a trailing ".0".
func FormatDouble(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Variable is a named node of the model graph.
type Variable struct {
	name       string
	stochastic bool
	value      StackItem
	observed   StackItem
}

func (v *Variable) Type() ItemType { return VARIABLE_ITEM }
func (v *Variable) stackItem()     {}

func (v *Variable) Name() string       { return v.name }
func (v *Variable) IsStochastic() bool { return v.stochastic }

// Value is the bound item: a *Distribution for stochastic variables.
func (v *Variable) Value() StackItem { return v.value }

// Distribution returns the law of a stochastic variable, or nil.
func (v *Variable) Distribution() *Distribution {
	d, _ := v.value.(*Distribution)
	return d
}

func (v *Variable) Observed() (StackItem, bool) {
	return v.observed, v.observed != nil
}

func (v *Variable) Inspect() string {
	if v.stochastic {
		return fmt.Sprintf("%s ~ %s", v.name, v.value.Inspect())
	}
	return fmt.Sprintf("%s = %s", v.name, v.value.Inspect())
}

// Sequence is one taxon's residues.
type Sequence struct {
	Taxon    string
	Residues string
}

func (s *Sequence) Type() ItemType { return SEQUENCE_ITEM }
func (s *Sequence) stackItem()     {}
func (s *Sequence) Inspect() string {
	res := s.Residues
	if len(res) > 24 {
		res = res[:24] + "..."
	}
	return fmt.Sprintf("Sequence(%s: %s)", s.Taxon, res)
}

type ConstraintKind string

const (
	LessThan    ConstraintKind = "lessThan"
	GreaterThan ConstraintKind = "greaterThan"
	Bounded     ConstraintKind = "bounded"
)

// Constraint relates parameters of the model.
type Constraint struct {
	Kind     ConstraintKind
	Operands []Parameter
}

func (c *Constraint) Type() ItemType { return CONSTRAINT_ITEM }
func (c *Constraint) stackItem()     {}
func (c *Constraint) Inspect() string {
	return fmt.Sprintf("%s(%s)", c.Kind, inspectParams(c.Operands))
}

// UserFunction is a named slice of the program re-run on each call.
type UserFunction struct {
	Name        string
	Body        []ast.Op
	StackEffect string
}

func (f *UserFunction) Type() ItemType { return FUNCTION_ITEM }
func (f *UserFunction) stackItem()     {}
func (f *UserFunction) Inspect() string {
	if f.StackEffect != "" {
		return fmt.Sprintf(": %s ( %s ) <%d ops> ;", f.Name, f.StackEffect, len(f.Body))
	}
	return fmt.Sprintf(": %s <%d ops> ;", f.Name, len(f.Body))
}

// arrayMarker is the sentinel pushed by '['.
type arrayMarker struct{}

func (arrayMarker) Type() ItemType  { return MARKER_ITEM }
func (arrayMarker) Inspect() string { return "[" }
func (arrayMarker) stackItem()      {}

var theArrayMarker StackItem = arrayMarker{}

func isArrayMarker(item StackItem) bool {
	_, ok := item.(arrayMarker)
	return ok
}

// describe names an item in error messages.
func describe(item StackItem) string {
	if p, ok := item.(*Primitive); ok {
		switch p.Tag {
		case IntTag:
			return "integer " + p.Inspect()
		case DoubleTag:
			return "double " + p.Inspect()
		case StringTag:
			return "string " + p.Inspect()
		default:
			return "array"
		}
	}
	if v, ok := item.(*Variable); ok {
		return fmt.Sprintf("variable '%s'", v.name)
	}
	if d, ok := item.(*Distribution); ok {
		return fmt.Sprintf("%s distribution", d.Kind)
	}
	if m, ok := item.(*Model); ok {
		return fmt.Sprintf("%s model", m.Kind)
	}
	return string(item.Type())
}

func inspectParams(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if v, ok := p.(*Variable); ok {
			parts[i] = v.name
		} else {
			parts[i] = p.Inspect()
		}
	}
	return strings.Join(parts, ", ")
}
