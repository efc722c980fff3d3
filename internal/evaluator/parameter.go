package evaluator

import "fmt"

// Parameter is anything that can be asked for a number, string or array.
// Primitives answer directly; Variables resolve through what they are
// bound to.
type Parameter interface {
	StackItem
	NumberValue() (float64, error)
	StringValue() (string, error)
	ArrayValue() ([]StackItem, error)
	DoubleArray() ([]float64, error)
}

var (
	_ Parameter = (*Primitive)(nil)
	_ Parameter = (*Variable)(nil)
)

func (p *Primitive) NumberValue() (float64, error) {
	switch p.Tag {
	case IntTag:
		return float64(p.Int), nil
	case DoubleTag:
		return p.Float, nil
	}
	return 0, fmt.Errorf("%w: expected a number, got %s", ErrWrongVariant, describe(p))
}

func (p *Primitive) StringValue() (string, error) {
	if p.Tag != StringTag {
		return "", fmt.Errorf("%w: expected a string, got %s", ErrWrongVariant, describe(p))
	}
	return p.Str, nil
}

func (p *Primitive) ArrayValue() ([]StackItem, error) {
	if p.Tag != ArrayTag {
		return nil, fmt.Errorf("%w: expected an array, got %s", ErrWrongVariant, describe(p))
	}
	return p.Items, nil
}

func (p *Primitive) DoubleArray() ([]float64, error) {
	items, err := p.ArrayValue()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, it := range items {
		param, ok := it.(Parameter)
		if !ok {
			return nil, fmt.Errorf("%w: array element %d is %s, not a number", ErrWrongVariant, i, describe(it))
		}
		if out[i], err = param.NumberValue(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// resolve unwraps a variable to the Primitive it stands for. fixed is
// false when the chain passes through an unobserved stochastic variable,
// whose value is only the distribution's stand-in.
func (v *Variable) resolve() (prim *Primitive, fixed bool, err error) {
	fixed = true
	var cur StackItem = v
	seen := make(map[*Variable]bool)
	for {
		switch it := cur.(type) {
		case *Primitive:
			return it, fixed, nil
		case *Variable:
			if seen[it] {
				return nil, false, fmt.Errorf("%w: variable '%s' refers back to itself", ErrInvalidData, it.name)
			}
			seen[it] = true
			switch {
			case !it.stochastic:
				cur = it.value
			case it.observed != nil:
				cur = it.observed
			default:
				fixed = false
				sample, err := it.Distribution().Sample()
				if err != nil {
					return nil, false, fmt.Errorf("variable '%s': %w", it.name, err)
				}
				cur = sample
			}
		default:
			return nil, false, fmt.Errorf("%w: variable '%s' holds %s, not a value", ErrWrongVariant, v.name, describe(it))
		}
	}
}

func (v *Variable) NumberValue() (float64, error) {
	p, _, err := v.resolve()
	if err != nil {
		return 0, err
	}
	return p.NumberValue()
}

func (v *Variable) StringValue() (string, error) {
	p, _, err := v.resolve()
	if err != nil {
		return "", err
	}
	return p.StringValue()
}

func (v *Variable) ArrayValue() ([]StackItem, error) {
	p, _, err := v.resolve()
	if err != nil {
		return nil, err
	}
	return p.ArrayValue()
}

func (v *Variable) DoubleArray() ([]float64, error) {
	p, _, err := v.resolve()
	if err != nil {
		return nil, err
	}
	return p.DoubleArray()
}

// Terminal follows deterministic bindings to the first item that is not a
// deterministic variable.
func (v *Variable) Terminal() StackItem {
	var cur StackItem = v
	for {
		next, ok := cur.(*Variable)
		if !ok || next.stochastic {
			return cur
		}
		cur = next.value
	}
}

// resolveParam returns the Primitive behind p and whether it is fixed.
func resolveParam(p Parameter) (*Primitive, bool, error) {
	switch it := p.(type) {
	case *Primitive:
		return it, true, nil
	case *Variable:
		return it.resolve()
	}
	return nil, false, fmt.Errorf("%w: %s is not a parameter", ErrWrongVariant, describe(p))
}

// asParameter narrows a stack item to a Parameter.
func asParameter(item StackItem) (Parameter, error) {
	switch it := item.(type) {
	case *Primitive:
		return it, nil
	case *Variable:
		return it, nil
	}
	return nil, fmt.Errorf("%w: expected a number, array, string or variable, got %s", ErrWrongVariant, describe(item))
}
