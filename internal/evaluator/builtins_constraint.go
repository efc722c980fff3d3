package evaluator

import "fmt"

func registerConstraintOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "lessThan", Effect: "a b -- c", Arity: 2, Fn: relation(LessThan)},
		{Name: "greaterThan", Effect: "a b -- c", Arity: 2, Fn: relation(GreaterThan)},
		{Name: "bounded", Effect: "x lo hi -- c", Arity: 3, Fn: builtinBounded},
		{Name: "constrain", Effect: "c --", Arity: 1, Fn: builtinConstrain},
	} {
		op.Group = GroupConstraint
		r.Register(op)
	}
}

// relation builds a two-operand constraint. Two constants that already
// violate it are rejected.
func relation(kind ConstraintKind) Builtin {
	return func(in *Interpreter) error {
		params, err := peekParams(in.stack, 2)
		if err != nil {
			return err
		}
		a, aFixed, err := constNumber(params[0])
		if err != nil {
			return err
		}
		b, bFixed, err := constNumber(params[1])
		if err != nil {
			return err
		}
		if aFixed && bFixed {
			holds := a < b
			if kind == GreaterThan {
				holds = a > b
			}
			if !holds {
				return fmt.Errorf("%w: %s(%s, %s) never holds", ErrInvalidParameter, kind, FormatDouble(a), FormatDouble(b))
			}
		}
		discard(in.stack, 2)
		in.stack.Push(&Constraint{Kind: kind, Operands: params})
		return nil
	}
}

func builtinBounded(in *Interpreter) error {
	params, err := peekParams(in.stack, 3)
	if err != nil {
		return err
	}
	vals := make([]float64, 3)
	fixed := make([]bool, 3)
	for i, p := range params {
		if vals[i], fixed[i], err = constNumber(p); err != nil {
			return err
		}
	}
	if fixed[1] && fixed[2] && !(vals[1] < vals[2]) {
		return fmt.Errorf("%w: bounded needs lo < hi, got %s and %s", ErrInvalidParameter, FormatDouble(vals[1]), FormatDouble(vals[2]))
	}
	if fixed[0] && fixed[1] && fixed[2] && (vals[0] < vals[1] || vals[0] > vals[2]) {
		return fmt.Errorf("%w: %s lies outside [%s, %s]", ErrInvalidParameter, FormatDouble(vals[0]), FormatDouble(vals[1]), FormatDouble(vals[2]))
	}
	discard(in.stack, 3)
	in.stack.Push(&Constraint{Kind: Bounded, Operands: params})
	return nil
}

func builtinConstrain(in *Interpreter) error {
	c, err := PopAs[*Constraint](in.stack, "a constraint")
	if err != nil {
		return err
	}
	in.env.AddConstraint(c)
	return nil
}
