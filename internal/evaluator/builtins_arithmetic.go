package evaluator

import (
	"fmt"
	"math"
)

func registerArithmeticOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "+", Effect: "a b -- a+b", Arity: 2, Fn: binaryOp(addInt, func(a, b float64) (float64, error) { return a + b, nil })},
		{Name: "-", Effect: "a b -- a-b", Arity: 2, Fn: binaryOp(subInt, func(a, b float64) (float64, error) { return a - b, nil })},
		{Name: "*", Effect: "a b -- a*b", Arity: 2, Fn: binaryOp(mulInt, func(a, b float64) (float64, error) { return a * b, nil })},
		{Name: "/", Effect: "a b -- a/b", Arity: 2, Fn: binaryOp(nil, divide)},
		{Name: "pow", Effect: "base exp -- r", Arity: 2, Fn: binaryOp(nil, power)},
		{Name: "negate", Effect: "x -- -x", Arity: 1, Fn: builtinNegate},
		{Name: "abs", Effect: "x -- |x|", Arity: 1, Fn: builtinAbs},
		{Name: "sqrt", Effect: "x -- r", Arity: 1, Fn: unaryOp(squareRoot)},
		{Name: "exp", Effect: "x -- r", Arity: 1, Fn: unaryOp(func(x float64) (float64, error) { return math.Exp(x), nil })},
		{Name: "log", Effect: "x -- r", Arity: 1, Fn: unaryOp(logarithm)},
		{Name: "pi", Effect: "-- pi", Fn: builtinPi},
	} {
		op.Group = GroupArithmetic
		r.Register(op)
	}
}

// numberAt reads a numeric Primitive without popping it.
func numberAt(s *Stack, distance int) (*Primitive, error) {
	p, err := PeekAs[*Primitive](s, distance, "a number")
	if err != nil {
		return nil, err
	}
	if !p.IsNumeric() {
		return nil, fmt.Errorf("%w: expected a number, got %s", ErrWrongVariant, describe(p))
	}
	return p, nil
}

type intFunc func(a, b int64) (int64, bool)
type floatFunc func(a, b float64) (float64, error)

// binaryOp combines the two top numbers. With ints an integer result is
// produced unless intOp is nil or reports overflow.
func binaryOp(intOp intFunc, floatOp floatFunc) Builtin {
	return func(in *Interpreter) error {
		b, err := numberAt(in.stack, 0)
		if err != nil {
			return err
		}
		a, err := numberAt(in.stack, 1)
		if err != nil {
			return err
		}

		var result *Primitive
		if intOp != nil && a.Tag == IntTag && b.Tag == IntTag {
			if r, ok := intOp(a.Int, b.Int); ok {
				result = NewInt(r)
			}
		}
		if result == nil {
			x, _ := a.NumberValue()
			y, _ := b.NumberValue()
			r, err := floatOp(x, y)
			if err != nil {
				return err
			}
			result = NewDouble(r)
		}
		discard(in.stack, 2)
		in.stack.Push(result)
		return nil
	}
}

func unaryOp(fn func(float64) (float64, error)) Builtin {
	return func(in *Interpreter) error {
		p, err := numberAt(in.stack, 0)
		if err != nil {
			return err
		}
		x, _ := p.NumberValue()
		r, err := fn(x)
		if err != nil {
			return err
		}
		in.stack.Pop()
		in.stack.Push(NewDouble(r))
		return nil
	}
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	return r, (r > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	return r, (r < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %s / 0", ErrDivisionByZero, FormatDouble(a))
	}
	return a / b, nil
}

func power(a, b float64) (float64, error) {
	r := math.Pow(a, b)
	if math.IsNaN(r) {
		return 0, fmt.Errorf("%w: %s ^ %s is not a real number", ErrMathDomain, FormatDouble(a), FormatDouble(b))
	}
	if math.IsInf(r, 0) && a == 0 {
		return 0, fmt.Errorf("%w: 0 raised to a negative power", ErrDivisionByZero)
	}
	return r, nil
}

func squareRoot(x float64) (float64, error) {
	if x < 0 {
		return 0, fmt.Errorf("%w: square root of negative number %s", ErrMathDomain, FormatDouble(x))
	}
	return math.Sqrt(x), nil
}

func logarithm(x float64) (float64, error) {
	if x <= 0 {
		return 0, fmt.Errorf("%w: logarithm of non-positive number %s", ErrMathDomain, FormatDouble(x))
	}
	return math.Log(x), nil
}

func builtinNegate(in *Interpreter) error {
	p, err := numberAt(in.stack, 0)
	if err != nil {
		return err
	}
	in.stack.Pop()
	if p.Tag == IntTag && p.Int != math.MinInt64 {
		in.stack.Push(NewInt(-p.Int))
		return nil
	}
	x, _ := p.NumberValue()
	in.stack.Push(NewDouble(-x))
	return nil
}

func builtinAbs(in *Interpreter) error {
	p, err := numberAt(in.stack, 0)
	if err != nil {
		return err
	}
	in.stack.Pop()
	if p.Tag == IntTag && p.Int != math.MinInt64 {
		if p.Int < 0 {
			in.stack.Push(NewInt(-p.Int))
		} else {
			in.stack.Push(NewInt(p.Int))
		}
		return nil
	}
	x, _ := p.NumberValue()
	in.stack.Push(NewDouble(math.Abs(x)))
	return nil
}

func builtinPi(in *Interpreter) error {
	in.stack.Push(NewDouble(math.Pi))
	return nil
}
