package evaluator

import (
	"fmt"
	"math"
)

func registerArrayOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "[", Effect: "-- mark", Fn: builtinArrayOpen},
		{Name: "]", Effect: "mark a .. z -- arr", Fn: builtinArrayClose},
		{Name: "length", Effect: "arr -- n", Arity: 1, Fn: builtinLength},
		{Name: "sum", Effect: "arr -- x", Arity: 1, Fn: builtinSum},
	} {
		op.Group = GroupArray
		r.Register(op)
	}
}

// '[' is normally compiled to an ArrayOpen op; the builtin exists so the
// name resolves like every other operation.
func builtinArrayOpen(in *Interpreter) error {
	in.stack.Push(theArrayMarker)
	return nil
}

// builtinArrayClose gathers everything above the nearest marker into one
// array, keeping push order.
func builtinArrayClose(in *Interpreter) error {
	items := in.stack.Items()
	mark := -1
	for i := len(items) - 1; i >= 0; i-- {
		if isArrayMarker(items[i]) {
			mark = i
			break
		}
	}
	if mark < 0 {
		return fmt.Errorf("%w: ']' has no matching '['", ErrWrongVariant)
	}
	collected := make([]StackItem, len(items)-mark-1)
	copy(collected, items[mark+1:])
	discard(in.stack, len(items)-mark)
	in.stack.Push(NewArray(collected))
	return nil
}

func arrayAt(s *Stack, distance int) ([]StackItem, error) {
	item, err := s.PeekAt(distance)
	if err != nil {
		return nil, err
	}
	param, err := asParameter(item)
	if err != nil {
		return nil, err
	}
	return param.ArrayValue()
}

func builtinLength(in *Interpreter) error {
	items, err := arrayAt(in.stack, 0)
	if err != nil {
		return err
	}
	in.stack.Pop()
	in.stack.Push(NewInt(int64(len(items))))
	return nil
}

// builtinSum keeps integer arithmetic while every element is an int and
// the total fits.
func builtinSum(in *Interpreter) error {
	items, err := arrayAt(in.stack, 0)
	if err != nil {
		return err
	}
	var (
		intTotal int64
		total    float64
		allInt   = true
	)
	for i, it := range items {
		param, ok := it.(Parameter)
		if !ok {
			return fmt.Errorf("%w: array element %d is %s, not a number", ErrWrongVariant, i, describe(it))
		}
		x, err := param.NumberValue()
		if err != nil {
			return err
		}
		total += x
		if p, ok := it.(*Primitive); ok && p.Tag == IntTag && allInt {
			if r, ok := addInt(intTotal, p.Int); ok {
				intTotal = r
				continue
			}
		}
		allInt = false
	}
	in.stack.Pop()
	if allInt && !math.IsInf(total, 0) {
		in.stack.Push(NewInt(intTotal))
	} else {
		in.stack.Push(NewDouble(total))
	}
	return nil
}
