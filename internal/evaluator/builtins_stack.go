package evaluator

import (
	"fmt"
	"math"
)

func registerStackOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "dup", Effect: "a -- a a", Arity: 1, Fn: builtinDup},
		{Name: "drop", Effect: "a --", Arity: 1, Fn: builtinDrop},
		{Name: "swap", Effect: "a b -- b a", Arity: 2, Fn: builtinSwap},
		{Name: "over", Effect: "a b -- a b a", Arity: 2, Fn: builtinOver},
		{Name: "rot", Effect: "a b c -- b c a", Arity: 3, Fn: builtinRot},
		{Name: "nip", Effect: "a b -- b", Arity: 2, Fn: builtinNip},
		{Name: "tuck", Effect: "a b -- b a b", Arity: 2, Fn: builtinTuck},
		{Name: "pick", Effect: "xn .. x0 n -- xn .. x0 xn", Arity: 1, Fn: builtinPick},
		{Name: "depth", Effect: "-- n", Fn: builtinDepth},
		{Name: "clear", Effect: "... --", Fn: builtinClear},
	} {
		op.Group = GroupStack
		r.Register(op)
	}
}

func builtinDup(in *Interpreter) error {
	top, err := in.stack.Peek()
	if err != nil {
		return err
	}
	in.stack.Push(duplicate(top))
	return nil
}

func builtinDrop(in *Interpreter) error {
	_, err := in.stack.Pop()
	return err
}

func builtinSwap(in *Interpreter) error {
	b, _ := in.stack.Pop()
	a, _ := in.stack.Pop()
	in.stack.Push(b)
	in.stack.Push(a)
	return nil
}

func builtinOver(in *Interpreter) error {
	a, err := in.stack.PeekAt(1)
	if err != nil {
		return err
	}
	in.stack.Push(duplicate(a))
	return nil
}

func builtinRot(in *Interpreter) error {
	c, _ := in.stack.Pop()
	b, _ := in.stack.Pop()
	a, _ := in.stack.Pop()
	in.stack.Push(b)
	in.stack.Push(c)
	in.stack.Push(a)
	return nil
}

func builtinNip(in *Interpreter) error {
	b, _ := in.stack.Pop()
	in.stack.Pop()
	in.stack.Push(b)
	return nil
}

func builtinTuck(in *Interpreter) error {
	b, _ := in.stack.Pop()
	a, _ := in.stack.Pop()
	in.stack.Push(duplicate(b))
	in.stack.Push(a)
	in.stack.Push(b)
	return nil
}

// builtinPick checks the index against the stack before popping it, so a
// failed pick leaves the stack as it was.
func builtinPick(in *Interpreter) error {
	idx, err := PeekAs[*Primitive](in.stack, 0, "an index")
	if err != nil {
		return err
	}
	n, err := idx.NumberValue()
	if err != nil {
		return err
	}
	if n < 0 || n != math.Trunc(n) {
		return fmt.Errorf("%w: pick index must be a non-negative integer, got %s", ErrIndexOutOfRange, idx.Inspect())
	}
	below := in.stack.Size() - 1
	if n >= float64(below) {
		return fmt.Errorf("%w: pick index %s with %d items below it", ErrIndexOutOfRange, idx.Inspect(), below)
	}
	item, _ := in.stack.PeekAt(int(n) + 1)
	in.stack.Pop()
	in.stack.Push(duplicate(item))
	return nil
}

func builtinDepth(in *Interpreter) error {
	in.stack.Push(NewInt(int64(in.stack.Size())))
	return nil
}

func builtinClear(in *Interpreter) error {
	in.stack.Clear()
	return nil
}
