package evaluator

import "fmt"

func registerBindingOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "~", Effect: "dist name --", Arity: 2, Fn: builtinStochastic},
		{Name: "=", Effect: "item name --", Arity: 2, Fn: builtinDeterministic},
		{Name: "var", Effect: "name -- variable", Arity: 1, Fn: builtinVar},
		{Name: "observe", Effect: "data name --", Arity: 2, Fn: builtinObserve},
	} {
		op.Group = GroupBinding
		r.Register(op)
	}
}

func builtinStochastic(in *Interpreter) error {
	return bind(in, true)
}

func builtinDeterministic(in *Interpreter) error {
	return bind(in, false)
}

func bind(in *Interpreter, stochastic bool) error {
	name, err := peekString(in.stack, 0, "a variable name")
	if err != nil {
		return err
	}
	value, _ := in.stack.PeekAt(1)
	if isArrayMarker(value) {
		return fmt.Errorf("%w: cannot bind '%s' to an open '['", ErrWrongVariant, name)
	}
	v, err := in.env.DefineVariable(name, value, stochastic)
	if err != nil {
		return err
	}
	discard(in.stack, 2)
	if in.trace != nil {
		in.trace.Printf("bind %s", v.Inspect())
	}
	return nil
}

func builtinVar(in *Interpreter) error {
	name, err := peekString(in.stack, 0, "a variable name")
	if err != nil {
		return err
	}
	v, err := in.env.GetVariable(name)
	if err != nil {
		return err
	}
	in.stack.Pop()
	in.stack.Push(v)
	return nil
}

func builtinObserve(in *Interpreter) error {
	name, err := peekString(in.stack, 0, "a variable name")
	if err != nil {
		return err
	}
	data, _ := in.stack.PeekAt(1)
	if err := in.env.Observe(name, data); err != nil {
		return err
	}
	discard(in.stack, 2)
	return nil
}
