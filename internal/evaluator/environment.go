package evaluator

import "fmt"

// Environment is the flat, write-once namespace of one program run. A
// name is bound at most once, to either a variable or a function.
// It is owned by a single Interpreter and not safe for concurrent use.
type Environment struct {
	store       map[string]*binding
	order       []string
	constraints []*Constraint
}

type binding struct {
	variable *Variable
	function *UserFunction
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

func (e *Environment) checkFree(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidParameter)
	}
	if b, ok := e.store[name]; ok {
		kind := "variable"
		if b.function != nil {
			kind = "function"
		}
		return fmt.Errorf("%w: '%s' is already bound to a %s", ErrDuplicateName, name, kind)
	}
	return nil
}

// DefineVariable binds name. A stochastic variable must be bound to a
// *Distribution.
func (e *Environment) DefineVariable(name string, value StackItem, stochastic bool) (*Variable, error) {
	if err := e.checkFree(name); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: no value for '%s'", ErrWrongVariant, name)
	}
	if stochastic {
		if _, ok := value.(*Distribution); !ok {
			return nil, fmt.Errorf("%w: '%s ~' needs a distribution, got %s", ErrNotDistribution, name, describe(value))
		}
	}
	v := &Variable{name: name, stochastic: stochastic, value: value}
	e.store[name] = &binding{variable: v}
	e.order = append(e.order, name)
	return v, nil
}

func (e *Environment) GetVariable(name string) (*Variable, error) {
	b, ok := e.store[name]
	if !ok || b.variable == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUnboundVariable, name)
	}
	return b.variable, nil
}

// Observe attaches data to a stochastic variable.
func (e *Environment) Observe(name string, data StackItem) error {
	v, err := e.GetVariable(name)
	if err != nil {
		return err
	}
	if !v.stochastic {
		return fmt.Errorf("%w: '%s' is deterministic and cannot be observed", ErrNotStochastic, name)
	}
	if v.observed != nil {
		return fmt.Errorf("%w: '%s'", ErrAlreadyObserved, name)
	}
	if dependsOn(data, v, make(map[*Variable]bool)) {
		return fmt.Errorf("%w: observing '%s' with data that depends on it would make the graph cyclic", ErrInvalidData, name)
	}
	if err := v.Distribution().CheckObservation(data); err != nil {
		return fmt.Errorf("observing '%s': %w", name, err)
	}
	v.observed = data
	return nil
}

// dependsOn reports whether target is reachable from item through bound
// values, observed data and the parameters of distributions, models and
// constraints.
func dependsOn(item StackItem, target *Variable, seen map[*Variable]bool) bool {
	switch it := item.(type) {
	case *Variable:
		if it == target {
			return true
		}
		if seen[it] {
			return false
		}
		seen[it] = true
		if it.observed != nil && dependsOn(it.observed, target, seen) {
			return true
		}
		return dependsOn(it.value, target, seen)
	case *Primitive:
		for _, elem := range it.Items {
			if dependsOn(elem, target, seen) {
				return true
			}
		}
	case *Distribution:
		return anyDependsOn(it.Params, target, seen)
	case *Model:
		return anyDependsOn(it.Params, target, seen)
	case *Constraint:
		return anyDependsOn(it.Operands, target, seen)
	}
	return false
}

func anyDependsOn(params []Parameter, target *Variable, seen map[*Variable]bool) bool {
	for _, p := range params {
		if dependsOn(p, target, seen) {
			return true
		}
	}
	return false
}

func (e *Environment) DefineFunction(fn *UserFunction) error {
	if err := e.checkFree(fn.Name); err != nil {
		return err
	}
	e.store[fn.Name] = &binding{function: fn}
	e.order = append(e.order, fn.Name)
	return nil
}

func (e *Environment) GetFunction(name string) (*UserFunction, bool) {
	b, ok := e.store[name]
	if !ok || b.function == nil {
		return nil, false
	}
	return b.function, true
}

func (e *Environment) AddConstraint(c *Constraint) {
	e.constraints = append(e.constraints, c)
}

func (e *Environment) Constraints() []*Constraint {
	out := make([]*Constraint, len(e.constraints))
	copy(out, e.constraints)
	return out
}

// Variables returns all variables in definition order.
func (e *Environment) Variables() []*Variable {
	return e.variables(func(*Variable) bool { return true })
}

func (e *Environment) StochasticVariables() []*Variable {
	return e.variables(func(v *Variable) bool { return v.stochastic })
}

func (e *Environment) DeterministicVariables() []*Variable {
	return e.variables(func(v *Variable) bool { return !v.stochastic })
}

func (e *Environment) variables(keep func(*Variable) bool) []*Variable {
	var out []*Variable
	for _, name := range e.order {
		if v := e.store[name].variable; v != nil && keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (e *Environment) Functions() []*UserFunction {
	var out []*UserFunction
	for _, name := range e.order {
		if fn := e.store[name].function; fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

func (e *Environment) Has(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Reset drops every binding and constraint.
func (e *Environment) Reset() {
	e.store = make(map[string]*binding)
	e.order = nil
	e.constraints = nil
}
