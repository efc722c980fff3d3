package evaluator

import "fmt"

// DiscreteGamma and InvariantSites are registered with the distribution
// and model constructors; only the rate query lives here.
func registerRateOps(r *Registry) {
	r.Register(&Operation{
		Name:   "categoryRates",
		Group:  GroupRates,
		Effect: "dist -- rates",
		Arity:  1,
		Fn:     builtinCategoryRates,
	})
}

func builtinCategoryRates(in *Interpreter) error {
	top, _ := in.stack.Peek()
	var d *Distribution
	switch it := top.(type) {
	case *Distribution:
		d = it
	case *Variable:
		if it.IsStochastic() {
			d = it.Distribution()
		} else {
			d, _ = it.Terminal().(*Distribution)
		}
	}
	if d == nil {
		return fmt.Errorf("%w: expected a DiscreteGamma distribution, got %s", ErrWrongVariant, describe(top))
	}
	rates, err := d.CategoryRates()
	if err != nil {
		return err
	}
	out := make([]float64, len(rates))
	copy(out, rates)
	in.stack.Pop()
	in.stack.Push(NewDoubleArray(out))
	return nil
}
