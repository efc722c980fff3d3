package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/phylostack/internal/config"
)

// constNumber returns the value of a scalar parameter. fixed is false for
// parameters that depend on an unobserved stochastic variable; those are
// still checked for shape but not for range.
func constNumber(p Parameter) (val float64, fixed bool, err error) {
	prim, fixed, err := resolveParam(p)
	if err != nil {
		return 0, false, err
	}
	if !prim.IsNumeric() {
		return 0, false, fmt.Errorf("%w: expected a number, got %s", ErrWrongVariant, describe(prim))
	}
	val, _ = prim.NumberValue()
	return val, fixed, nil
}

func constArray(p Parameter) (vals []float64, fixed bool, err error) {
	prim, fixed, err := resolveParam(p)
	if err != nil {
		return nil, false, err
	}
	if prim.Tag != ArrayTag {
		return nil, false, fmt.Errorf("%w: expected an array, got %s", ErrWrongVariant, describe(prim))
	}
	vals, err = prim.DoubleArray()
	if err != nil {
		return nil, false, err
	}
	return vals, fixed, nil
}

type rule func(owner, name string, p Parameter) error

func positive(owner, name string, p Parameter) error {
	v, fixed, err := constNumber(p)
	if err != nil {
		return paramErr(owner, name, err)
	}
	if fixed && !(v > 0) {
		return fmt.Errorf("%w: %s parameter '%s' must be > 0, got %s", ErrInvalidParameter, owner, name, FormatDouble(v))
	}
	return nil
}

func nonNegative(owner, name string, p Parameter) error {
	v, fixed, err := constNumber(p)
	if err != nil {
		return paramErr(owner, name, err)
	}
	if fixed && !(v >= 0) {
		return fmt.Errorf("%w: %s parameter '%s' must be >= 0, got %s", ErrInvalidParameter, owner, name, FormatDouble(v))
	}
	return nil
}

func anyNumber(owner, name string, p Parameter) error {
	v, fixed, err := constNumber(p)
	if err != nil {
		return paramErr(owner, name, err)
	}
	if fixed && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return fmt.Errorf("%w: %s parameter '%s' must be finite", ErrInvalidParameter, owner, name)
	}
	return nil
}

func probability(owner, name string, p Parameter) error {
	v, fixed, err := constNumber(p)
	if err != nil {
		return paramErr(owner, name, err)
	}
	if fixed && !(v >= 0 && v < 1) {
		return fmt.Errorf("%w: %s parameter '%s' must lie in [0, 1), got %s", ErrInvalidParameter, owner, name, FormatDouble(v))
	}
	return nil
}

func positiveInteger(owner, name string, p Parameter) error {
	v, fixed, err := constNumber(p)
	if err != nil {
		return paramErr(owner, name, err)
	}
	if fixed && (v < 1 || v != math.Trunc(v)) {
		return fmt.Errorf("%w: %s parameter '%s' must be a positive integer, got %s", ErrInvalidParameter, owner, name, FormatDouble(v))
	}
	return nil
}

// positiveVector checks an array of strictly positive entries; n <= 0
// accepts any length of at least two.
func positiveVector(n int) rule {
	return func(owner, name string, p Parameter) error {
		vals, fixed, err := constArray(p)
		if err != nil {
			return paramErr(owner, name, err)
		}
		if err := checkLength(owner, name, vals, n); err != nil {
			return err
		}
		if !fixed {
			return nil
		}
		for i, v := range vals {
			if !(v > 0) {
				return fmt.Errorf("%w: %s parameter '%s' entry %d must be > 0, got %s", ErrInvalidParameter, owner, name, i, FormatDouble(v))
			}
		}
		return nil
	}
}

// simplex checks a probability vector of length n.
func simplex(n int) rule {
	return func(owner, name string, p Parameter) error {
		vals, fixed, err := constArray(p)
		if err != nil {
			return paramErr(owner, name, err)
		}
		if err := checkLength(owner, name, vals, n); err != nil {
			return err
		}
		if !fixed {
			return nil
		}
		if err := checkSimplex(name, vals); err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidParameter, owner, err)
		}
		return nil
	}
}

func checkLength(owner, name string, vals []float64, n int) error {
	if n > 0 && len(vals) != n {
		return fmt.Errorf("%w: %s parameter '%s' must have %d entries, got %d", ErrInvalidParameter, owner, name, n, len(vals))
	}
	if n <= 0 && len(vals) < 2 {
		return fmt.Errorf("%w: %s parameter '%s' needs at least 2 entries, got %d", ErrInvalidParameter, owner, name, len(vals))
	}
	return nil
}

// checkSimplex reports entries below zero or a sum away from one.
func checkSimplex(name string, vals []float64) error {
	var total float64
	for i, v := range vals {
		if v < 0 {
			return fmt.Errorf("'%s' entry %d is negative (%s)", name, i, FormatDouble(v))
		}
		total += v
	}
	if math.Abs(total-1) > config.SimplexTolerance {
		return fmt.Errorf("'%s' must sum to 1, got %s", name, FormatDouble(total))
	}
	return nil
}

func paramErr(owner, name string, err error) error {
	return fmt.Errorf("%s parameter '%s': %w", owner, name, err)
}
