package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/phylostack/internal/config"
)

type DistributionKind string

const (
	NormalDist        DistributionKind = "Normal"
	LogNormalDist     DistributionKind = "LogNormal"
	ExponentialDist   DistributionKind = "Exponential"
	GammaDist         DistributionKind = "Gamma"
	BetaDist          DistributionKind = "Beta"
	UniformDist       DistributionKind = "Uniform"
	DirichletDist     DistributionKind = "Dirichlet"
	YuleDist          DistributionKind = "Yule"
	BirthDeathDist    DistributionKind = "BirthDeath"
	CoalescentDist    DistributionKind = "Coalescent"
	PhyloCTMCDist     DistributionKind = "PhyloCTMC"
	DiscreteGammaDist DistributionKind = "DiscreteGamma"
)

// Distribution is a probability law over its ordered parameters.
type Distribution struct {
	Kind   DistributionKind
	Params []Parameter

	// category rates of a DiscreteGamma, kept once its parameters are fixed
	rates []float64
}

func (d *Distribution) Type() ItemType { return DISTRIBUTION_ITEM }
func (d *Distribution) stackItem()     {}
func (d *Distribution) Inspect() string {
	return fmt.Sprintf("%s(%s)", d.Kind, inspectParams(d.Params))
}

// ParamNames returns the declared parameter names of the distribution.
func (d *Distribution) ParamNames() []string {
	if spec, ok := distributionSpecs[d.Kind]; ok {
		return spec.params
	}
	return nil
}

// IsTreePrior reports whether the distribution generates a tree.
func (d *Distribution) IsTreePrior() bool {
	switch d.Kind {
	case YuleDist, BirthDeathDist, CoalescentDist:
		return true
	}
	return false
}

func (d *Distribution) number(i int) (float64, error) {
	return d.Params[i].NumberValue()
}

// Sample returns the stand-in draw used wherever a numeric value of an
// unobserved stochastic variable is needed: the expected value of the
// law. Tree-valued and sequence-valued laws have none.
func (d *Distribution) Sample() (StackItem, error) {
	switch d.Kind {
	case NormalDist:
		mean, err := d.number(0)
		if err != nil {
			return nil, err
		}
		return NewDouble(mean), nil
	case LogNormalDist:
		mu, err := d.number(0)
		if err != nil {
			return nil, err
		}
		sd, err := d.number(1)
		if err != nil {
			return nil, err
		}
		return NewDouble(math.Exp(mu + sd*sd/2)), nil
	case ExponentialDist:
		rate, err := d.number(0)
		if err != nil {
			return nil, err
		}
		return NewDouble(1 / rate), nil
	case GammaDist:
		shape, err := d.number(0)
		if err != nil {
			return nil, err
		}
		rate, err := d.number(1)
		if err != nil {
			return nil, err
		}
		return NewDouble(shape / rate), nil
	case BetaDist:
		a, err := d.number(0)
		if err != nil {
			return nil, err
		}
		b, err := d.number(1)
		if err != nil {
			return nil, err
		}
		return NewDouble(a / (a + b)), nil
	case UniformDist:
		lo, err := d.number(0)
		if err != nil {
			return nil, err
		}
		hi, err := d.number(1)
		if err != nil {
			return nil, err
		}
		return NewDouble((lo + hi) / 2), nil
	case DirichletDist:
		conc, err := d.Params[0].DoubleArray()
		if err != nil {
			return nil, err
		}
		var total float64
		for _, c := range conc {
			total += c
		}
		out := make([]float64, len(conc))
		for i, c := range conc {
			out[i] = c / total
		}
		return NewDoubleArray(out), nil
	case DiscreteGammaDist:
		return NewDouble(1), nil
	}
	return nil, fmt.Errorf("%w: %s distribution has no numeric value", ErrWrongVariant, d.Kind)
}

// CategoryRates returns the mean-one rates of a DiscreteGamma. The values
// approximate the category means by the gamma quantile at each
// category's midpoint (Wilson-Hilferty), not by exact incomplete-gamma
// integration.
func (d *Distribution) CategoryRates() ([]float64, error) {
	if d.Kind != DiscreteGammaDist {
		return nil, fmt.Errorf("%w: expected a DiscreteGamma distribution, got %s", ErrWrongVariant, d.Kind)
	}
	if d.rates != nil {
		return d.rates, nil
	}
	shape, shapeFixed, err := constNumber(d.Params[0])
	if err != nil {
		return nil, err
	}
	n, nFixed, err := constNumber(d.Params[1])
	if err != nil {
		return nil, err
	}
	if shape <= 0 || n < 1 || n != math.Trunc(n) {
		return nil, fmt.Errorf("%w: DiscreteGamma(shape=%g, ncat=%g)", ErrInvalidParameter, shape, n)
	}
	rates := discreteGammaRates(shape, int(n))
	if shapeFixed && nFixed {
		d.rates = rates
	}
	return rates, nil
}

func discreteGammaRates(shape float64, n int) []float64 {
	rates := make([]float64, n)
	c := 1 / (9 * shape)
	var total float64
	for i := 0; i < n; i++ {
		p := (2*float64(i) + 1) / (2 * float64(n))
		z := math.Sqrt2 * math.Erfinv(2*p-1)
		q := 1 - c + z*math.Sqrt(c)
		x := q * q * q
		if x < config.MinCategoryRate {
			x = config.MinCategoryRate
		}
		rates[i] = x
		total += x
	}
	for i := range rates {
		rates[i] *= float64(n) / total
	}
	return rates
}

// CheckObservation validates data attached with observe.
func (d *Distribution) CheckObservation(data StackItem) error {
	switch d.Kind {
	case NormalDist, LogNormalDist, ExponentialDist, GammaDist, BetaDist, UniformDist, DiscreteGammaDist:
		p, err := dataPrimitive(data)
		if err != nil {
			return err
		}
		x, err := p.NumberValue()
		if err != nil {
			return fmt.Errorf("%w: %s observation must be a number, got %s", ErrInvalidData, d.Kind, describe(p))
		}
		switch d.Kind {
		case LogNormalDist, GammaDist, DiscreteGammaDist:
			if x <= 0 {
				return fmt.Errorf("%w: %s observation must be > 0, got %s", ErrInvalidData, d.Kind, FormatDouble(x))
			}
		case ExponentialDist:
			if x < 0 {
				return fmt.Errorf("%w: %s observation must be >= 0, got %s", ErrInvalidData, d.Kind, FormatDouble(x))
			}
		case BetaDist:
			if x < 0 || x > 1 {
				return fmt.Errorf("%w: %s observation must lie in [0, 1], got %s", ErrInvalidData, d.Kind, FormatDouble(x))
			}
		}
		return nil
	case DirichletDist:
		p, err := dataPrimitive(data)
		if err != nil {
			return err
		}
		vals, err := p.DoubleArray()
		if err != nil {
			return fmt.Errorf("%w: Dirichlet observation must be an array of numbers", ErrInvalidData)
		}
		if conc, fixed, err := constArray(d.Params[0]); err == nil && fixed && len(conc) != len(vals) {
			return fmt.Errorf("%w: Dirichlet observation has %d entries, expected %d", ErrInvalidData, len(vals), len(conc))
		}
		if err := checkSimplex("observation", vals); err != nil {
			return fmt.Errorf("%w: Dirichlet %s", ErrInvalidData, err)
		}
		return nil
	case YuleDist, BirthDeathDist, CoalescentDist:
		p, err := dataPrimitive(data)
		if err != nil {
			return err
		}
		if s, err := p.StringValue(); err != nil || s == "" {
			return fmt.Errorf("%w: %s observation must be a non-empty tree string", ErrInvalidData, d.Kind)
		}
		return nil
	case PhyloCTMCDist:
		p, err := dataPrimitive(data)
		if err != nil {
			return err
		}
		if _, err := validateAlignment(p); err != nil {
			return err
		}
		return nil
	}
	return nil
}

// dataPrimitive resolves observed data, which may be a literal or a
// variable bound to one.
func dataPrimitive(data StackItem) (*Primitive, error) {
	switch it := data.(type) {
	case *Primitive:
		return it, nil
	case *Variable:
		p, _, err := it.resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: cannot observe %s", ErrInvalidData, describe(data))
}
