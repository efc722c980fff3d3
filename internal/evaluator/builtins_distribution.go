package evaluator

import (
	"fmt"
	"strings"
)

// paramSpec declares the ordered parameters of a constructor and the rule
// checked for each. check runs after the per-parameter rules.
type paramSpec struct {
	group  string
	params []string
	rules  []rule
	check  func(owner string, params []Parameter) error
}

func (s paramSpec) effect(result string) string {
	return strings.TrimSpace(strings.Join(s.params, " ") + " -- " + result)
}

func (s paramSpec) validate(owner string, params []Parameter) error {
	for i, r := range s.rules {
		if err := r(owner, s.params[i], params[i]); err != nil {
			return err
		}
	}
	if s.check != nil {
		return s.check(owner, params)
	}
	return nil
}

var distributionOrder = []DistributionKind{
	NormalDist, LogNormalDist, ExponentialDist, GammaDist, BetaDist, UniformDist, DirichletDist,
	YuleDist, BirthDeathDist, CoalescentDist,
	PhyloCTMCDist,
	DiscreteGammaDist,
}

var distributionSpecs = map[DistributionKind]paramSpec{
	NormalDist:      {group: GroupDistribution, params: []string{"mean", "sd"}, rules: []rule{anyNumber, positive}},
	LogNormalDist:   {group: GroupDistribution, params: []string{"meanlog", "sdlog"}, rules: []rule{anyNumber, positive}},
	ExponentialDist: {group: GroupDistribution, params: []string{"rate"}, rules: []rule{positive}},
	GammaDist:       {group: GroupDistribution, params: []string{"shape", "rate"}, rules: []rule{positive, positive}},
	BetaDist:        {group: GroupDistribution, params: []string{"alpha", "beta"}, rules: []rule{positive, positive}},
	UniformDist: {
		group:  GroupDistribution,
		params: []string{"lower", "upper"},
		rules:  []rule{anyNumber, anyNumber},
		check:  ordered,
	},
	DirichletDist: {group: GroupDistribution, params: []string{"concentrations"}, rules: []rule{positiveVector(0)}},

	YuleDist:       {group: GroupTreePrior, params: []string{"birthRate"}, rules: []rule{positive}},
	BirthDeathDist: {group: GroupTreePrior, params: []string{"birthRate", "deathRate"}, rules: []rule{positive, nonNegative}},
	CoalescentDist: {group: GroupTreePrior, params: []string{"popSize"}, rules: []rule{positive}},

	PhyloCTMCDist: {group: GroupPhylo, params: []string{"tree", "Q"}, rules: []rule{treeVariable, substitutionVariable}},

	DiscreteGammaDist: {group: GroupRates, params: []string{"shape", "ncat"}, rules: []rule{positive, positiveInteger}},
}

func registerDistributionOps(r *Registry) {
	for _, kind := range distributionOrder {
		spec := distributionSpecs[kind]
		r.Register(&Operation{
			Name:   string(kind),
			Group:  spec.group,
			Effect: spec.effect("dist"),
			Arity:  len(spec.params),
			Fn:     newDistribution(kind, spec),
		})
	}
}

// newDistribution returns the constructor for kind. Parameters are read
// top-down, so the last declared parameter is on top of the stack; they
// are stored in declaration order.
func newDistribution(kind DistributionKind, spec paramSpec) Builtin {
	return func(in *Interpreter) error {
		params, err := peekParams(in.stack, len(spec.params))
		if err != nil {
			return err
		}
		if err := spec.validate(string(kind), params); err != nil {
			return err
		}
		discard(in.stack, len(params))
		in.stack.Push(&Distribution{Kind: kind, Params: params})
		return nil
	}
}

// ordered requires lower < upper when both are constants.
func ordered(owner string, params []Parameter) error {
	lo, loFixed, _ := constNumber(params[0])
	hi, hiFixed, _ := constNumber(params[1])
	if loFixed && hiFixed && !(lo < hi) {
		return fmt.Errorf("%w: %s needs lower < upper, got %s and %s", ErrInvalidParameter, owner, FormatDouble(lo), FormatDouble(hi))
	}
	return nil
}

func treeVariable(owner, name string, p Parameter) error {
	v, ok := p.(*Variable)
	if !ok {
		return fmt.Errorf("%w: %s parameter '%s' must be a variable, got %s", ErrWrongVariant, owner, name, describe(p))
	}
	d := v.Distribution()
	if !v.IsStochastic() || d == nil || !d.IsTreePrior() {
		return fmt.Errorf("%w: %s parameter '%s' must be a stochastic variable with a tree prior, got %s", ErrInvalidParameter, owner, name, v.Inspect())
	}
	return nil
}

func substitutionVariable(owner, name string, p Parameter) error {
	v, ok := p.(*Variable)
	if !ok {
		return fmt.Errorf("%w: %s parameter '%s' must be a variable, got %s", ErrWrongVariant, owner, name, describe(p))
	}
	m, ok := v.Terminal().(*Model)
	if !ok || !m.IsSubstitutionModel() {
		return fmt.Errorf("%w: %s parameter '%s' must be bound to a substitution model, got %s", ErrInvalidParameter, owner, name, v.Inspect())
	}
	return nil
}
