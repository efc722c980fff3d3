package evaluator

import (
	"fmt"
	"sort"
	"strings"
)

// Builtin is the behavior of a built-in operation.
type Builtin func(in *Interpreter) error

// Operation is one entry of the registry.
type Operation struct {
	Name  string
	Group string
	// Effect documents the stack effect, e.g. "mean sd -- dist".
	Effect string
	// Arity is the minimum number of items the operation pops; the
	// interpreter checks it before calling Fn.
	Arity       int
	Fn          Builtin
	Unsupported bool
}

// Provider groups, in listing order.
const (
	GroupStack        = "stack"
	GroupArithmetic   = "arithmetic"
	GroupArray        = "array"
	GroupBinding      = "binding"
	GroupDistribution = "distribution"
	GroupTreePrior    = "tree-prior"
	GroupPhylo        = "phylo"
	GroupSubstitution = "substitution"
	GroupRates        = "rates"
	GroupTree         = "tree"
	GroupData         = "data"
	GroupConstraint   = "constraint"
)

var groupOrder = []string{
	GroupStack, GroupArithmetic, GroupArray, GroupBinding, GroupDistribution,
	GroupTreePrior, GroupPhylo, GroupSubstitution, GroupRates, GroupTree,
	GroupData, GroupConstraint,
}

// Registry is the flat, case-insensitive operation table.
type Registry struct {
	ops   map[string]*Operation
	order []*Operation
}

// NewRegistry builds the full table of built-in operations.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]*Operation)}
	registerStackOps(r)
	registerArithmeticOps(r)
	registerArrayOps(r)
	registerBindingOps(r)
	registerDistributionOps(r)
	registerSubstitutionOps(r)
	registerRateOps(r)
	registerTreeOps(r)
	registerDataOps(r)
	registerConstraintOps(r)
	return r
}

// Register adds op. Names are unique ignoring case.
func (r *Registry) Register(op *Operation) {
	key := strings.ToLower(op.Name)
	if _, exists := r.ops[key]; exists {
		panic(fmt.Sprintf("operation %q registered twice", op.Name))
	}
	r.ops[key] = op
	r.order = append(r.order, op)
}

func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.ops[strings.ToLower(name)]
	return op, ok
}

// Resolve implements parser.OperationTable.
func (r *Registry) Resolve(name string) (string, bool) {
	op, ok := r.Lookup(name)
	if !ok {
		return "", false
	}
	return op.Name, true
}

// Operations lists every operation grouped by provider.
func (r *Registry) Operations() []*Operation {
	rank := make(map[string]int, len(groupOrder))
	for i, g := range groupOrder {
		rank[g] = i
	}
	out := make([]*Operation, len(r.order))
	copy(out, r.order)
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Group] < rank[out[j].Group]
	})
	return out
}

// unsupported registers names that are recognized but intentionally not
// implemented. Calling one fails with ErrUnsupported.
func (r *Registry) unsupported(group string, names ...string) {
	for _, name := range names {
		name := name
		r.Register(&Operation{
			Name:        name,
			Group:       group,
			Unsupported: true,
			Fn: func(*Interpreter) error {
				return fmt.Errorf("%w: '%s' is recognized but not implemented", ErrUnsupported, name)
			},
		})
	}
}

// peekParams returns the top n items as Parameters in push order without
// popping them.
func peekParams(s *Stack, n int) ([]Parameter, error) {
	params := make([]Parameter, n)
	for i := 0; i < n; i++ {
		item, err := s.PeekAt(n - 1 - i)
		if err != nil {
			return nil, err
		}
		if params[i], err = asParameter(item); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// discard pops n items that were already inspected.
func discard(s *Stack, n int) {
	for i := 0; i < n; i++ {
		s.Pop()
	}
}

// peekString reads a string Primitive at distance without popping it.
func peekString(s *Stack, distance int, what string) (string, error) {
	p, err := PeekAs[*Primitive](s, distance, what)
	if err != nil {
		return "", err
	}
	if p.Tag != StringTag {
		return "", fmt.Errorf("%w: expected %s, got %s", ErrWrongVariant, what, describe(p))
	}
	return p.Str, nil
}
