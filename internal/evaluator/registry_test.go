package evaluator_test

import (
	"strings"
	"testing"

	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/token"
)

func TestRegistryCoversKeywords(t *testing.T) {
	r := evaluator.NewRegistry()
	for _, kw := range token.Keywords() {
		if _, ok := r.Lookup(kw); !ok {
			t.Errorf("keyword %q has no operation", kw)
		}
	}
	for _, sym := range []string{"~", "=", "+", "-", "*", "/", "[", "]"} {
		if _, ok := r.Lookup(sym); !ok {
			t.Errorf("operator %q has no operation", sym)
		}
	}
}

func TestRegistryIsCaseInsensitive(t *testing.T) {
	r := evaluator.NewRegistry()
	for _, name := range []string{"normal", "NORMAL", "Normal", "nOrMaL"} {
		canonical, ok := r.Resolve(name)
		if !ok || canonical != "Normal" {
			t.Errorf("Resolve(%q) = %q, %v", name, canonical, ok)
		}
	}
	if _, ok := r.Resolve("normals"); ok {
		t.Error("unexpected match for 'normals'")
	}
}

func TestRegistryGroups(t *testing.T) {
	r := evaluator.NewRegistry()
	groups := map[string]string{
		"dup":            evaluator.GroupStack,
		"/":              evaluator.GroupArithmetic,
		"]":              evaluator.GroupArray,
		"observe":        evaluator.GroupBinding,
		"Dirichlet":      evaluator.GroupDistribution,
		"Yule":           evaluator.GroupTreePrior,
		"PhyloCTMC":      evaluator.GroupPhylo,
		"GTR":            evaluator.GroupSubstitution,
		"JC69":           evaluator.GroupSubstitution,
		"DiscreteGamma":  evaluator.GroupRates,
		"InvariantSites": evaluator.GroupRates,
		"mrca":           evaluator.GroupTree,
		"alignment":      evaluator.GroupData,
		"bounded":        evaluator.GroupConstraint,
	}
	for name, group := range groups {
		op, ok := r.Lookup(name)
		if !ok {
			t.Errorf("%s not registered", name)
			continue
		}
		if op.Group != group {
			t.Errorf("%s: expected group %s, got %s", name, group, op.Group)
		}
	}
}

func TestRegistryListing(t *testing.T) {
	ops := evaluator.NewRegistry().Operations()
	seen := map[string]bool{}
	last := ""
	for _, op := range ops {
		if op.Group != last {
			if seen[op.Group] {
				t.Errorf("group %s is not contiguous", op.Group)
			}
			seen[op.Group] = true
			last = op.Group
		}
		if op.Unsupported {
			continue
		}
		if op.Effect == "" || !strings.Contains(op.Effect, "--") {
			t.Errorf("%s has no stack effect", op.Name)
		}
	}
	if ops[0].Group != evaluator.GroupStack {
		t.Errorf("listing should start with the stack group, got %s", ops[0].Group)
	}
}

func TestConstructorArityMatchesParams(t *testing.T) {
	r := evaluator.NewRegistry()
	for name, arity := range map[string]int{"Normal": 2, "Exponential": 1, "GTR": 2, "PhyloCTMC": 2, "bounded": 3, "pi": 0} {
		op, _ := r.Lookup(name)
		if op.Arity != arity {
			t.Errorf("%s: expected arity %d, got %d", name, arity, op.Arity)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	r := evaluator.NewRegistry()
	r.Register(&evaluator.Operation{Name: "DUP"})
}
