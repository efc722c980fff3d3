package evaluator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/evaluator"
)

// byteSource uses a byte slice as a source of randomness.
type byteSource struct {
	data []byte
	pos  int
}

func (s *byteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

// generator builds mostly well-formed programs so the fuzzer spends its
// time inside operations rather than in the parser.
type generator struct {
	src   *byteSource
	names []string
}

func newGenerator(data []byte) *generator {
	return &generator{
		src:   &byteSource{data: data},
		names: []string{"x", "y", "mu", "tree", "Q"},
	}
}

var fuzzWords = []string{
	"dup", "drop", "swap", "over", "rot", "nip", "tuck", "pick", "depth", "clear",
	"+", "-", "*", "/", "negate", "abs", "sqrt", "exp", "log", "pow", "pi",
	"length", "sum", "var",
	"Normal", "LogNormal", "Exponential", "Gamma", "Beta", "Uniform", "Dirichlet",
	"Yule", "BirthDeath", "Coalescent", "PhyloCTMC",
	"HKY", "GTR", "F81", "K80", "JC69", "DiscreteGamma", "categoryRates", "InvariantSites",
	"sequence", "alignment", "taxonNames", "treeHeight",
	"lessThan", "greaterThan", "bounded", "constrain",
}

func (g *generator) program() string {
	var sb strings.Builder
	count := g.src.Intn(8) + 1
	for i := 0; i < count; i++ {
		sb.WriteString(g.statement())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (g *generator) statement() string {
	switch g.src.Intn(6) {
	case 0:
		return fmt.Sprintf("%s %q =", g.expression(), g.name())
	case 1:
		return fmt.Sprintf("%s %q ~", g.expression(), g.name())
	case 2:
		return fmt.Sprintf("%s %q observe", g.expression(), g.name())
	case 3:
		return fmt.Sprintf(": f%d %s ; f%d", g.src.Intn(3), g.expression(), g.src.Intn(3))
	default:
		return g.expression()
	}
}

func (g *generator) expression() string {
	n := g.src.Intn(6) + 1
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.atom()
	}
	return strings.Join(parts, " ")
}

func (g *generator) atom() string {
	switch g.src.Intn(7) {
	case 0:
		return fmt.Sprint(g.src.Intn(5))
	case 1:
		return fmt.Sprintf("%.2f", float64(g.src.Intn(200))/100)
	case 2:
		return fmt.Sprintf("%q", g.name())
	case 3:
		return fmt.Sprintf("%q var", g.name())
	case 4:
		return "[ 0.25 0.25 0.25 0.25 ]"
	default:
		return fuzzWords[g.src.Intn(len(fuzzWords))]
	}
}

func (g *generator) name() string {
	return g.names[g.src.Intn(len(g.names))]
}

// FuzzEvaluate checks that generated programs either run or fail with a
// positioned, coded diagnostic, and never panic.
func FuzzEvaluate(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("phylo"))
	f.Add([]byte{1, 0, 2, 3, 4, 5, 6, 7, 8, 9})
	f.Add([]byte{3, 3, 3, 3, 3, 3, 3, 3})
	f.Add([]byte{0, 5, 6, 10, 20, 30, 40, 50, 1, 5, 2})

	f.Fuzz(func(t *testing.T, data []byte) {
		input := newGenerator(data).program()
		in := evaluator.New()
		in.SetMaxCallDepth(64)
		err := evaluateWith(in, input)
		if err == nil {
			return
		}
		var diag *diagnostics.DiagnosticError
		if !errors.As(err, &diag) {
			t.Fatalf("non-diagnostic error %T for %q: %v", err, input, err)
		}
		if diag.Code == "" {
			t.Fatalf("diagnostic without code for %q: %v", input, err)
		}
		if diag.Token.Line < 1 && diag.Code[0] != 'L' {
			t.Fatalf("diagnostic without position for %q: %v", input, err)
		}
	})
}
