package evaluator_test

import (
	"errors"
	"testing"

	"github.com/funvibe/phylostack/internal/evaluator"
)

func TestStackBasics(t *testing.T) {
	s := evaluator.NewStack()
	if !s.IsEmpty() {
		t.Fatal("new stack should be empty")
	}
	if _, err := s.Pop(); !errors.Is(err, evaluator.ErrStackUnderflow) {
		t.Errorf("pop on empty stack: expected underflow, got %v", err)
	}
	if _, err := s.Peek(); !errors.Is(err, evaluator.ErrStackUnderflow) {
		t.Errorf("peek on empty stack: expected underflow, got %v", err)
	}

	s.Push(evaluator.NewInt(1))
	s.Push(evaluator.NewString("a"))
	if s.Size() != 2 {
		t.Fatalf("expected size 2, got %d", s.Size())
	}
	below, err := s.PeekAt(1)
	if err != nil || below.Inspect() != "1" {
		t.Errorf("PeekAt(1): got %v, %v", below, err)
	}
	if _, err := s.PeekAt(2); !errors.Is(err, evaluator.ErrStackUnderflow) {
		t.Errorf("PeekAt past the bottom should underflow, got %v", err)
	}

	item, _ := s.Pop()
	if item.Inspect() != `"a"` {
		t.Errorf("expected \"a\", got %s", item.Inspect())
	}
	if s.String() != "<1> 1" {
		t.Errorf("unexpected String(): %q", s.String())
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Error("Clear should empty the stack")
	}
}

func TestPopAs(t *testing.T) {
	s := evaluator.NewStack()
	s.Push(evaluator.NewInt(3))

	if _, err := evaluator.PopAs[*evaluator.Distribution](s, "a distribution"); !errors.Is(err, evaluator.ErrWrongVariant) {
		t.Fatalf("expected wrong variant, got %v", err)
	}
	if s.Size() != 1 {
		t.Fatalf("a failed PopAs must not pop, size is %d", s.Size())
	}

	p, err := evaluator.PopAs[*evaluator.Primitive](s, "a number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Int != 3 || !s.IsEmpty() {
		t.Errorf("expected to pop 3, got %s with size %d", p.Inspect(), s.Size())
	}

	if _, err := evaluator.PopAs[*evaluator.Primitive](s, "a number"); !errors.Is(err, evaluator.ErrStackUnderflow) {
		t.Errorf("expected underflow, got %v", err)
	}
}

func TestStackOperations(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 dup", "1 1"},
		{"1 2 drop", "1"},
		{"1 2 swap", "2 1"},
		{"1 2 over", "1 2 1"},
		{"1 2 3 rot", "2 3 1"},
		{"1 2 nip", "2"},
		{"1 2 tuck", "2 1 2"},
		{"10 20 30 0 pick", "10 20 30 30"},
		{"10 20 30 2 pick", "10 20 30 10"},
		{"1 2 3 depth", "1 2 3 3"},
		{"depth", "0"},
		{"1 2 3 clear", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			in := mustEval(t, tt.input)
			if got := stackString(in); got != tt.want {
				t.Errorf("expected stack %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStackUnderflow(t *testing.T) {
	for _, input := range []string{"dup", "drop", "1 swap", "1 over", "1 2 rot", "1 nip", "1 tuck", "pick"} {
		t.Run(input, func(t *testing.T) {
			in, _ := expectCode(t, input, "D001")
			if input == "1 2 rot" && in.Stack().Size() != 2 {
				t.Errorf("underflow should leave the stack intact, got %s", in.Stack())
			}
		})
	}
}

func TestPickMatchesDup(t *testing.T) {
	a := mustEval(t, `"x" 1.5 0 pick`)
	b := mustEval(t, `"x" 1.5 dup`)
	if stackString(a) != stackString(b) {
		t.Errorf("0 pick = %q, dup = %q", stackString(a), stackString(b))
	}
}

func TestPickOutOfRange(t *testing.T) {
	for _, input := range []string{"1 2 2 pick", "1 5 pick", "1 2 -1 pick", "1 2 0.5 pick", "0 pick"} {
		t.Run(input, func(t *testing.T) {
			in, _ := expectCode(t, input, "D006")
			before := mustEval(t, input[:len(input)-len("pick")])
			if in.Stack().Size() != before.Stack().Size() {
				t.Errorf("failed pick changed the stack size from %d to %d", before.Stack().Size(), in.Stack().Size())
			}
		})
	}
}

func TestPickIndexMustBeNumber(t *testing.T) {
	expectCode(t, `1 2 "a" pick`, "D002")
}

func TestDuplicateCopiesPrimitives(t *testing.T) {
	in := mustEval(t, "[ 1 2 ] dup")
	items := in.Stack().Items()
	first := items[0].(*evaluator.Primitive)
	second := items[1].(*evaluator.Primitive)
	if first == second {
		t.Fatal("dup of a Primitive should be a fresh copy")
	}
	second.Items[0] = evaluator.NewInt(99)
	if first.Items[0].Inspect() != "1" {
		t.Errorf("mutating the copy changed the original: %s", first.Inspect())
	}
}

func TestDuplicateSharesVariables(t *testing.T) {
	in := mustEval(t, `0.0 1.0 Normal "x" ~ "x" var dup`)
	items := in.Stack().Items()
	if items[0] != items[1] {
		t.Error("dup of a Variable should share the same reference")
	}

	in = mustEval(t, `1.0 Exponential dup`)
	items = in.Stack().Items()
	if items[0] != items[1] {
		t.Error("dup of a Distribution should share the same reference")
	}
}
