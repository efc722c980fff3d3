package evaluator

import (
	"fmt"
	"strings"
)

// Stack is the interpreter's LIFO of stack items. Pushed items are shared
// by reference; callers that duplicate Primitives copy them explicitly.
type Stack struct {
	items []StackItem
}

func NewStack() *Stack {
	return &Stack{items: make([]StackItem, 0, 64)}
}

func (s *Stack) Push(item StackItem) {
	s.items = append(s.items, item)
}

func (s *Stack) Pop() (StackItem, error) {
	if len(s.items) == 0 {
		return nil, fmt.Errorf("%w: stack is empty", ErrStackUnderflow)
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

func (s *Stack) Peek() (StackItem, error) {
	return s.PeekAt(0)
}

// PeekAt returns the item distance positions below the top.
func (s *Stack) PeekAt(distance int) (StackItem, error) {
	idx := len(s.items) - 1 - distance
	if distance < 0 || idx < 0 {
		return nil, fmt.Errorf("%w: need %d items, have %d", ErrStackUnderflow, distance+1, len(s.items))
	}
	return s.items[idx], nil
}

// Require checks that at least n items are present.
func (s *Stack) Require(n int) error {
	if len(s.items) < n {
		return fmt.Errorf("%w: need %d items, have %d", ErrStackUnderflow, n, len(s.items))
	}
	return nil
}

func (s *Stack) Size() int     { return len(s.items) }
func (s *Stack) IsEmpty() bool { return len(s.items) == 0 }

func (s *Stack) Clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.items = s.items[:0]
}

// Items returns the contents bottom first.
func (s *Stack) Items() []StackItem {
	out := make([]StackItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Stack) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = it.Inspect()
	}
	return "<" + fmt.Sprint(len(s.items)) + "> " + strings.Join(parts, " ")
}

// PopAs pops the top item if it is a T. On a variant mismatch the stack
// is left as it was.
func PopAs[T StackItem](s *Stack, what string) (T, error) {
	var zero T
	top, err := s.Peek()
	if err != nil {
		return zero, err
	}
	v, ok := top.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %s", ErrWrongVariant, what, describe(top))
	}
	s.Pop()
	return v, nil
}

// PeekAs is PopAs without the pop.
func PeekAs[T StackItem](s *Stack, distance int, what string) (T, error) {
	var zero T
	item, err := s.PeekAt(distance)
	if err != nil {
		return zero, err
	}
	v, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %s", ErrWrongVariant, what, describe(item))
	}
	return v, nil
}

// duplicate returns what a stack copy of item should be: a fresh
// Primitive, or the same reference for every other variant.
func duplicate(item StackItem) StackItem {
	if p, ok := item.(*Primitive); ok {
		return p.Copy()
	}
	return item
}
