package evaluator

import (
	"fmt"
	"strings"
	"unicode"
)

func registerDataOps(r *Registry) {
	for _, op := range []*Operation{
		{Name: "sequence", Effect: "taxon residues -- seq", Arity: 2, Fn: builtinSequence},
		{Name: "alignment", Effect: "arr -- arr", Arity: 1, Fn: builtinAlignment},
		{Name: "taxonNames", Effect: "arr -- names", Arity: 1, Fn: builtinTaxonNames},
	} {
		op.Group = GroupData
		r.Register(op)
	}
}

func builtinSequence(in *Interpreter) error {
	residues, err := peekString(in.stack, 0, "a residue string")
	if err != nil {
		return err
	}
	taxon, err := peekString(in.stack, 1, "a taxon name")
	if err != nil {
		return err
	}
	if strings.TrimSpace(taxon) == "" {
		return fmt.Errorf("%w: taxon name is empty", ErrInvalidData)
	}
	if residues == "" {
		return fmt.Errorf("%w: sequence for '%s' is empty", ErrInvalidData, taxon)
	}
	if i := strings.IndexFunc(residues, unicode.IsSpace); i >= 0 {
		return fmt.Errorf("%w: sequence for '%s' contains whitespace at %d", ErrInvalidData, taxon, i)
	}
	discard(in.stack, 2)
	in.stack.Push(&Sequence{Taxon: taxon, Residues: residues})
	return nil
}

// validateAlignment checks that p is a non-empty array of sequences of
// equal length with distinct taxa.
func validateAlignment(p *Primitive) ([]*Sequence, error) {
	if p.Tag != ArrayTag {
		return nil, fmt.Errorf("%w: alignment must be an array of sequences, got %s", ErrInvalidData, describe(p))
	}
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("%w: alignment is empty", ErrInvalidData)
	}
	seqs := make([]*Sequence, len(p.Items))
	seen := make(map[string]bool, len(p.Items))
	for i, it := range p.Items {
		seq, ok := it.(*Sequence)
		if !ok {
			return nil, fmt.Errorf("%w: alignment element %d is %s, not a sequence", ErrInvalidData, i, describe(it))
		}
		if seen[seq.Taxon] {
			return nil, fmt.Errorf("%w: taxon '%s' appears twice in alignment", ErrInvalidData, seq.Taxon)
		}
		seen[seq.Taxon] = true
		if i > 0 && len(seq.Residues) != len(seqs[0].Residues) {
			return nil, fmt.Errorf("%w: sequence '%s' has %d sites, expected %d", ErrInvalidData, seq.Taxon, len(seq.Residues), len(seqs[0].Residues))
		}
		seqs[i] = seq
	}
	return seqs, nil
}

func alignmentAt(s *Stack) ([]*Sequence, error) {
	top, _ := s.Peek()
	p, err := dataPrimitive(top)
	if err != nil {
		return nil, err
	}
	return validateAlignment(p)
}

func builtinAlignment(in *Interpreter) error {
	seqs, err := alignmentAt(in.stack)
	if err != nil {
		return err
	}
	items := make([]StackItem, len(seqs))
	for i, s := range seqs {
		items[i] = s
	}
	in.stack.Pop()
	in.stack.Push(NewArray(items))
	return nil
}

func builtinTaxonNames(in *Interpreter) error {
	seqs, err := alignmentAt(in.stack)
	if err != nil {
		return err
	}
	names := make([]StackItem, len(seqs))
	for i, s := range seqs {
		names[i] = NewString(s.Taxon)
	}
	in.stack.Pop()
	in.stack.Push(NewArray(names))
	return nil
}
