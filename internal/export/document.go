// Package export serializes a finished model graph.
package export

import (
	"github.com/google/uuid"

	"github.com/funvibe/phylostack/internal/config"
	"github.com/funvibe/phylostack/internal/evaluator"
)

// Document is the exported form of an Environment.
type Document struct {
	Version     string       `json:"version" yaml:"version"`
	ID          string       `json:"id" yaml:"id"`
	Variables   []Variable   `json:"variables" yaml:"variables"`
	Constraints []Constraint `json:"constraints" yaml:"constraints"`
	Functions   []Function   `json:"functions,omitempty" yaml:"functions,omitempty"`
}

type Variable struct {
	Name         string        `json:"name" yaml:"name"`
	Kind         string        `json:"kind" yaml:"kind"`
	Distribution *Distribution `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Observed     interface{}   `json:"observed,omitempty" yaml:"observed,omitempty"`
	Value        interface{}   `json:"value,omitempty" yaml:"value,omitempty"`
}

type Distribution struct {
	Type       string `json:"type" yaml:"type"`
	Parameters Params `json:"parameters" yaml:"parameters"`
}

type Model struct {
	Model      string `json:"model" yaml:"model"`
	Parameters Params `json:"parameters" yaml:"parameters"`
}

type Sequence struct {
	Taxon    string `json:"taxon" yaml:"taxon"`
	Sequence string `json:"sequence" yaml:"sequence"`
}

type Constraint struct {
	Type     string        `json:"type" yaml:"type"`
	Operands []interface{} `json:"operands" yaml:"operands"`
}

type Function struct {
	Name        string `json:"name" yaml:"name"`
	StackEffect string `json:"stackEffect,omitempty" yaml:"stackEffect,omitempty"`
	Body        string `json:"body" yaml:"body"`
}

// Ref points at another variable of the document.
type Ref struct {
	Ref string `json:"ref" yaml:"ref"`
}

// Options control Build.
type Options struct {
	// ID fixes the document id; a random UUID is used when empty.
	ID string
	// Functions includes user function definitions.
	Functions bool
}

// Build converts env into a Document. Variables keep definition order.
func Build(env *evaluator.Environment, opts Options) *Document {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	doc := &Document{
		Version:     config.ExportVersion,
		ID:          id,
		Variables:   []Variable{},
		Constraints: []Constraint{},
	}

	for _, v := range env.Variables() {
		entry := Variable{Name: v.Name()}
		if v.IsStochastic() {
			entry.Kind = "stochastic"
			entry.Distribution = distribution(v.Distribution())
			if data, ok := v.Observed(); ok {
				entry.Observed = value(data)
			}
		} else {
			entry.Kind = "deterministic"
			entry.Value = value(v.Value())
		}
		doc.Variables = append(doc.Variables, entry)
	}

	for _, c := range env.Constraints() {
		doc.Constraints = append(doc.Constraints, constraint(c))
	}

	if opts.Functions {
		for _, fn := range env.Functions() {
			doc.Functions = append(doc.Functions, Function{
				Name:        fn.Name,
				StackEffect: fn.StackEffect,
				Body:        body(fn),
			})
		}
	}
	return doc
}
