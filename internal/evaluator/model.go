package evaluator

import "fmt"

type ModelKind string

const (
	HKYModel            ModelKind = "HKY"
	GTRModel            ModelKind = "GTR"
	F81Model            ModelKind = "F81"
	K80Model            ModelKind = "K80"
	InvariantSitesModel ModelKind = "InvariantSites"
)

// Model is a substitution or rate model.
type Model struct {
	Kind   ModelKind
	Params []Parameter
}

func (m *Model) Type() ItemType { return MODEL_ITEM }
func (m *Model) stackItem()     {}
func (m *Model) Inspect() string {
	return fmt.Sprintf("%s(%s)", m.Kind, inspectParams(m.Params))
}

func (m *Model) ParamNames() []string {
	if spec, ok := modelSpecs[m.Kind]; ok {
		return spec.params
	}
	return nil
}

// IsSubstitutionModel reports whether the model can serve as the Q of a
// PhyloCTMC.
func (m *Model) IsSubstitutionModel() bool {
	return m.Kind != InvariantSitesModel
}
