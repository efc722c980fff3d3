package evaluator

var modelOrder = []ModelKind{HKYModel, GTRModel, F81Model, K80Model, InvariantSitesModel}

var modelSpecs = map[ModelKind]paramSpec{
	HKYModel:            {group: GroupSubstitution, params: []string{"kappa", "freqs"}, rules: []rule{positive, simplex(4)}},
	GTRModel:            {group: GroupSubstitution, params: []string{"rates", "freqs"}, rules: []rule{positiveVector(6), simplex(4)}},
	F81Model:            {group: GroupSubstitution, params: []string{"freqs"}, rules: []rule{simplex(4)}},
	K80Model:            {group: GroupSubstitution, params: []string{"kappa"}, rules: []rule{positive}},
	InvariantSitesModel: {group: GroupRates, params: []string{"pinv"}, rules: []rule{probability}},
}

func registerSubstitutionOps(r *Registry) {
	for _, kind := range modelOrder {
		spec := modelSpecs[kind]
		r.Register(&Operation{
			Name:   string(kind),
			Group:  spec.group,
			Effect: spec.effect("model"),
			Arity:  len(spec.params),
			Fn:     newModel(kind, spec),
		})
	}
	r.unsupported(GroupSubstitution, "JC69", "WAG", "LG", "JTT")
}

func newModel(kind ModelKind, spec paramSpec) Builtin {
	return func(in *Interpreter) error {
		params, err := peekParams(in.stack, len(spec.params))
		if err != nil {
			return err
		}
		if err := spec.validate(string(kind), params); err != nil {
			return err
		}
		discard(in.stack, len(params))
		in.stack.Push(&Model{Kind: kind, Params: params})
		return nil
	}
}
