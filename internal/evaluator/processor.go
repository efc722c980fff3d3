package evaluator

import (
	"errors"

	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/internal/token"
)

// EvaluatorProcessor runs the parsed program. The model graph stays in
// Interp's environment after the pipeline finishes.
type EvaluatorProcessor struct {
	Interp *Interpreter
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Program == nil {
		return ctx
	}
	if ep.Interp == nil {
		ep.Interp = New()
	}
	ep.Interp.SetFile(ctx.FilePath)
	if err := ep.Interp.Run(ctx.Program); err != nil {
		var diag *diagnostics.DiagnosticError
		if !errors.As(err, &diag) {
			diag = diagnostics.Wrap(CodeFor(err), token.Token{}, "", err)
		}
		ctx.Errors = append(ctx.Errors, diag)
	}
	return ctx
}
