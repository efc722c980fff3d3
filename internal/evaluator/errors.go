package evaluator

import (
	"errors"

	"github.com/funvibe/phylostack/internal/diagnostics"
)

var (
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrWrongVariant      = errors.New("wrong stack item")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrMathDomain        = errors.New("math domain error")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidData       = errors.New("invalid data")
	ErrDuplicateName     = errors.New("name already defined")
	ErrUnboundVariable   = errors.New("undefined variable")
	ErrUnboundFunction   = errors.New("undefined function")
	ErrNotStochastic     = errors.New("variable is not stochastic")
	ErrNotDistribution   = errors.New("not a distribution")
	ErrAlreadyObserved   = errors.New("variable already observed")
	ErrUnsupported       = errors.New("operation not supported")
	ErrCallDepthExceeded = errors.New("call depth exceeded")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrMalformedProgram  = errors.New("malformed operation sequence")
)

var errorCodes = []struct {
	err  error
	code diagnostics.ErrorCode
}{
	{ErrStackUnderflow, diagnostics.ErrD001},
	{ErrWrongVariant, diagnostics.ErrD002},
	{ErrDivisionByZero, diagnostics.ErrD003},
	{ErrMathDomain, diagnostics.ErrD004},
	{ErrInvalidParameter, diagnostics.ErrD005},
	{ErrIndexOutOfRange, diagnostics.ErrD006},
	{ErrInvalidData, diagnostics.ErrD007},
	{ErrDuplicateName, diagnostics.ErrB001},
	{ErrUnboundVariable, diagnostics.ErrB002},
	{ErrUnboundFunction, diagnostics.ErrB003},
	{ErrNotStochastic, diagnostics.ErrB004},
	{ErrNotDistribution, diagnostics.ErrB005},
	{ErrAlreadyObserved, diagnostics.ErrB006},
	{ErrUnsupported, diagnostics.ErrU001},
	{ErrCallDepthExceeded, diagnostics.ErrR001},
	{ErrUnknownOperation, diagnostics.ErrP002},
	{ErrMalformedProgram, diagnostics.ErrP004},
}

// CodeFor maps an operation failure to its diagnostic code. Failures
// outside the taxonomy are reported as R002.
func CodeFor(err error) diagnostics.ErrorCode {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return diagnostics.ErrR002
}
