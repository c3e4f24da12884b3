package evaluator

import (
	"fmt"

	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Two disjoint failure classes run through the evaluator.
//
// RuntimeError covers failures a correct interpreter can produce for an
// incorrect program: division by zero, forcing a missing primitive,
// unguarded recursion. They flow through Force results as ordinary
// errors and a driver reports them as program errors.
//
// Bug covers broken internal invariants: an unresolved variable, a
// selector applied to the wrong shape, applying a non-function. Those
// mean the type checker let something through and the evaluation is
// aborted via panic; drivers recover at the top and report a bug.

// RuntimeError marks user-visible evaluation errors.
type RuntimeError interface {
	error
	runtimeError()
}

// LoopError reports unguarded self-reference: a binding was demanded
// strictly while its own definition was still being computed.
type LoopError struct {
	Name string
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("infinite loop detected while evaluating %q", e.Name)
}
func (*LoopError) runtimeError() {}

// MissingPrimError reports forcing a primitive declaration for which no
// implementation was supplied in the primitive table.
type MissingPrimError struct {
	Ident string
}

func (e *MissingPrimError) Error() string {
	return fmt.Sprintf("no implementation supplied for primitive %q", e.Ident)
}
func (*MissingPrimError) runtimeError() {}

// DivisionByZeroError is raised by the arithmetic primitives.
type DivisionByZeroError struct{}

func (*DivisionByZeroError) Error() string { return "division by zero" }
func (*DivisionByZeroError) runtimeError() {}

// ValueError is a user-visible evaluation error carried by an error
// placeholder value.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }
func (*ValueError) runtimeError()   {}

// IsRuntimeError reports whether err belongs to the user-visible class.
func IsRuntimeError(err error) bool {
	_, ok := err.(RuntimeError)
	return ok
}

// Bug is the panic payload for internal-consistency failures. The type
// itself lives in typesystem so the type resolvers abort through the
// same type the drivers recover.
type Bug = typesystem.Bug

// bug aborts evaluation: the invariant broken here should have been
// guaranteed by the type checker or by the evaluator's own bookkeeping.
func bug(where, format string, args ...interface{}) {
	panic(&Bug{Where: where, Msg: fmt.Sprintf(format, args...)})
}
