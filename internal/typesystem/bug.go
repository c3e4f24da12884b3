package typesystem

import "fmt"

// Bug is the panic payload for internal-consistency failures: an
// invariant the type checker or the interpreter's own bookkeeping was
// supposed to guarantee did not hold. The type lives here, at the
// bottom of the import graph, so both the type resolvers and the
// evaluator abort through it; drivers recover it at the top and report
// an interpreter bug.
type Bug struct {
	Where string
	Msg   string
}

func (b *Bug) Error() string {
	return fmt.Sprintf("interpreter bug in %s: %s", b.Where, b.Msg)
}

func bug(where, format string, args ...interface{}) {
	panic(&Bug{Where: where, Msg: fmt.Sprintf(format, args...)})
}
