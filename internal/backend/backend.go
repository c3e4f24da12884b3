package backend

import (
	"fmt"

	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
)

const (
	ConcreteName = config.ConcreteBackendName
	SymbolicName = config.SymbolicBackendName
)

// Select returns the backend registered under name.
func Select(name string) (evaluator.Backend, error) {
	switch name {
	case ConcreteName, "":
		return NewConcrete(), nil
	case SymbolicName:
		return NewSymbolic(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// Primitives returns the primitive table shipped with a backend. Unknown
// backends get an empty table; every primitive then fails when forced.
func Primitives(sym evaluator.Backend) map[string]evaluator.Value {
	switch b := sym.(type) {
	case *Concrete:
		return concretePrims(b)
	case *Symbolic:
		return symbolicPrims(b)
	default:
		return nil
	}
}
