package typesystem

import "strconv"

// Nat is a sequence length: either a finite size or infinity.
// Infinite lengths come from stream types; sequence maps still index
// them with ordinary ints, there is just no upper bound.
type Nat struct {
	inf bool
	n   int
}

// Finite returns the length n.
func Finite(n int) Nat { return Nat{n: n} }

// Inf is the infinite length.
var Inf = Nat{inf: true}

func (l Nat) IsInf() bool { return l.inf }

// Size returns the finite size. Calling Size on Inf is a bug in the caller.
func (l Nat) Size() int {
	if l.inf {
		bug("Nat.Size", "called on an infinite length")
	}
	return l.n
}

func (l Nat) Equal(other Nat) bool { return l == other }

func (l Nat) String() string {
	if l.inf {
		return "inf"
	}
	return strconv.Itoa(l.n)
}
