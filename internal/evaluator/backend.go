package evaluator

import "github.com/pnwamk/cryptol/internal/typesystem"

// Backend supplies the value representation the evaluator is generic
// over: how bits and words are represented, how computations are
// suspended, how recursive holes work, and the sequence-map operations.
// The evaluator code is identical for the concrete and the symbolic
// backend; only this capability surface differs.
type Backend interface {
	Name() string

	// Delay returns a memoized suspension; forcing is idempotent in
	// effect.
	Delay(label string, compute func() (Value, error)) *Thunk

	// DeclareHole returns a readable placeholder and its write-once fill
	// function, used while a mutually recursive declaration group is
	// being evaluated.
	DeclareHole(label string) (*Thunk, FillFunc)

	// GenerateSeq builds a lazy sequence from an index rule.
	GenerateSeq(f func(i int) (Value, error)) SeqMap

	// MemoSeq wraps a sequence so repeated index reads are cached.
	MemoSeq(m SeqMap) SeqMap

	// LookupSeq and UpdateSeq are point read and point functional update.
	LookupSeq(m SeqMap, i int) (Value, error)
	UpdateSeq(m SeqMap, i int, v *Thunk) SeqMap

	// JoinSeq flattens one level of nested sequences with a known inner
	// length.
	JoinSeq(m SeqMap, inner int) SeqMap

	// PackBits attempts eager word-packing of a literal bit sequence.
	// ok reports whether every element forced to a packable bit; when it
	// is false the caller falls back to a generic lazy sequence. A
	// non-nil error is only returned for failures that cannot be
	// deferred.
	PackBits(bits []*Thunk) (w WordRep, ok bool, err error)

	// WordBit extracts bit i of a packed word as a value.
	WordBit(w WordRep, i int) (Value, error)

	// UpdateWordBit is the point functional update on a packed word. The
	// result may stay packed or fall back to a bit sequence.
	UpdateWordBit(w WordRep, i int, bit *Thunk) (Value, error)

	// Conditional selects between two suspended branches given a forced
	// condition bit. The concrete backend commits to one branch; the
	// symbolic backend may merge both into a single value. ty is the
	// checked type of either branch.
	Conditional(ty typesystem.Type, cond BitRep, then, els *Thunk) (Value, error)
}
