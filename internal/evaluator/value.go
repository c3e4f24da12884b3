package evaluator

import (
	"fmt"
	"strings"

	"github.com/pnwamk/cryptol/internal/typesystem"
)

type ValueType string

const (
	BIT_VAL     = "BIT"
	WORD_VAL    = "WORD"
	SEQ_VAL     = "SEQ"
	TUPLE_VAL   = "TUPLE"
	RECORD_VAL  = "RECORD"
	FUN_VAL     = "FUNCTION"
	POLY_VAL    = "POLY"
	NUMPOLY_VAL = "NUMPOLY"
	ERR_VAL     = "ERROR"
)

// Value is the backend-polymorphic runtime value. The bit and word
// payloads are supplied by the backend (concrete booleans and packed
// bitstrings, or symbolic terms); every other variant is generic over
// them. Aggregates hold thunks, never forced components.
type Value interface {
	Type() ValueType
	Inspect() string
}

// BitRep is the backend representation of a single boolean.
type BitRep interface {
	String() string
}

// WordRep is the backend representation of a packed bit sequence.
type WordRep interface {
	Len() int
	String() string
}

// Bit wraps a backend bit.
type Bit struct {
	B BitRep
}

func (*Bit) Type() ValueType   { return BIT_VAL }
func (v *Bit) Inspect() string { return v.B.String() }

// Word is a sequence of bits in packed form.
type Word struct {
	W WordRep
}

func (*Word) Type() ValueType   { return WORD_VAL }
func (v *Word) Inspect() string { return v.W.String() }

// Seq is a lazily produced sequence of values.
type Seq struct {
	Len  typesystem.Nat
	Elem typesystem.Type
	Map  SeqMap
}

func (*Seq) Type() ValueType { return SEQ_VAL }
func (v *Seq) Inspect() string {
	return fmt.Sprintf("[%s]%s <seq>", v.Len, v.Elem)
}

// Tuple holds one suspended value per component.
type Tuple struct {
	Elems []*Thunk
}

func (*Tuple) Type() ValueType { return TUPLE_VAL }
func (v *Tuple) Inspect() string {
	return fmt.Sprintf("(<tuple of %d>)", len(v.Elems))
}

// Record holds one suspended value per field, with a stable field order.
type Record struct {
	Names  []string
	Fields map[string]*Thunk
}

func (*Record) Type() ValueType { return RECORD_VAL }
func (v *Record) Inspect() string {
	return "{" + strings.Join(v.Names, ", ") + "}"
}

// Field returns the suspended value of a field.
func (v *Record) Field(name string) (*Thunk, bool) {
	t, ok := v.Fields[name]
	return t, ok
}

// Fun is a function value: it receives its argument suspended.
type Fun struct {
	Fn func(arg *Thunk) (Value, error)
}

func (*Fun) Type() ValueType { return FUN_VAL }
func (*Fun) Inspect() string { return "<function>" }

// Poly is a universally polymorphic value awaiting a type argument.
type Poly struct {
	Fn func(t typesystem.Type) (Value, error)
}

func (*Poly) Type() ValueType { return POLY_VAL }
func (*Poly) Inspect() string { return "<polymorphic value>" }

// NumPoly is a numerically polymorphic value awaiting a length argument.
type NumPoly struct {
	Fn func(n typesystem.Nat) (Value, error)
}

func (*NumPoly) Type() ValueType { return NUMPOLY_VAL }
func (*NumPoly) Inspect() string { return "<numeric polymorphic value>" }

// ErrVal is an error placeholder that is itself a value, so an ill-typed
// but unevaluated subterm does not abort unrelated computation. Consuming
// it in any shape-demanding position yields the carried error.
type ErrVal struct {
	Err error
}

func (*ErrVal) Type() ValueType   { return ERR_VAL }
func (v *ErrVal) Inspect() string { return "<error: " + v.Err.Error() + ">" }

// Shape extractors. A shape mismatch is an internal-consistency failure;
// an error placeholder propagates its own error instead.

// FromBit demands a bit.
func FromBit(v Value) (BitRep, error) {
	switch val := v.(type) {
	case *Bit:
		return val.B, nil
	case *ErrVal:
		return nil, val.Err
	default:
		bug("FromBit", "expected a bit, found %s", v.Type())
		return nil, nil
	}
}

// FromFun demands a function.
func FromFun(v Value) (*Fun, error) {
	switch val := v.(type) {
	case *Fun:
		return val, nil
	case *ErrVal:
		return nil, val.Err
	default:
		bug("FromFun", "applied a non-function value of shape %s", v.Type())
		return nil, nil
	}
}

// FromTuple demands a tuple.
func FromTuple(v Value) (*Tuple, error) {
	switch val := v.(type) {
	case *Tuple:
		return val, nil
	case *ErrVal:
		return nil, val.Err
	default:
		bug("FromTuple", "expected a tuple, found %s", v.Type())
		return nil, nil
	}
}

// FromRecord demands a record.
func FromRecord(v Value) (*Record, error) {
	switch val := v.(type) {
	case *Record:
		return val, nil
	case *ErrVal:
		return nil, val.Err
	default:
		bug("FromRecord", "expected a record, found %s", v.Type())
		return nil, nil
	}
}

// IndexValue indexes a sequence-shaped value: either a lazy sequence or a
// packed word. Words answer through the backend's bit extraction.
func IndexValue(sym Backend, v Value, i int) (Value, error) {
	switch val := v.(type) {
	case *Seq:
		if !val.Len.IsInf() && i >= val.Len.Size() {
			bug("IndexValue", "index %d out of range for length %s", i, val.Len)
		}
		return sym.LookupSeq(val.Map, i)
	case *Word:
		if i >= val.W.Len() {
			bug("IndexValue", "index %d out of range for %d-bit word", i, val.W.Len())
		}
		return sym.WordBit(val.W, i)
	case *ErrVal:
		return nil, val.Err
	default:
		bug("IndexValue", "expected a sequence, found %s", v.Type())
		return nil, nil
	}
}

// SeqLength returns the length tag of a sequence-shaped value.
func SeqLength(v Value) (typesystem.Nat, error) {
	switch val := v.(type) {
	case *Seq:
		return val.Len, nil
	case *Word:
		return typesystem.Finite(val.W.Len()), nil
	case *ErrVal:
		return typesystem.Nat{}, val.Err
	default:
		bug("SeqLength", "expected a sequence, found %s", v.Type())
		return typesystem.Nat{}, nil
	}
}
