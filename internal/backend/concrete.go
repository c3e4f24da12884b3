// Package backend provides the two shipped value-representation backends
// the evaluator runs against: Concrete for ordinary execution and
// Symbolic for proof-oriented execution. Both implement
// evaluator.Backend; selection happens by name in the pipeline and cmd
// layers.
package backend

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Concrete represents bits as Go booleans and words as packed funbit
// bitstrings. Conditionals commit to a single branch.
type Concrete struct{}

func NewConcrete() *Concrete { return &Concrete{} }

func (*Concrete) Name() string { return ConcreteName }

func (*Concrete) Delay(label string, compute func() (evaluator.Value, error)) *evaluator.Thunk {
	return evaluator.NewThunk(label, compute)
}

func (*Concrete) DeclareHole(label string) (*evaluator.Thunk, evaluator.FillFunc) {
	return evaluator.DeclareHole(label)
}

func (*Concrete) GenerateSeq(f func(i int) (evaluator.Value, error)) evaluator.SeqMap {
	return evaluator.IndexSeqMap(f)
}

func (*Concrete) MemoSeq(m evaluator.SeqMap) evaluator.SeqMap {
	return evaluator.MemoSeqMap(m)
}

func (*Concrete) LookupSeq(m evaluator.SeqMap, i int) (evaluator.Value, error) {
	return m.Lookup(i)
}

func (*Concrete) UpdateSeq(m evaluator.SeqMap, i int, v *evaluator.Thunk) evaluator.SeqMap {
	return m.Update(i, v)
}

func (c *Concrete) JoinSeq(m evaluator.SeqMap, inner int) evaluator.SeqMap {
	return evaluator.JoinSeqMap(c, m, inner)
}

// PackBits forces every element; concrete bits always pack. A failing
// element defers to the generic lazy sequence so the failure surfaces
// only when that element is demanded.
func (*Concrete) PackBits(bits []*evaluator.Thunk) (evaluator.WordRep, bool, error) {
	packed := make([]bool, len(bits))
	for i, t := range bits {
		v, err := t.Force()
		if err != nil {
			return nil, false, nil
		}
		b, ok := v.(*evaluator.Bit)
		if !ok {
			return nil, false, nil
		}
		cb, ok := b.B.(concreteBit)
		if !ok {
			return nil, false, nil
		}
		packed[i] = bool(cb)
	}
	w, err := wordFromBools(packed)
	if err != nil {
		return nil, false, err
	}
	return w, true, nil
}

func (*Concrete) WordBit(w evaluator.WordRep, i int) (evaluator.Value, error) {
	cw := mustConcreteWord(w)
	return &evaluator.Bit{B: concreteBit(cw.bit(i))}, nil
}

// UpdateWordBit rebuilds the packed word with one bit replaced. Words are
// fully materialized already, so forcing the replacement bit here loses
// no laziness the word had.
func (*Concrete) UpdateWordBit(w evaluator.WordRep, i int, bit *evaluator.Thunk) (evaluator.Value, error) {
	cw := mustConcreteWord(w)
	v, err := bit.Force()
	if err != nil {
		return nil, err
	}
	b, err := evaluator.FromBit(v)
	if err != nil {
		return nil, err
	}
	bits := cw.bools()
	bits[i] = bool(b.(concreteBit))
	nw, err := wordFromBools(bits)
	if err != nil {
		return nil, err
	}
	return &evaluator.Word{W: nw}, nil
}

// Conditional commits to one branch; the other is never forced.
func (*Concrete) Conditional(_ typesystem.Type, cond evaluator.BitRep, then, els *evaluator.Thunk) (evaluator.Value, error) {
	if bool(cond.(concreteBit)) {
		return then.Force()
	}
	return els.Force()
}

// BitLit builds a concrete bit value.
func (*Concrete) BitLit(b bool) evaluator.Value {
	return &evaluator.Bit{B: concreteBit(b)}
}

// WordLit builds a width-bit word holding v modulo 2^width.
func (*Concrete) WordLit(width int, v *big.Int) (evaluator.Value, error) {
	w, err := wordFromBig(width, v)
	if err != nil {
		return nil, err
	}
	return &evaluator.Word{W: w}, nil
}

// BitValue reads a concrete bit back out of its representation.
func (*Concrete) BitValue(b evaluator.BitRep) (bool, bool) {
	cb, ok := b.(concreteBit)
	return bool(cb), ok
}

// WordValue reads a packed word back as an unsigned integer.
func (*Concrete) WordValue(w evaluator.WordRep) (*big.Int, bool) {
	cw, ok := w.(*concreteWord)
	if !ok {
		return nil, false
	}
	return cw.big(), true
}

// concreteBit is the Concrete backend's boolean representation.
type concreteBit bool

func (b concreteBit) String() string {
	if b {
		return "True"
	}
	return "False"
}

// concreteWord packs bits MSB-first into a funbit bitstring.
type concreteWord struct {
	bits *funbit.BitString
}

func wordFromBools(bits []bool) (*concreteWord, error) {
	if len(bits) == 0 {
		return &concreteWord{bits: funbit.NewBitString()}, nil
	}
	builder := funbit.NewBuilder()
	for _, b := range bits {
		v := 0
		if b {
			v = 1
		}
		funbit.AddInteger(builder, v, funbit.WithSize(1))
	}
	bs, err := funbit.Build(builder)
	if err != nil {
		return nil, fmt.Errorf("packing %d bits: %w", len(bits), err)
	}
	return &concreteWord{bits: bs}, nil
}

func wordFromBig(width int, v *big.Int) (*concreteWord, error) {
	bits := make([]bool, width)
	for i := 0; i < width; i++ {
		bits[i] = v.Bit(width-1-i) == 1
	}
	return wordFromBools(bits)
}

func mustConcreteWord(w evaluator.WordRep) *concreteWord {
	cw, ok := w.(*concreteWord)
	if !ok {
		panic(&evaluator.Bug{Where: "mustConcreteWord", Msg: fmt.Sprintf("foreign word representation %T reached the concrete backend", w)})
	}
	return cw
}

func (w *concreteWord) Len() int { return int(w.bits.Length()) }

func (w *concreteWord) bit(i int) bool {
	data := w.bits.ToBytes()
	return data[i/8]&(1<<(7-i%8)) != 0
}

func (w *concreteWord) bools() []bool {
	out := make([]bool, w.Len())
	data := w.bits.ToBytes()
	for i := range out {
		out[i] = data[i/8]&(1<<(7-i%8)) != 0
	}
	return out
}

func (w *concreteWord) big() *big.Int {
	out := new(big.Int)
	for i, b := range w.bools() {
		if b {
			out.SetBit(out, w.Len()-1-i, 1)
		}
	}
	return out
}

func (w *concreteWord) String() string {
	n := w.Len()
	if n%4 == 0 {
		digits := n / 4
		return fmt.Sprintf("0x%0*x", digits, w.big())
	}
	var sb strings.Builder
	sb.WriteString("0b")
	for _, b := range w.bools() {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
