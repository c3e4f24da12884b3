package backend

import (
	"fmt"
	"math/big"

	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Symbolic represents bits and words as term DAGs. Evaluation under it
// produces expressions over free variables instead of committing to
// concrete results: conditionals on non-literal bits merge both branches
// into ite terms, and primitives build operation nodes unless every
// operand is a literal.
type Symbolic struct{}

func NewSymbolic() *Symbolic { return &Symbolic{} }

func (*Symbolic) Name() string { return SymbolicName }

func (*Symbolic) Delay(label string, compute func() (evaluator.Value, error)) *evaluator.Thunk {
	return evaluator.NewThunk(label, compute)
}

func (*Symbolic) DeclareHole(label string) (*evaluator.Thunk, evaluator.FillFunc) {
	return evaluator.DeclareHole(label)
}

func (*Symbolic) GenerateSeq(f func(i int) (evaluator.Value, error)) evaluator.SeqMap {
	return evaluator.IndexSeqMap(f)
}

func (*Symbolic) MemoSeq(m evaluator.SeqMap) evaluator.SeqMap {
	return evaluator.MemoSeqMap(m)
}

func (*Symbolic) LookupSeq(m evaluator.SeqMap, i int) (evaluator.Value, error) {
	return m.Lookup(i)
}

func (*Symbolic) UpdateSeq(m evaluator.SeqMap, i int, v *evaluator.Thunk) evaluator.SeqMap {
	return m.Update(i, v)
}

func (s *Symbolic) JoinSeq(m evaluator.SeqMap, inner int) evaluator.SeqMap {
	return evaluator.JoinSeqMap(s, m, inner)
}

// PackBits packs only when every element forces to a literal bit; a
// variable or ite bit keeps the sequence in its generic lazy form.
func (*Symbolic) PackBits(bits []*evaluator.Thunk) (evaluator.WordRep, bool, error) {
	v := new(big.Int)
	for i, t := range bits {
		bv, err := t.Force()
		if err != nil {
			return nil, false, nil
		}
		b, ok := bv.(*evaluator.Bit)
		if !ok {
			return nil, false, nil
		}
		lit, ok := b.B.(BitLit)
		if !ok {
			return nil, false, nil
		}
		if bool(lit) {
			v.SetBit(v, len(bits)-1-i, 1)
		}
	}
	return &WordLit{Width: len(bits), V: v}, true, nil
}

func (*Symbolic) WordBit(w evaluator.WordRep, i int) (evaluator.Value, error) {
	if lit, ok := w.(*WordLit); ok {
		return &evaluator.Bit{B: BitLit(lit.V.Bit(lit.Width-1-i) == 1)}, nil
	}
	return &evaluator.Bit{B: &BitSel{W: w.(SymWord), I: i}}, nil
}

// UpdateWordBit leaves packed form: the result is a bit sequence that
// reads through to the original word everywhere but at i.
func (s *Symbolic) UpdateWordBit(w evaluator.WordRep, i int, bit *evaluator.Thunk) (evaluator.Value, error) {
	base := evaluator.IndexSeqMap(func(j int) (evaluator.Value, error) {
		return s.WordBit(w, j)
	})
	return &evaluator.Seq{
		Len:  typesystem.Finite(w.Len()),
		Elem: typesystem.TBit{},
		Map:  base.Update(i, bit),
	}, nil
}

// Conditional commits when the condition is a literal and otherwise
// merges both branches into a single value built from ite nodes.
func (s *Symbolic) Conditional(ty typesystem.Type, cond evaluator.BitRep, then, els *evaluator.Thunk) (evaluator.Value, error) {
	if lit, ok := cond.(BitLit); ok {
		if bool(lit) {
			return then.Force()
		}
		return els.Force()
	}
	c := cond.(SymBit)
	tv, err := then.Force()
	if err != nil {
		return nil, err
	}
	ev, err := els.Force()
	if err != nil {
		return nil, err
	}
	return s.mergeValue(ty, c, tv, ev)
}

// mergeValue zips two values of the same type under a symbolic
// condition. Aggregates merge pointwise and lazily; functions merge the
// results of applying both sides.
func (s *Symbolic) mergeValue(ty typesystem.Type, c SymBit, a, b evaluator.Value) (evaluator.Value, error) {
	if ev, ok := a.(*evaluator.ErrVal); ok {
		return nil, ev.Err
	}
	if ev, ok := b.(*evaluator.ErrVal); ok {
		return nil, ev.Err
	}

	switch av := a.(type) {
	case *evaluator.Bit:
		bb, err := evaluator.FromBit(b)
		if err != nil {
			return nil, err
		}
		return &evaluator.Bit{B: &BitIte{C: c, T: av.B.(SymBit), F: bb.(SymBit)}}, nil

	case *evaluator.Word:
		if bw, ok := b.(*evaluator.Word); ok {
			return &evaluator.Word{W: &WordIte{C: c, T: av.W.(SymWord), F: bw.W.(SymWord)}}, nil
		}
		return s.mergeSeqShaped(ty, c, a, b)

	case *evaluator.Seq:
		return s.mergeSeqShaped(ty, c, a, b)

	case *evaluator.Tuple:
		bt, err := evaluator.FromTuple(b)
		if err != nil {
			return nil, err
		}
		tty := ty.(typesystem.TTuple)
		elems := make([]*evaluator.Thunk, len(av.Elems))
		for i := range av.Elems {
			elems[i] = s.mergeThunk(tty.Elems[i], c, av.Elems[i], bt.Elems[i])
		}
		return &evaluator.Tuple{Elems: elems}, nil

	case *evaluator.Record:
		br, err := evaluator.FromRecord(b)
		if err != nil {
			return nil, err
		}
		rty := ty.(typesystem.TRecord)
		fields := make(map[string]*evaluator.Thunk, len(av.Names))
		for _, name := range av.Names {
			fty, _ := rty.FieldType(name)
			fields[name] = s.mergeThunk(fty, c, av.Fields[name], br.Fields[name])
		}
		return &evaluator.Record{Names: av.Names, Fields: fields}, nil

	case *evaluator.Fun:
		bf, err := evaluator.FromFun(b)
		if err != nil {
			return nil, err
		}
		fty := ty.(typesystem.TFun)
		af := av
		return &evaluator.Fun{Fn: func(arg *evaluator.Thunk) (evaluator.Value, error) {
			x, err := af.Fn(arg)
			if err != nil {
				return nil, err
			}
			y, err := bf.Fn(arg)
			if err != nil {
				return nil, err
			}
			return s.mergeValue(fty.Res, c, x, y)
		}}, nil

	default:
		return nil, fmt.Errorf("symbolic merge: cannot merge values of shape %s", a.Type())
	}
}

// mergeSeqShaped merges two sequence-shaped values (lazy sequences or
// packed words in any combination) pointwise.
func (s *Symbolic) mergeSeqShaped(ty typesystem.Type, c SymBit, a, b evaluator.Value) (evaluator.Value, error) {
	length, err := evaluator.SeqLength(a)
	if err != nil {
		return nil, err
	}
	sty := ty.(typesystem.TSeq)
	merged := s.MemoSeq(s.GenerateSeq(func(i int) (evaluator.Value, error) {
		x, err := evaluator.IndexValue(s, a, i)
		if err != nil {
			return nil, err
		}
		y, err := evaluator.IndexValue(s, b, i)
		if err != nil {
			return nil, err
		}
		return s.mergeValue(sty.Elem, c, x, y)
	}))
	return &evaluator.Seq{Len: length, Elem: sty.Elem, Map: merged}, nil
}

func (s *Symbolic) mergeThunk(ty typesystem.Type, c SymBit, a, b *evaluator.Thunk) *evaluator.Thunk {
	return s.Delay("", func() (evaluator.Value, error) {
		x, err := a.Force()
		if err != nil {
			return nil, err
		}
		y, err := b.Force()
		if err != nil {
			return nil, err
		}
		return s.mergeValue(ty, c, x, y)
	})
}

// BitLitValue builds a literal symbolic bit value.
func (*Symbolic) BitLitValue(b bool) evaluator.Value {
	return &evaluator.Bit{B: BitLit(b)}
}

// WordLitValue builds a literal symbolic word value.
func (*Symbolic) WordLitValue(width int, v *big.Int) evaluator.Value {
	masked := new(big.Int).Set(v)
	for i := masked.BitLen() - 1; i >= width; i-- {
		masked.SetBit(masked, i, 0)
	}
	return &evaluator.Word{W: &WordLit{Width: width, V: masked}}
}

// BitValue reads a literal bit back out of its representation.
func (*Symbolic) BitValue(b evaluator.BitRep) (bool, bool) {
	lit, ok := b.(BitLit)
	return bool(lit), ok
}

// WordValue reads a literal word back as an unsigned integer.
func (*Symbolic) WordValue(w evaluator.WordRep) (*big.Int, bool) {
	lit, ok := w.(*WordLit)
	if !ok {
		return nil, false
	}
	return lit.V, true
}

// BitVarValue builds a free boolean variable.
func (*Symbolic) BitVarValue(name string) evaluator.Value {
	return &evaluator.Bit{B: &BitVar{Name: name}}
}

// WordVarValue builds a free width-bit word variable.
func (*Symbolic) WordVarValue(name string, width int) evaluator.Value {
	return &evaluator.Word{W: &WordVar{Name: name, Width: width}}
}
