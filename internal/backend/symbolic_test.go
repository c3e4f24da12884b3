package backend

import (
	"math/big"
	"testing"

	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

func TestSymbolicPackBitsFoldsLiterals(t *testing.T) {
	s := NewSymbolic()
	bits := []*evaluator.Thunk{
		evaluator.Ready(s.BitLitValue(true)),
		evaluator.Ready(s.BitLitValue(true)),
		evaluator.Ready(s.BitLitValue(false)),
	}
	w, ok, err := s.PackBits(bits)
	if err != nil || !ok {
		t.Fatalf("packing literal bits: ok=%v err=%v", ok, err)
	}
	lit, isLit := w.(*WordLit)
	if !isLit {
		t.Fatalf("expected a literal word, found %T", w)
	}
	if lit.Width != 3 || lit.V.Int64() != 0b110 {
		t.Errorf("packed 110: got %d-bit %b", lit.Width, lit.V)
	}
}

func TestSymbolicPackBitsRefusesVariables(t *testing.T) {
	s := NewSymbolic()
	bits := []*evaluator.Thunk{
		evaluator.Ready(s.BitLitValue(true)),
		evaluator.Ready(s.BitVarValue("c")),
	}
	_, ok, err := s.PackBits(bits)
	if err != nil {
		t.Fatalf("PackBits: %s", err)
	}
	if ok {
		t.Error("a variable bit must keep the sequence unpacked")
	}
}

func TestSymbolicWordBit(t *testing.T) {
	s := NewSymbolic()

	lit := &WordLit{Width: 4, V: big.NewInt(0b1010)}
	v, err := s.WordBit(lit, 0)
	if err != nil {
		t.Fatalf("WordBit: %s", err)
	}
	if b, ok := s.BitValue(v.(*evaluator.Bit).B); !ok || !b {
		t.Error("bit 0 of the literal 0b1010 should fold to True")
	}

	w := &WordVar{Name: "w", Width: 4}
	v, err = s.WordBit(w, 2)
	if err != nil {
		t.Fatalf("WordBit: %s", err)
	}
	if got := v.(*evaluator.Bit).B.String(); got != "(bit 2 w)" {
		t.Errorf("bit of a variable word: got %q", got)
	}
}

func TestSymbolicConditionalCommitsOnLiteral(t *testing.T) {
	s := NewSymbolic()
	poison := evaluator.NewThunk("", func() (evaluator.Value, error) {
		t.Fatal("the untaken branch was forced")
		return nil, nil
	})
	v, err := s.Conditional(typesystem.TBit{}, BitLit(false), poison,
		evaluator.Ready(s.BitLitValue(true)))
	if err != nil {
		t.Fatalf("Conditional: %s", err)
	}
	if b, _ := s.BitValue(v.(*evaluator.Bit).B); !b {
		t.Error("expected the else branch")
	}
}

func TestSymbolicConditionalMergesBits(t *testing.T) {
	s := NewSymbolic()
	v, err := s.Conditional(typesystem.TBit{}, &BitVar{Name: "c"},
		evaluator.Ready(s.BitLitValue(true)),
		evaluator.Ready(s.BitLitValue(false)))
	if err != nil {
		t.Fatalf("Conditional: %s", err)
	}
	if got := v.(*evaluator.Bit).B.String(); got != "(ite c True False)" {
		t.Errorf("merged bit: got %q", got)
	}
}

func TestSymbolicConditionalMergesWords(t *testing.T) {
	s := NewSymbolic()
	ty := typesystem.TSeq{Len: typesystem.TNum{N: typesystem.Finite(8)}, Elem: typesystem.TBit{}}
	v, err := s.Conditional(ty, &BitVar{Name: "c"},
		evaluator.Ready(s.WordLitValue(8, big.NewInt(0x0f))),
		evaluator.Ready(s.WordVarValue("w", 8)))
	if err != nil {
		t.Fatalf("Conditional: %s", err)
	}
	if got := v.(*evaluator.Word).W.String(); got != "(ite c 0x0f w)" {
		t.Errorf("merged word: got %q", got)
	}
}

func TestSymbolicConditionalMergesTuples(t *testing.T) {
	s := NewSymbolic()
	ty := typesystem.TTuple{Elems: []typesystem.Type{typesystem.TBit{}, typesystem.TBit{}}}
	mk := func(a, b bool) *evaluator.Thunk {
		return evaluator.Ready(&evaluator.Tuple{Elems: []*evaluator.Thunk{
			evaluator.Ready(s.BitLitValue(a)),
			evaluator.Ready(s.BitLitValue(b)),
		}})
	}
	v, err := s.Conditional(ty, &BitVar{Name: "c"}, mk(true, false), mk(false, true))
	if err != nil {
		t.Fatalf("Conditional: %s", err)
	}
	tup, err := evaluator.FromTuple(v)
	if err != nil {
		t.Fatalf("FromTuple: %s", err)
	}
	for i, want := range []string{"(ite c True False)", "(ite c False True)"} {
		el, err := tup.Elems[i].Force()
		if err != nil {
			t.Fatalf("component %d: %s", i, err)
		}
		if got := el.(*evaluator.Bit).B.String(); got != want {
			t.Errorf("component %d: got %q, want %q", i, got, want)
		}
	}
}

func applyWordPrim(t *testing.T, prim evaluator.Value, a, b evaluator.Value) evaluator.Value {
	t.Helper()
	poly, err := prim.(*evaluator.Poly).Fn(typesystem.TBit{})
	if err != nil {
		t.Fatalf("instantiating primitive: %s", err)
	}
	f1, err := poly.(*evaluator.Fun).Fn(evaluator.Ready(a))
	if err != nil {
		t.Fatalf("first argument: %s", err)
	}
	out, err := f1.(*evaluator.Fun).Fn(evaluator.Ready(b))
	if err != nil {
		t.Fatalf("second argument: %s", err)
	}
	return out
}

func TestSymbolicAddFoldsLiterals(t *testing.T) {
	s := NewSymbolic()
	add := symbolicPrims(s)[config.PrimAdd]
	v := applyWordPrim(t, add, s.WordLitValue(8, big.NewInt(3)), s.WordLitValue(8, big.NewInt(4)))
	lit, ok := s.WordValue(v.(*evaluator.Word).W)
	if !ok {
		t.Fatalf("literal operands should fold, got %s", v.(*evaluator.Word).W)
	}
	if lit.Int64() != 7 {
		t.Errorf("3 + 4: got %d", lit.Int64())
	}
}

func TestSymbolicAddBuildsTerm(t *testing.T) {
	s := NewSymbolic()
	add := symbolicPrims(s)[config.PrimAdd]
	v := applyWordPrim(t, add, s.WordVarValue("w", 8), s.WordLitValue(8, big.NewInt(3)))
	if got := v.(*evaluator.Word).W.String(); got != "(+ w 0x03)" {
		t.Errorf("symbolic add: got %q", got)
	}
}

func TestSymbolicLiteralZeroDivisorFails(t *testing.T) {
	s := NewSymbolic()
	div := symbolicPrims(s)[config.PrimDiv]
	poly, err := div.(*evaluator.Poly).Fn(typesystem.TBit{})
	if err != nil {
		t.Fatalf("instantiating: %s", err)
	}
	f1, err := poly.(*evaluator.Fun).Fn(evaluator.Ready(s.WordVarValue("w", 8)))
	if err != nil {
		t.Fatalf("first argument: %s", err)
	}
	_, err = f1.(*evaluator.Fun).Fn(evaluator.Ready(s.WordLitValue(8, big.NewInt(0))))
	if err == nil {
		t.Fatal("division by a literal zero should fail even symbolically")
	}
	if !evaluator.IsRuntimeError(err) {
		t.Errorf("expected a runtime error, got %T", err)
	}
}

func TestSymbolicComparisonBuildsTerm(t *testing.T) {
	s := NewSymbolic()
	lt := symbolicPrims(s)[config.PrimLt]
	v := applyWordPrim(t, lt, s.WordVarValue("w", 8), s.WordLitValue(8, big.NewInt(5)))
	if got := v.(*evaluator.Bit).B.String(); got != "(< w 0x05)" {
		t.Errorf("symbolic comparison: got %q", got)
	}
}

func TestSymbolicWordArgReassemblesBitSequence(t *testing.T) {
	s := NewSymbolic()
	seq := &evaluator.Seq{
		Len:  typesystem.Finite(2),
		Elem: typesystem.TBit{},
		Map: evaluator.ThunkSeqMap([]*evaluator.Thunk{
			evaluator.Ready(s.BitVarValue("c")),
			evaluator.Ready(s.BitLitValue(true)),
		}),
	}
	w, err := symbolicWordArg(s, evaluator.Ready(seq))
	if err != nil {
		t.Fatalf("symbolicWordArg: %s", err)
	}
	if got := w.String(); got != "(word c True)" {
		t.Errorf("reassembled word: got %q", got)
	}
}
