package typesystem

import "testing"

func TestNat(t *testing.T) {
	if Inf.Equal(Finite(0)) {
		t.Error("inf must not equal a finite length")
	}
	if !Finite(5).Equal(Finite(5)) {
		t.Error("equal finite lengths")
	}
	if Inf.String() != "inf" {
		t.Errorf("Inf.String(): got %q", Inf.String())
	}
	if Finite(8).Size() != 8 {
		t.Errorf("Finite(8).Size(): got %d", Finite(8).Size())
	}
}

func TestTypeStrings(t *testing.T) {
	for _, tc := range []struct {
		ty   Type
		want string
	}{
		{TBit{}, "Bit"},
		{TSeq{Len: TNum{N: Finite(8)}, Elem: TBit{}}, "[8]Bit"},
		{TSeq{Len: TNum{N: Inf}, Elem: TBit{}}, "[inf]Bit"},
		{TTuple{Elems: []Type{TBit{}, TBit{}}}, "(Bit, Bit)"},
		{TFun{Arg: TBit{}, Res: TBit{}}, "(Bit -> Bit)"},
		{TVar{Name: "a", KindVal: KindValue}, "a"},
	} {
		if got := tc.ty.String(); got != tc.want {
			t.Errorf("String(): got %q, want %q", got, tc.want)
		}
	}
}

func TestTypeEnvResolution(t *testing.T) {
	env := NewTypeEnv().BindNum("n", Finite(8)).BindType("a", TBit{})

	n := EvalNumType(TVar{Name: "n", KindVal: KindNum}, env)
	if !n.Equal(Finite(8)) {
		t.Errorf("resolving n: got %s", n)
	}

	ty := EvalValType(TSeq{Len: TVar{Name: "n", KindVal: KindNum}, Elem: TVar{Name: "a", KindVal: KindValue}}, env)
	if ty.String() != "[8]Bit" {
		t.Errorf("resolving [n]a: got %s", ty)
	}
}

func TestTypeEnvShadowing(t *testing.T) {
	env := NewTypeEnv().BindNum("n", Finite(1)).BindNum("n", Finite(2))
	n := EvalNumType(TVar{Name: "n", KindVal: KindNum}, env)
	if !n.Equal(Finite(2)) {
		t.Errorf("inner binding should shadow: got %s", n)
	}
}

func TestRecordFieldLookup(t *testing.T) {
	r := TRecord{Fields: []Field{{Name: "a", Type: TBit{}}, {Name: "b", Type: TBit{}}}}
	if names := r.FieldNames(); len(names) != 2 || names[0] != "a" {
		t.Errorf("FieldNames: got %v", names)
	}
	if _, ok := r.FieldType("b"); !ok {
		t.Error("field b should resolve")
	}
	if _, ok := r.FieldType("c"); ok {
		t.Error("field c should not resolve")
	}
}

func bugFrom(t *testing.T, f func()) *Bug {
	t.Helper()
	var b *Bug
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected a panic")
			}
			var ok bool
			b, ok = r.(*Bug)
			if !ok {
				t.Fatalf("panic payload is %T, want *Bug", r)
			}
		}()
		f()
	}()
	return b
}

func TestIllKindedResolutionPanicsWithBug(t *testing.T) {
	env := NewTypeEnv().BindType("a", TBit{})

	b := bugFrom(t, func() { EvalValType(TVar{Name: "x", KindVal: KindValue}, env) })
	if b.Where != "EvalValType" {
		t.Errorf("Where: got %q", b.Where)
	}

	bugFrom(t, func() { EvalNumType(TVar{Name: "x", KindVal: KindNum}, env) })
	bugFrom(t, func() { EvalNumType(TVar{Name: "a", KindVal: KindNum}, env) })
	bugFrom(t, func() { EvalNumType(TBit{}, env) })
	bugFrom(t, func() { Inf.Size() })
}
