package backend

import (
	"math/big"

	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// symbolicPrims mirrors the concrete table over terms: operations fold
// when every operand is a literal and otherwise build operation nodes.
func symbolicPrims(s *Symbolic) map[string]evaluator.Value {
	return map[string]evaluator.Value{
		config.PrimNumber: &evaluator.NumPoly{Fn: func(val typesystem.Nat) (evaluator.Value, error) {
			return &evaluator.Poly{Fn: func(rep typesystem.Type) (evaluator.Value, error) {
				width, ok := wordWidth(rep)
				if !ok {
					return nil, &evaluator.ValueError{Msg: "literal has no representation at type " + rep.String()}
				}
				return s.WordLitValue(width, big.NewInt(int64(val.Size()))), nil
			}}, nil
		}},

		config.PrimAdd: symbolicWordBin(s, "+", func(w int, x, y *big.Int) (*big.Int, error) {
			return new(big.Int).Add(x, y), nil
		}),
		config.PrimSub: symbolicWordBin(s, "-", func(w int, x, y *big.Int) (*big.Int, error) {
			diff := new(big.Int).Sub(x, y)
			return diff.Add(diff, new(big.Int).Lsh(big.NewInt(1), uint(w))), nil
		}),
		config.PrimMul: symbolicWordBin(s, "*", func(w int, x, y *big.Int) (*big.Int, error) {
			return new(big.Int).Mul(x, y), nil
		}),
		config.PrimDiv: symbolicWordBin(s, "/", func(w int, x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, &evaluator.DivisionByZeroError{}
			}
			return new(big.Int).Quo(x, y), nil
		}),
		config.PrimMod: symbolicWordBin(s, "%", func(w int, x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, &evaluator.DivisionByZeroError{}
			}
			return new(big.Int).Rem(x, y), nil
		}),

		config.PrimEq: symbolicWordCmp(s, "==", func(x, y *big.Int) bool { return x.Cmp(y) == 0 }),
		config.PrimLt: symbolicWordCmp(s, "<", func(x, y *big.Int) bool { return x.Cmp(y) < 0 }),

		config.PrimComplement: &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(arg *evaluator.Thunk) (evaluator.Value, error) {
				x, err := symbolicWordArg(s, arg)
				if err != nil {
					return nil, err
				}
				if lit, ok := x.(*WordLit); ok {
					mask := new(big.Int).Lsh(big.NewInt(1), uint(lit.Width))
					mask.Sub(mask, big.NewInt(1))
					return s.WordLitValue(lit.Width, new(big.Int).Xor(lit.V, mask)), nil
				}
				return &evaluator.Word{W: &WordOp{Op: "not", Width: x.Len(), Args: []SymWord{x}}}, nil
			}}, nil
		}},

		config.PrimZero: &evaluator.Poly{Fn: func(ty typesystem.Type) (evaluator.Value, error) {
			return symbolicZero(s, ty)
		}},

		config.PrimTrue:  s.BitLitValue(true),
		config.PrimFalse: s.BitLitValue(false),
	}
}

func symbolicWordBin(s *Symbolic, op string, fold func(w int, x, y *big.Int) (*big.Int, error)) evaluator.Value {
	return &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
		return &evaluator.Fun{Fn: func(a *evaluator.Thunk) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(b *evaluator.Thunk) (evaluator.Value, error) {
				x, err := symbolicWordArg(s, a)
				if err != nil {
					return nil, err
				}
				y, err := symbolicWordArg(s, b)
				if err != nil {
					return nil, err
				}
				xl, xok := x.(*WordLit)
				yl, yok := y.(*WordLit)
				if xok && yok {
					r, err := fold(xl.Width, xl.V, yl.V)
					if err != nil {
						return nil, err
					}
					return s.WordLitValue(xl.Width, r), nil
				}
				// A literal zero divisor fails even against symbolic
				// dividends.
				if (op == "/" || op == "%") && yok && yl.V.Sign() == 0 {
					return nil, &evaluator.DivisionByZeroError{}
				}
				return &evaluator.Word{W: &WordOp{Op: op, Width: x.Len(), Args: []SymWord{x, y}}}, nil
			}}, nil
		}}, nil
	}}
}

func symbolicWordCmp(s *Symbolic, op string, fold func(x, y *big.Int) bool) evaluator.Value {
	return &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
		return &evaluator.Fun{Fn: func(a *evaluator.Thunk) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(b *evaluator.Thunk) (evaluator.Value, error) {
				x, err := symbolicWordArg(s, a)
				if err != nil {
					return nil, err
				}
				y, err := symbolicWordArg(s, b)
				if err != nil {
					return nil, err
				}
				xl, xok := x.(*WordLit)
				yl, yok := y.(*WordLit)
				if xok && yok {
					return s.BitLitValue(fold(xl.V, yl.V)), nil
				}
				return &evaluator.Bit{B: &BitCmp{Op: op, A: x, B: y}}, nil
			}}, nil
		}}, nil
	}}
}

// symbolicWordArg forces an argument into a word term. Bit sequences are
// reassembled bitwise; all-literal bits collapse back to a literal word.
func symbolicWordArg(s *Symbolic, t *evaluator.Thunk) (SymWord, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case *evaluator.Word:
		return val.W.(SymWord), nil
	case *evaluator.Seq:
		n := val.Len.Size()
		bits := make([]SymBit, n)
		allLit := true
		lit := new(big.Int)
		for i := 0; i < n; i++ {
			el, err := s.LookupSeq(val.Map, i)
			if err != nil {
				return nil, err
			}
			b, err := evaluator.FromBit(el)
			if err != nil {
				return nil, err
			}
			bits[i] = b.(SymBit)
			if bl, ok := bits[i].(BitLit); ok {
				if bool(bl) {
					lit.SetBit(lit, n-1-i, 1)
				}
			} else {
				allLit = false
			}
		}
		if allLit {
			return &WordLit{Width: n, V: lit}, nil
		}
		return &WordFromBits{Bits: bits}, nil
	case *evaluator.ErrVal:
		return nil, val.Err
	default:
		return nil, &evaluator.ValueError{Msg: "word primitive applied to a " + string(v.Type()) + " value"}
	}
}

// symbolicZero builds the all-zero value of a type over terms.
func symbolicZero(s *Symbolic, ty typesystem.Type) (evaluator.Value, error) {
	switch t := ty.(type) {
	case typesystem.TBit:
		return s.BitLitValue(false), nil
	case typesystem.TSeq:
		n := typesystem.EvalNumType(t.Len, nil)
		if _, isBit := t.Elem.(typesystem.TBit); isBit && !n.IsInf() {
			return s.WordLitValue(n.Size(), new(big.Int)), nil
		}
		elem := t.Elem
		return &evaluator.Seq{
			Len:  n,
			Elem: elem,
			Map: s.GenerateSeq(func(int) (evaluator.Value, error) {
				return symbolicZero(s, elem)
			}),
		}, nil
	case typesystem.TTuple:
		elems := make([]*evaluator.Thunk, len(t.Elems))
		for i, ety := range t.Elems {
			ety := ety
			elems[i] = s.Delay("", func() (evaluator.Value, error) { return symbolicZero(s, ety) })
		}
		return &evaluator.Tuple{Elems: elems}, nil
	case typesystem.TRecord:
		names := t.FieldNames()
		fields := make(map[string]*evaluator.Thunk, len(names))
		for _, f := range t.Fields {
			fty := f.Type
			fields[f.Name] = s.Delay("", func() (evaluator.Value, error) { return symbolicZero(s, fty) })
		}
		return &evaluator.Record{Names: names, Fields: fields}, nil
	case typesystem.TFun:
		res := t.Res
		return &evaluator.Fun{Fn: func(*evaluator.Thunk) (evaluator.Value, error) {
			return symbolicZero(s, res)
		}}, nil
	default:
		return nil, &evaluator.ValueError{Msg: "zero has no value at type " + ty.String()}
	}
}
