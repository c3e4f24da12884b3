package backend

import (
	"math/big"

	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// concretePrims is the primitive table shipped with the Concrete
// backend: word arithmetic, comparisons, and the polymorphic literal and
// zero constructors. The full primitive library of the language lives
// outside this core; this table covers what the drivers and the remote
// API exercise.
func concretePrims(c *Concrete) map[string]evaluator.Value {
	return map[string]evaluator.Value{
		config.PrimNumber: &evaluator.NumPoly{Fn: func(val typesystem.Nat) (evaluator.Value, error) {
			return &evaluator.Poly{Fn: func(rep typesystem.Type) (evaluator.Value, error) {
				width, ok := wordWidth(rep)
				if !ok {
					return nil, &evaluator.ValueError{Msg: "literal has no representation at type " + rep.String()}
				}
				return c.WordLit(width, big.NewInt(int64(val.Size())))
			}}, nil
		}},

		config.PrimAdd: concreteWordBin(c, func(w int, x, y *big.Int) (*big.Int, error) {
			return new(big.Int).Add(x, y), nil
		}),
		config.PrimSub: concreteWordBin(c, func(w int, x, y *big.Int) (*big.Int, error) {
			diff := new(big.Int).Sub(x, y)
			return diff.Add(diff, new(big.Int).Lsh(big.NewInt(1), uint(w))), nil
		}),
		config.PrimMul: concreteWordBin(c, func(w int, x, y *big.Int) (*big.Int, error) {
			return new(big.Int).Mul(x, y), nil
		}),
		config.PrimDiv: concreteWordBin(c, func(w int, x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, &evaluator.DivisionByZeroError{}
			}
			return new(big.Int).Quo(x, y), nil
		}),
		config.PrimMod: concreteWordBin(c, func(w int, x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, &evaluator.DivisionByZeroError{}
			}
			return new(big.Int).Rem(x, y), nil
		}),

		config.PrimEq: concreteWordCmp(c, func(x, y *big.Int) bool { return x.Cmp(y) == 0 }),
		config.PrimLt: concreteWordCmp(c, func(x, y *big.Int) bool { return x.Cmp(y) < 0 }),

		config.PrimComplement: &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(arg *evaluator.Thunk) (evaluator.Value, error) {
				x, w, err := concreteWordArg(c, arg)
				if err != nil {
					return nil, err
				}
				mask := new(big.Int).Lsh(big.NewInt(1), uint(w))
				mask.Sub(mask, big.NewInt(1))
				return c.WordLit(w, new(big.Int).Xor(x, mask))
			}}, nil
		}},

		config.PrimZero: &evaluator.Poly{Fn: func(ty typesystem.Type) (evaluator.Value, error) {
			return concreteZero(c, ty)
		}},

		config.PrimTrue:  c.BitLit(true),
		config.PrimFalse: c.BitLit(false),
	}
}

// concreteWordBin lifts a big.Int operation to a word primitive; results
// are truncated to the operand width.
func concreteWordBin(c *Concrete, op func(w int, x, y *big.Int) (*big.Int, error)) evaluator.Value {
	return &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
		return &evaluator.Fun{Fn: func(a *evaluator.Thunk) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(b *evaluator.Thunk) (evaluator.Value, error) {
				x, w, err := concreteWordArg(c, a)
				if err != nil {
					return nil, err
				}
				y, _, err := concreteWordArg(c, b)
				if err != nil {
					return nil, err
				}
				r, err := op(w, x, y)
				if err != nil {
					return nil, err
				}
				return c.WordLit(w, r)
			}}, nil
		}}, nil
	}}
}

func concreteWordCmp(c *Concrete, cmp func(x, y *big.Int) bool) evaluator.Value {
	return &evaluator.Poly{Fn: func(typesystem.Type) (evaluator.Value, error) {
		return &evaluator.Fun{Fn: func(a *evaluator.Thunk) (evaluator.Value, error) {
			return &evaluator.Fun{Fn: func(b *evaluator.Thunk) (evaluator.Value, error) {
				x, _, err := concreteWordArg(c, a)
				if err != nil {
					return nil, err
				}
				y, _, err := concreteWordArg(c, b)
				if err != nil {
					return nil, err
				}
				return c.BitLit(cmp(x, y)), nil
			}}, nil
		}}, nil
	}}
}

// concreteWordArg forces an argument to an unsigned integer and width.
// Both packed words and bit sequences (e.g. the result of a functional
// update on a word) are accepted.
func concreteWordArg(c *Concrete, t *evaluator.Thunk) (*big.Int, int, error) {
	v, err := t.Force()
	if err != nil {
		return nil, 0, err
	}
	switch val := v.(type) {
	case *evaluator.Word:
		x, _ := c.WordValue(val.W)
		return x, val.W.Len(), nil
	case *evaluator.Seq:
		n := val.Len.Size()
		out := new(big.Int)
		for i := 0; i < n; i++ {
			el, err := c.LookupSeq(val.Map, i)
			if err != nil {
				return nil, 0, err
			}
			b, err := evaluator.FromBit(el)
			if err != nil {
				return nil, 0, err
			}
			if on, _ := c.BitValue(b); on {
				out.SetBit(out, n-1-i, 1)
			}
		}
		return out, n, nil
	case *evaluator.ErrVal:
		return nil, 0, val.Err
	default:
		return nil, 0, &evaluator.ValueError{Msg: "word primitive applied to a " + string(v.Type()) + " value"}
	}
}

// concreteZero builds the all-zero value of a type.
func concreteZero(c *Concrete, ty typesystem.Type) (evaluator.Value, error) {
	switch t := ty.(type) {
	case typesystem.TBit:
		return c.BitLit(false), nil
	case typesystem.TSeq:
		n := typesystem.EvalNumType(t.Len, nil)
		if _, isBit := t.Elem.(typesystem.TBit); isBit && !n.IsInf() {
			return c.WordLit(n.Size(), new(big.Int))
		}
		elem := t.Elem
		return &evaluator.Seq{
			Len:  n,
			Elem: elem,
			Map: c.GenerateSeq(func(int) (evaluator.Value, error) {
				return concreteZero(c, elem)
			}),
		}, nil
	case typesystem.TTuple:
		elems := make([]*evaluator.Thunk, len(t.Elems))
		for i, ety := range t.Elems {
			ety := ety
			elems[i] = c.Delay("", func() (evaluator.Value, error) { return concreteZero(c, ety) })
		}
		return &evaluator.Tuple{Elems: elems}, nil
	case typesystem.TRecord:
		names := t.FieldNames()
		fields := make(map[string]*evaluator.Thunk, len(names))
		for _, f := range t.Fields {
			fty := f.Type
			fields[f.Name] = c.Delay("", func() (evaluator.Value, error) { return concreteZero(c, fty) })
		}
		return &evaluator.Record{Names: names, Fields: fields}, nil
	case typesystem.TFun:
		res := t.Res
		return &evaluator.Fun{Fn: func(*evaluator.Thunk) (evaluator.Value, error) {
			return concreteZero(c, res)
		}}, nil
	default:
		return nil, &evaluator.ValueError{Msg: "zero has no value at type " + ty.String()}
	}
}

// wordWidth reads the width out of a closed [n]Bit type.
func wordWidth(rep typesystem.Type) (int, bool) {
	seq, ok := rep.(typesystem.TSeq)
	if !ok {
		return 0, false
	}
	if _, isBit := seq.Elem.(typesystem.TBit); !isBit {
		return 0, false
	}
	n := typesystem.EvalNumType(seq.Len, nil)
	if n.IsInf() {
		return 0, false
	}
	return n.Size(), true
}
