package evaluator

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// evalSel projects a component. The container has been forced just far
// enough to reveal its outer shape; the component itself stays whatever
// suspension it already was, so selecting twice never evaluates twice.
func (e *Evaluator) evalSel(v Value, sel ast.Selector) (Value, error) {
	switch s := sel.(type) {
	case *ast.TupleSel:
		tup, err := FromTuple(v)
		if err != nil {
			return nil, err
		}
		if s.Index < 0 || s.Index >= len(tup.Elems) {
			bug("evalSel", "tuple index %d out of range for arity %d", s.Index, len(tup.Elems))
		}
		return tup.Elems[s.Index].Force()

	case *ast.RecordSel:
		rec, err := FromRecord(v)
		if err != nil {
			return nil, err
		}
		t, ok := rec.Field(s.Field)
		if !ok {
			bug("evalSel", "record has no field %q", s.Field)
		}
		return t.Force()

	case *ast.ListSel:
		return IndexValue(e.sym, v, s.Index)

	default:
		bug("evalSel", "unexpected selector %T", sel)
		return nil, nil
	}
}

// evalSetSel builds the functional update {base | sel = value}. The base
// stays suspended: the result has the shape dictated by the annotated
// type, the targeted component is the new suspension, and every other
// component re-derives its value from the original container on demand.
func (e *Evaluator) evalSetSel(env *Environment, node *ast.Set) (Value, error) {
	base := e.delayExpr(env, node.Expr)
	val := e.delayExpr(env, node.Value)
	ty := typesystem.EvalValType(node.Ty, env.Types())

	switch s := node.Sel.(type) {
	case *ast.TupleSel:
		tty, ok := ty.(typesystem.TTuple)
		if !ok {
			bug("evalSetSel", "tuple update on type %s", ty)
		}
		if s.Index < 0 || s.Index >= len(tty.Elems) {
			bug("evalSetSel", "tuple index %d out of range for arity %d", s.Index, len(tty.Elems))
		}
		elems := make([]*Thunk, len(tty.Elems))
		for i := range tty.Elems {
			if i == s.Index {
				elems[i] = val
				continue
			}
			elems[i] = e.projectTuple(base, i)
		}
		return &Tuple{Elems: elems}, nil

	case *ast.RecordSel:
		rty, ok := ty.(typesystem.TRecord)
		if !ok {
			bug("evalSetSel", "record update on type %s", ty)
		}
		if _, ok := rty.FieldType(s.Field); !ok {
			bug("evalSetSel", "record type %s has no field %q", ty, s.Field)
		}
		names := rty.FieldNames()
		fields := make(map[string]*Thunk, len(names))
		for _, name := range names {
			if name == s.Field {
				fields[name] = val
				continue
			}
			fields[name] = e.projectRecord(base, name)
		}
		return &Record{Names: names, Fields: fields}, nil

	case *ast.ListSel:
		sty, ok := ty.(typesystem.TSeq)
		if !ok {
			bug("evalSetSel", "sequence update on type %s", ty)
		}
		n := typesystem.EvalNumType(sty.Len, env.Types())
		if !n.IsInf() && (s.Index < 0 || s.Index >= n.Size()) {
			bug("evalSetSel", "sequence index %d out of range for length %s", s.Index, n)
		}
		// Point update over a map that lazily reads through to the
		// original container; a word-backed base unpacks per bit.
		baseMap := IndexSeqMap(func(i int) (Value, error) {
			bv, err := base.Force()
			if err != nil {
				return nil, err
			}
			return IndexValue(e.sym, bv, i)
		})
		return &Seq{
			Len:  n,
			Elem: sty.Elem,
			Map:  e.sym.UpdateSeq(baseMap, s.Index, val),
		}, nil

	default:
		bug("evalSetSel", "unexpected selector %T", node.Sel)
		return nil, nil
	}
}

func (e *Evaluator) projectTuple(base *Thunk, i int) *Thunk {
	return e.sym.Delay("", func() (Value, error) {
		bv, err := base.Force()
		if err != nil {
			return nil, err
		}
		tup, err := FromTuple(bv)
		if err != nil {
			return nil, err
		}
		if i >= len(tup.Elems) {
			bug("evalSetSel", "tuple index %d out of range for arity %d", i, len(tup.Elems))
		}
		return tup.Elems[i].Force()
	})
}

func (e *Evaluator) projectRecord(base *Thunk, name string) *Thunk {
	return e.sym.Delay("", func() (Value, error) {
		bv, err := base.Force()
		if err != nil {
			return nil, err
		}
		rec, err := FromRecord(bv)
		if err != nil {
			return nil, err
		}
		t, ok := rec.Field(name)
		if !ok {
			bug("evalSetSel", "record has no field %q", name)
		}
		return t.Force()
	})
}
