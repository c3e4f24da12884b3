// Package evaluator implements non-strict, demand-driven evaluation of
// type-checked programs. Every subterm is suspended and forced at most
// once; the value representation is supplied by a pluggable Backend so
// the same code drives concrete and symbolic execution.
package evaluator

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Evaluator evaluates expressions and declarations against a backend.
// The primitive table is injected at construction and consulted when a
// primitive declaration is bound; it is never ambient state.
type Evaluator struct {
	sym   Backend
	prims map[string]Value
}

// New creates an evaluator over the given backend and primitive table.
// A nil table is allowed: forcing any primitive then reports it missing.
func New(sym Backend, prims map[string]Value) *Evaluator {
	return &Evaluator{sym: sym, prims: prims}
}

// Backend returns the backend this evaluator runs on.
func (e *Evaluator) Backend() Backend { return e.sym }

// EvalModule binds a module's newtypes and declaration groups, returning
// the extended environment.
func (e *Evaluator) EvalModule(env *Environment, m *ast.Module) (*Environment, error) {
	env = e.EvalNewtypes(env, m.Newtypes)
	return e.EvalDeclGroups(env, m.Groups)
}

// EvalExpr evaluates an expression to a value. It is non-strict in every
// subterm: aggregates are built from suspensions, applications suspend
// their argument, and only positions that steer evaluation (a condition,
// a function position, the outer shape of a selection) are forced.
func (e *Evaluator) EvalExpr(env *Environment, expr ast.Expr) (Value, error) {
	switch node := expr.(type) {
	case *ast.List:
		return e.evalListLiteral(env, node)

	case *ast.Tuple:
		elems := make([]*Thunk, len(node.Elems))
		for i, el := range node.Elems {
			elems[i] = e.delayExpr(env, el)
		}
		return &Tuple{Elems: elems}, nil

	case *ast.Record:
		names := make([]string, len(node.Fields))
		fields := make(map[string]*Thunk, len(node.Fields))
		for i, f := range node.Fields {
			names[i] = f.Name
			fields[f.Name] = e.delayExpr(env, f.Expr)
		}
		return &Record{Names: names, Fields: fields}, nil

	case *ast.Sel:
		v, err := e.EvalExpr(env, node.Expr)
		if err != nil {
			return nil, err
		}
		return e.evalSel(v, node.Sel)

	case *ast.Set:
		return e.evalSetSel(env, node)

	case *ast.If:
		cv, err := e.EvalExpr(env, node.Cond)
		if err != nil {
			return nil, err
		}
		cond, err := FromBit(cv)
		if err != nil {
			return nil, err
		}
		ty := typesystem.EvalValType(node.Ty, env.Types())
		return e.sym.Conditional(ty, cond,
			e.delayExpr(env, node.Then),
			e.delayExpr(env, node.Else))

	case *ast.Comp:
		return e.evalComp(env, node)

	case *ast.Var:
		t, ok := env.Get(node.Name)
		if !ok {
			bug("EvalExpr", "unresolved variable %q", node.Name)
		}
		return t.Force()

	case *ast.TAbs:
		return e.evalTAbs(env, node), nil

	case *ast.TApp:
		fv, err := e.EvalExpr(env, node.Expr)
		if err != nil {
			return nil, err
		}
		return e.evalTApp(env, fv, node.Arg)

	case *ast.App:
		fv, err := e.EvalExpr(env, node.Fn)
		if err != nil {
			return nil, err
		}
		fn, err := FromFun(fv)
		if err != nil {
			return nil, err
		}
		return fn.Fn(e.delayExpr(env, node.Arg))

	case *ast.Abs:
		return e.evalLambda(env, node), nil

	case *ast.ProofAbs:
		// Constraint evidence is erased at the value level.
		return e.EvalExpr(env, node.Body)

	case *ast.ProofApp:
		return e.EvalExpr(env, node.Expr)

	case *ast.Where:
		extended, err := e.EvalDeclGroups(env, node.Groups)
		if err != nil {
			return nil, err
		}
		return e.EvalExpr(extended, node.Body)

	default:
		bug("EvalExpr", "unexpected expression form %T", expr)
		return nil, nil
	}
}

// delayExpr suspends evaluation of expr under env.
func (e *Evaluator) delayExpr(env *Environment, expr ast.Expr) *Thunk {
	return e.sym.Delay("", func() (Value, error) { return e.EvalExpr(env, expr) })
}

// evalListLiteral builds a sequence value from a literal. Boolean
// elements are packed into a word eagerly when the backend can represent
// all of them; any other element type gets a lazily generated, memoized
// map of suspended elements.
func (e *Evaluator) evalListLiteral(env *Environment, node *ast.List) (Value, error) {
	elems := make([]*Thunk, len(node.Elems))
	for i, el := range node.Elems {
		elems[i] = e.delayExpr(env, el)
	}
	elemTy := typesystem.EvalValType(node.Elem, env.Types())
	if _, isBit := elemTy.(typesystem.TBit); isBit {
		w, ok, err := e.sym.PackBits(elems)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Word{W: w}, nil
		}
	}
	return &Seq{
		Len:  typesystem.Finite(len(elems)),
		Elem: elemTy,
		Map:  e.sym.MemoSeq(ThunkSeqMap(elems)),
	}, nil
}

// evalTAbs builds the polymorphic value for a type abstraction. The kind
// of the parameter decides which polymorphic variant is produced.
func (e *Evaluator) evalTAbs(env *Environment, node *ast.TAbs) Value {
	switch node.Param.Kind {
	case typesystem.KindNum:
		return &NumPoly{Fn: func(n typesystem.Nat) (Value, error) {
			return e.EvalExpr(env.BindNumType(node.Param.Name, n), node.Body)
		}}
	default:
		return &Poly{Fn: func(t typesystem.Type) (Value, error) {
			return e.EvalExpr(env.BindValType(node.Param.Name, t), node.Body)
		}}
	}
}

// evalTApp applies a polymorphic value to a type argument. The forced
// function value decides how the argument is interpreted; a kind mismatch
// means the type checker is broken.
func (e *Evaluator) evalTApp(env *Environment, fv Value, arg typesystem.Type) (Value, error) {
	switch fn := fv.(type) {
	case *NumPoly:
		return fn.Fn(typesystem.EvalNumType(arg, env.Types()))
	case *Poly:
		return fn.Fn(typesystem.EvalValType(arg, env.Types()))
	case *ErrVal:
		return nil, fn.Err
	default:
		bug("EvalExpr", "type application to a non-polymorphic value of shape %s", fv.Type())
		return nil, nil
	}
}

// evalLambda closes over env; the argument arrives suspended and is
// bound, not forced.
func (e *Evaluator) evalLambda(env *Environment, node *ast.Abs) Value {
	return &Fun{Fn: func(arg *Thunk) (Value, error) {
		scope := NewEnclosedEnvironment(env)
		scope.Set(node.Param, arg)
		return e.EvalExpr(scope, node.Body)
	}}
}
