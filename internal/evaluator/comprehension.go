package evaluator

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Comprehensions evaluate to a sequence whose element at position i is
// the head expression under that position's combined branch environment.
// Nothing is materialized up front: each branch folds into a listEnv of
// position-indexed generators, and nested-loop iteration order falls out
// of index arithmetic (the stuttering in evalMatch) instead of an eager
// cross product.

// genFunc produces the value of a varying binding at one position.
type genFunc func(i int) (Value, error)

// listEnv is the evaluation context of one comprehension branch: varying
// bindings as per-position generators, fixed bindings as plain
// suspensions, on top of the enclosing environment.
type listEnv struct {
	outer  *Environment
	vars   map[string]genFunc
	static map[string]*Thunk
}

func toListEnv(env *Environment) *listEnv {
	return &listEnv{
		outer:  env,
		vars:   make(map[string]genFunc),
		static: make(map[string]*Thunk),
	}
}

// envAt instantiates the branch context at position i. Varying bindings
// become fresh suspensions of their generator at i; memoization across
// positions lives in the sequence maps the generators read from.
func (l *listEnv) envAt(i int) *Environment {
	scope := NewEnclosedEnvironment(l.outer)
	for name, t := range l.static {
		scope.Set(name, t)
	}
	for name, g := range l.vars {
		gen := g
		scope.Set(name, NewThunk(name, func() (Value, error) { return gen(i) }))
	}
	return scope
}

// union combines two branch contexts pointwise. Name collisions are
// excluded upstream by scope checking.
func (l *listEnv) union(other *listEnv) *listEnv {
	out := &listEnv{
		outer:  l.outer,
		vars:   make(map[string]genFunc, len(l.vars)+len(other.vars)),
		static: make(map[string]*Thunk, len(l.static)+len(other.static)),
	}
	for name, g := range l.vars {
		out.vars[name] = g
	}
	for name, g := range other.vars {
		out.vars[name] = g
	}
	for name, t := range l.static {
		out.static[name] = t
	}
	for name, t := range other.static {
		out.static[name] = t
	}
	return out
}

// evalComp evaluates a comprehension to a sequence value of the
// precomputed length.
func (e *Evaluator) evalComp(env *Environment, node *ast.Comp) (Value, error) {
	length := typesystem.EvalNumType(node.Len, env.Types())
	elem := typesystem.EvalValType(node.Elem, env.Types())

	combined := toListEnv(env)
	for bi, branch := range node.Branches {
		lenv := toListEnv(env)
		var err error
		for _, m := range branch {
			lenv, err = e.evalMatch(lenv, m)
			if err != nil {
				return nil, err
			}
		}
		if bi == 0 {
			combined = lenv
		} else {
			combined = combined.union(lenv)
		}
	}

	head := node.Head
	body := e.sym.MemoSeq(e.sym.GenerateSeq(func(i int) (Value, error) {
		return e.EvalExpr(combined.envAt(i), head)
	}))
	return &Seq{Len: length, Elem: elem, Map: body}, nil
}

// evalMatch folds one match into the branch context.
//
// A From over a finite source of length n makes the new name the
// innermost loop: every existing varying binding stutters (its index
// becomes i/n) and the new binding takes element i%n of the source
// evaluated at outer index i/n.
//
// A From over an infinite source collapses every existing varying binding
// to its value at position 0: an infinite innermost generator means the
// outer choices are never revisited. The source is then evaluated once
// and indexed directly.
func (e *Evaluator) evalMatch(lenv *listEnv, m ast.Match) (*listEnv, error) {
	switch match := m.(type) {
	case *ast.From:
		srcLen := typesystem.EvalNumType(match.Len, lenv.outer.Types())
		if srcLen.IsInf() {
			return e.matchFromInf(lenv, match), nil
		}
		return e.matchFromFinite(lenv, match, srcLen.Size()), nil

	case *ast.MatchLet:
		decl := match.Decl
		out := lenv.union(toListEnv(lenv.outer))
		out.vars[decl.Name] = func(i int) (Value, error) {
			body, ok := decl.Body.(*ast.DExpr)
			if !ok {
				bug("evalMatch", "comprehension let %q is not an expression declaration", decl.Name)
			}
			return e.EvalExpr(lenv.envAt(i), body.Expr)
		}
		return out, nil

	default:
		bug("evalMatch", "unexpected match form %T", m)
		return nil, nil
	}
}

func (e *Evaluator) matchFromFinite(lenv *listEnv, match *ast.From, n int) *listEnv {
	// One source evaluation per outer position, memoized: position i of
	// the result reads element i%n of source i/n.
	sources := e.sym.MemoSeq(e.sym.GenerateSeq(func(q int) (Value, error) {
		return e.EvalExpr(lenv.envAt(q), match.Expr)
	}))

	out := &listEnv{
		outer:  lenv.outer,
		vars:   make(map[string]genFunc, len(lenv.vars)+1),
		static: lenv.static,
	}
	for name, g := range lenv.vars {
		gen := g
		out.vars[name] = func(i int) (Value, error) { return gen(i / n) }
	}
	out.vars[match.Name] = func(i int) (Value, error) {
		q, r := i/n, i%n
		src, err := e.sym.LookupSeq(sources, q)
		if err != nil {
			return nil, err
		}
		return IndexValue(e.sym, src, r)
	}
	return out
}

func (e *Evaluator) matchFromInf(lenv *listEnv, match *ast.From) *listEnv {
	out := &listEnv{
		outer:  lenv.outer,
		vars:   make(map[string]genFunc, 1),
		static: make(map[string]*Thunk, len(lenv.static)+len(lenv.vars)),
	}
	for name, t := range lenv.static {
		out.static[name] = t
	}
	for name, g := range lenv.vars {
		gen := g
		out.static[name] = e.sym.Delay(name, func() (Value, error) { return gen(0) })
	}

	source := e.sym.Delay(match.Name, func() (Value, error) {
		return e.EvalExpr(out.envAt(0), match.Expr)
	})
	out.vars[match.Name] = func(i int) (Value, error) {
		src, err := source.Force()
		if err != nil {
			return nil, err
		}
		return IndexValue(e.sym, src, i)
	}
	return out
}
