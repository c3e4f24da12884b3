package evaluator

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// EvalNewtypes binds newtype constructors. Construction is the identity
// at the value level, wrapped in one polymorphic layer per type
// parameter; the parameters themselves are erased.
func (e *Evaluator) EvalNewtypes(env *Environment, newtypes []*ast.Newtype) *Environment {
	if len(newtypes) == 0 {
		return env
	}
	scope := NewEnclosedEnvironment(env)
	for _, nt := range newtypes {
		scope.Set(nt.Name, Ready(newtypeValue(nt.Params)))
	}
	return scope
}

func newtypeValue(params []ast.TParam) Value {
	if len(params) == 0 {
		return &Fun{Fn: func(arg *Thunk) (Value, error) { return arg.Force() }}
	}
	rest := params[1:]
	switch params[0].Kind {
	case typesystem.KindNum:
		return &NumPoly{Fn: func(typesystem.Nat) (Value, error) {
			return newtypeValue(rest), nil
		}}
	default:
		return &Poly{Fn: func(typesystem.Type) (Value, error) {
			return newtypeValue(rest), nil
		}}
	}
}

// EvalDeclGroups extends env with each group in order; later groups see
// earlier ones.
func (e *Evaluator) EvalDeclGroups(env *Environment, groups []ast.DeclGroup) (*Environment, error) {
	var err error
	for i := range groups {
		env, err = e.evalDeclGroup(env, groups[i])
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

// evalDeclGroup binds one declaration group.
//
// A non-recursive group suspends its single body in the current
// environment. A recursive group ties the knot through holes: every
// declared name is first bound to a hole, all bodies are suspended in the
// environment containing those hole bindings, and only after every body
// exists is each hole filled. Forcing a recursively bound name therefore
// always reaches the same suspension, however many contexts demand it,
// which is what makes a recursive binding indistinguishable from its
// eta-expansion.
func (e *Evaluator) evalDeclGroup(env *Environment, group ast.DeclGroup) (*Environment, error) {
	scope := NewEnclosedEnvironment(env)

	if !group.Recursive {
		for _, d := range group.Decls {
			scope.Set(d.Name, e.declBody(env, d))
		}
		return scope, nil
	}

	fills := make([]FillFunc, len(group.Decls))
	for i, d := range group.Decls {
		hole, fill := e.sym.DeclareHole(d.Name)
		scope.Set(d.Name, hole)
		fills[i] = fill
	}

	// All bodies are constructed before any hole is filled; the fill
	// order itself does not matter.
	bodies := make([]*Thunk, len(group.Decls))
	for i, d := range group.Decls {
		bodies[i] = e.declBody(scope, d)
	}
	for i, fill := range fills {
		if err := fill(bodies[i]); err != nil {
			bug("evalDeclGroup", "declaration %q: %s", group.Decls[i].Name, err)
		}
	}
	return scope, nil
}

// declBody suspends one declaration body. A primitive declaration binds
// the table entry directly; a missing entry becomes a suspension that
// fails only if forced.
func (e *Evaluator) declBody(env *Environment, d *ast.Decl) *Thunk {
	switch body := d.Body.(type) {
	case *ast.DExpr:
		expr := body.Expr
		return e.sym.Delay(d.Name, func() (Value, error) {
			return e.EvalExpr(env, expr)
		})
	case *ast.DPrim:
		if v, ok := e.prims[body.Ident]; ok {
			return Ready(v)
		}
		ident := body.Ident
		return e.sym.Delay(d.Name, func() (Value, error) {
			return nil, &MissingPrimError{Ident: ident}
		})
	default:
		bug("declBody", "unexpected declaration body %T for %q", d.Body, d.Name)
		return nil
	}
}
