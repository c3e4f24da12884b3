package evaluator

import "github.com/pnwamk/cryptol/internal/typesystem"

// Environment maps bound names to suspended values and type variables to
// their bindings. Scopes form a chain with structural sharing: extension
// creates a child, parents are never modified. A scope's own map is
// populated while the scope is being set up (binding a declaration group,
// entering a lambda) and treated as immutable afterwards.
type Environment struct {
	vars  map[string]*Thunk
	types *typesystem.TypeEnv
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*Thunk), types: typesystem.NewTypeEnv()}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := &Environment{vars: make(map[string]*Thunk)}
	if outer != nil {
		env.types = outer.types
	}
	env.outer = outer
	return env
}

// Get resolves a name through the scope chain.
func (e *Environment) Get(name string) (*Thunk, bool) {
	for env := e; env != nil; env = env.outer {
		if t, ok := env.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Set binds a name in the current scope. Only called while the scope is
// under construction; existing child scopes never observe the change.
func (e *Environment) Set(name string, t *Thunk) {
	e.vars[name] = t
}

// Types returns the type variable bindings in scope.
func (e *Environment) Types() *typesystem.TypeEnv { return e.types }

// BindNumType extends the environment with a numeric type binding.
func (e *Environment) BindNumType(name string, n typesystem.Nat) *Environment {
	env := NewEnclosedEnvironment(e)
	env.types = e.types.BindNum(name, n)
	return env
}

// BindValType extends the environment with a value type binding.
func (e *Environment) BindValType(name string, t typesystem.Type) *Environment {
	env := NewEnclosedEnvironment(e)
	env.types = e.types.BindType(name, t)
	return env
}
