// Package builtins describes the prelude: the primitive declarations
// every program is evaluated under. Implementations are not here — they
// come from the backend's primitive table, injected into the evaluator —
// this package only names the declarations and their stable identifiers.
package builtins

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/config"
)

// Prelude returns the module of primitive declarations. Each declaration
// binds a name to a primitive identifier; forcing one without a table
// entry reports the primitive as missing.
func Prelude() *ast.Module {
	idents := []string{
		config.PrimNumber,
		config.PrimAdd,
		config.PrimSub,
		config.PrimMul,
		config.PrimDiv,
		config.PrimMod,
		config.PrimEq,
		config.PrimLt,
		config.PrimComplement,
		config.PrimZero,
		config.PrimTrue,
		config.PrimFalse,
	}
	groups := make([]ast.DeclGroup, len(idents))
	for i, ident := range idents {
		groups[i] = ast.DeclGroup{
			Decls: []*ast.Decl{{Name: ident, Body: &ast.DPrim{Ident: ident}}},
		}
	}
	return &ast.Module{Name: "Prelude", Groups: groups}
}
