// Package ast holds the type-checked program representation consumed by
// the evaluator. It is produced upstream (parser and type checker are
// separate systems) and is read-only here: every node carries whatever
// type annotations evaluation needs, and name resolution is assumed to
// have succeeded already.
package ast

import "github.com/pnwamk/cryptol/internal/typesystem"

// Module is one type-checked module: newtype definitions followed by
// declaration groups in dependency order.
type Module struct {
	Name     string
	Newtypes []*Newtype
	Groups   []DeclGroup
}

// Newtype introduces a nominal wrapper type. At the value level the
// constructor is the identity, wrapped in one polymorphic layer per
// parameter.
type Newtype struct {
	Name   string
	Params []TParam
}

// TParam is a type-level parameter with its kind.
type TParam struct {
	Name string
	Kind typesystem.Kind
}

// DeclGroup is a strongly connected component of declarations. A
// non-recursive group holds exactly one declaration; a recursive group
// holds one or more mutually referring declarations.
type DeclGroup struct {
	Recursive bool
	Decls     []*Decl
}

// Decl binds a name to a body, either an expression or a primitive tag.
type Decl struct {
	Name string
	Body DeclBody
}

// DeclBody is either DExpr or DPrim.
type DeclBody interface {
	declBodyNode()
}

// DExpr is an ordinary definition.
type DExpr struct {
	Expr Expr
}

func (*DExpr) declBodyNode() {}

// DPrim marks the declaration as primitive; the implementation is looked
// up by Ident in the caller-supplied primitive table.
type DPrim struct {
	Ident string
}

func (*DPrim) declBodyNode() {}
