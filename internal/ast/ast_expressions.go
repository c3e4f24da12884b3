package ast

import "github.com/pnwamk/cryptol/internal/typesystem"

// Expr is the interface for all expression forms.
type Expr interface {
	exprNode()
}

// List is a literal sequence. Elem is the element type: when it resolves
// to Bit the evaluator may pack the elements into a word eagerly.
type List struct {
	Elems []Expr
	Elem  typesystem.Type
}

// Tuple is a literal tuple.
type Tuple struct {
	Elems []Expr
}

// Record is a literal record. Field order is the declaration order from
// the source and is preserved through evaluation.
type Record struct {
	Fields []RecField
}

// RecField is one field of a record literal.
type RecField struct {
	Name string
	Expr Expr
}

// Sel projects a component out of a tuple, record or sequence.
type Sel struct {
	Expr Expr
	Sel  Selector
}

// Set is a functional update: a copy of Expr with the selected component
// replaced by Value. Ty is the type of Expr at this point; the evaluator
// uses it to build the result shape without forcing the base.
type Set struct {
	Expr  Expr
	Sel   Selector
	Value Expr
	Ty    typesystem.Type
}

// If is a conditional. Ty is the type of the branches; symbolic backends
// use it when merging both branches into a single value.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Ty   typesystem.Type
}

// Var references a bound name. Scope checking guarantees resolution.
type Var struct {
	Name string
}

// TAbs abstracts over a type-level parameter. A value-kinded parameter
// yields a universally polymorphic value, a numeric-kinded one a
// numerically polymorphic value.
type TAbs struct {
	Param TParam
	Body  Expr
}

// TApp applies a polymorphic value to a type argument.
type TApp struct {
	Expr Expr
	Arg  typesystem.Type
}

// App is function application.
type App struct {
	Fn  Expr
	Arg Expr
}

// Abs is a lambda with a single parameter.
type Abs struct {
	Param string
	Body  Expr
}

// ProofAbs abstracts over constraint evidence. Evidence is erased at the
// value level, so evaluation passes straight through.
type ProofAbs struct {
	Body Expr
}

// ProofApp applies constraint evidence. Erased, like ProofAbs.
type ProofApp struct {
	Expr Expr
}

// Where evaluates Body under additional local declaration groups.
type Where struct {
	Body   Expr
	Groups []DeclGroup
}

func (*List) exprNode()     {}
func (*Tuple) exprNode()    {}
func (*Record) exprNode()   {}
func (*Sel) exprNode()      {}
func (*Set) exprNode()      {}
func (*If) exprNode()       {}
func (*Var) exprNode()      {}
func (*TAbs) exprNode()     {}
func (*TApp) exprNode()     {}
func (*App) exprNode()      {}
func (*Abs) exprNode()      {}
func (*ProofAbs) exprNode() {}
func (*ProofApp) exprNode() {}
func (*Where) exprNode()    {}
func (*Comp) exprNode()     {}

// Selector identifies a component of an aggregate value.
type Selector interface {
	selectorNode()
}

// TupleSel selects the Index-th tuple component.
type TupleSel struct {
	Index int
}

// RecordSel selects a record field by name.
type RecordSel struct {
	Field string
}

// ListSel selects the Index-th sequence element.
type ListSel struct {
	Index int
}

func (*TupleSel) selectorNode()  {}
func (*RecordSel) selectorNode() {}
func (*ListSel) selectorNode()   {}
