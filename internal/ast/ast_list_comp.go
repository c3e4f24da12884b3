package ast

import "github.com/pnwamk/cryptol/internal/typesystem"

// Comp represents a list comprehension.
// Syntax: [head | branch ; branch ; ...]
// Len and Elem come from the checked type of the whole comprehension;
// each branch is a left-to-right chain of matches whose earlier binders
// act as the outer loops.
type Comp struct {
	Len      typesystem.Type
	Elem     typesystem.Type
	Head     Expr
	Branches [][]Match
}

// Match is one step of a comprehension branch: a generator binding
// (From) or a local definition (Let).
type Match interface {
	matchNode()
}

// From draws elements from a source sequence.
// Example: x <- xs
type From struct {
	Name string
	Len  typesystem.Type // length of the source sequence
	Elem typesystem.Type // element type of the source sequence
	Expr Expr
}

// MatchLet binds a local, per-position definition inside a branch.
// Recursive definitions are not permitted here; the body is evaluated
// directly in the per-position environment.
type MatchLet struct {
	Decl *Decl
}

func (*From) matchNode()     {}
func (*MatchLet) matchNode() {}
