package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system. The evaluator only
// ever sees types produced by the type checker, so there is no inference
// machinery here: just the shapes needed to drive evaluation (sequence
// lengths, tuple/record arity, field names) plus type variables that are
// resolved against a TypeEnv.
type Type interface {
	String() string
	Kind() Kind
}

// TBit is the type of a single boolean.
type TBit struct{}

func (TBit) String() string { return "Bit" }
func (TBit) Kind() Kind     { return KindValue }

// TSeq is a sequence type [len]elem. Len is numeric-kinded and may be a
// TNum, a numeric TVar, or any numeric type the checker produced.
type TSeq struct {
	Len  Type
	Elem Type
}

func (t TSeq) String() string { return fmt.Sprintf("[%s]%s", t.Len, t.Elem) }
func (TSeq) Kind() Kind       { return KindValue }

// TTuple is a tuple type. The evaluator relies on the arity.
type TTuple struct {
	Elems []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (TTuple) Kind() Kind { return KindValue }

// TRecord is a record type with a stable field order.
type TRecord struct {
	Fields []Field
}

// Field is one record field.
type Field struct {
	Name string
	Type Type
}

func (t TRecord) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + " : " + f.Type.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (TRecord) Kind() Kind { return KindValue }

// FieldNames returns the field names in declaration order.
func (t TRecord) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldType looks up a field's type by name.
func (t TRecord) FieldType(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// TFun is a function type.
type TFun struct {
	Arg Type
	Res Type
}

func (t TFun) String() string { return fmt.Sprintf("(%s -> %s)", t.Arg, t.Res) }
func (TFun) Kind() Kind       { return KindValue }

// TVar is a type variable bound in the evaluation environment. The scope
// checker guarantees every TVar the evaluator meets has a binding.
type TVar struct {
	Name    string
	KindVal Kind
}

func (t TVar) String() string { return t.Name }
func (t TVar) Kind() Kind     { return t.KindVal }

// TNum is a numeric type literal (a sequence length).
type TNum struct {
	N Nat
}

func (t TNum) String() string { return t.N.String() }
func (TNum) Kind() Kind       { return KindNum }
