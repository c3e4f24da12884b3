package typesystem

// TypeEnv maps type variable names to their bindings: numeric-kinded
// variables to lengths, value-kinded variables to types. Extension always
// returns a new env; parents are shared, never touched.
type TypeEnv struct {
	name  string
	num   *Nat
	ty    Type
	outer *TypeEnv
}

// NewTypeEnv returns the empty type environment.
func NewTypeEnv() *TypeEnv { return nil }

// BindNum binds a numeric-kinded variable.
func (e *TypeEnv) BindNum(name string, n Nat) *TypeEnv {
	return &TypeEnv{name: name, num: &n, outer: e}
}

// BindType binds a value-kinded variable.
func (e *TypeEnv) BindType(name string, t Type) *TypeEnv {
	return &TypeEnv{name: name, ty: t, outer: e}
}

func (e *TypeEnv) lookup(name string) *TypeEnv {
	for scope := e; scope != nil; scope = scope.outer {
		if scope.name == name {
			return scope
		}
	}
	return nil
}

// EvalNumType resolves a numeric-kinded type to a length. An unbound
// variable or a value-kinded type here means the type checker let an
// ill-kinded program through, which is fatal.
func EvalNumType(t Type, env *TypeEnv) Nat {
	switch ty := t.(type) {
	case TNum:
		return ty.N
	case TVar:
		scope := env.lookup(ty.Name)
		if scope == nil {
			bug("EvalNumType", "unbound numeric type variable %q", ty.Name)
		}
		if scope.num == nil {
			bug("EvalNumType", "type variable %q bound to a value type where a length was expected", ty.Name)
		}
		return *scope.num
	default:
		bug("EvalNumType", "%s is not a numeric type", t)
		return Nat{}
	}
}

// EvalValType resolves every type variable in a value-kinded type,
// yielding a closed type the evaluator can inspect structurally.
func EvalValType(t Type, env *TypeEnv) Type {
	switch ty := t.(type) {
	case TBit:
		return ty
	case TNum:
		return ty
	case TSeq:
		return TSeq{
			Len:  TNum{N: EvalNumType(ty.Len, env)},
			Elem: EvalValType(ty.Elem, env),
		}
	case TTuple:
		elems := make([]Type, len(ty.Elems))
		for i, e := range ty.Elems {
			elems[i] = EvalValType(e, env)
		}
		return TTuple{Elems: elems}
	case TRecord:
		fields := make([]Field, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = Field{Name: f.Name, Type: EvalValType(f.Type, env)}
		}
		return TRecord{Fields: fields}
	case TFun:
		return TFun{Arg: EvalValType(ty.Arg, env), Res: EvalValType(ty.Res, env)}
	case TVar:
		scope := env.lookup(ty.Name)
		if scope == nil {
			bug("EvalValType", "unbound type variable %q", ty.Name)
		}
		if scope.ty == nil {
			return TNum{N: *scope.num}
		}
		return scope.ty
	default:
		bug("EvalValType", "unexpected type %T", t)
		return nil
	}
}
