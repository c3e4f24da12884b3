package config

// Backend names
const (
	ConcreteBackendName = "concrete"
	SymbolicBackendName = "symbolic"
)

// Stable primitive identifiers. Primitive declarations carry one of
// these; the evaluator looks the implementation up in the injected table.
const (
	PrimNumber     = "number"
	PrimAdd        = "+"
	PrimSub        = "-"
	PrimMul        = "*"
	PrimDiv        = "/"
	PrimMod        = "%"
	PrimEq         = "=="
	PrimLt         = "<"
	PrimComplement = "complement"
	PrimZero       = "zero"
	PrimTrue       = "True"
	PrimFalse      = "False"
)

// JSON-RPC method names exposed by the remote API server.
const (
	MethodChangeDir  = "change directory"
	MethodLoadModule = "load module"
	MethodEvalExpr   = "evaluate expression"
	MethodCall       = "call"
)

// DefaultServerAddress is used when the server config names no address.
const DefaultServerAddress = "127.0.0.1:8080"
