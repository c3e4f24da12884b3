// Package codec translates between the JSON wire schema of the remote
// API and the type-checked program representation. The schema follows
// the original remote protocol: bitvectors travel hex-encoded with an
// explicit width, aggregates as tagged objects, plain strings reference
// bound names.
package codec

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// DecodeExpr parses one wire expression.
func DecodeExpr(data []byte) (ast.Expr, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding expression: %w", err)
	}
	return decodeExpr(raw)
}

func decodeExpr(raw interface{}) (ast.Expr, error) {
	switch v := raw.(type) {
	case string:
		return &ast.Var{Name: v}, nil
	case bool:
		if v {
			return &ast.Var{Name: config.PrimTrue}, nil
		}
		return &ast.Var{Name: config.PrimFalse}, nil
	case float64:
		return nil, fmt.Errorf("bare numbers are not decodable without a width; send %q instead", "bits")
	case map[string]interface{}:
		return decodeTagged(v)
	default:
		return nil, fmt.Errorf("cannot decode %T as an expression", raw)
	}
}

func decodeTagged(obj map[string]interface{}) (ast.Expr, error) {
	tag, _ := obj["expression"].(string)
	switch tag {
	case "bits":
		return decodeBits(obj)
	case "unit":
		return &ast.Tuple{}, nil
	case "tuple":
		elems, err := decodeExprList(obj["data"])
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elems: elems}, nil
	case "record":
		return decodeRecordExpr(obj)
	case "sequence":
		return decodeSequenceExpr(obj)
	case "call":
		return decodeCall(obj)
	case "lambda":
		return decodeLambda(obj)
	case "if":
		return decodeIf(obj)
	case "instantiate":
		return decodeInstantiate(obj)
	case "select":
		return decodeSelect(obj)
	case "update":
		return decodeUpdate(obj)
	case "comprehension":
		return decodeComprehension(obj)
	default:
		return nil, fmt.Errorf("unknown expression form %q", tag)
	}
}

// decodeBits turns a hex-encoded bitvector into a literal bit sequence,
// which the evaluator packs back into a word.
func decodeBits(obj map[string]interface{}) (ast.Expr, error) {
	width, err := intField(obj, "width")
	if err != nil {
		return nil, err
	}
	enc, _ := obj["encoding"].(string)
	if enc != "hex" {
		return nil, fmt.Errorf("unsupported bits encoding %q", enc)
	}
	data, _ := obj["data"].(string)
	v, ok := new(big.Int).SetString(data, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex data %q", data)
	}
	elems := make([]ast.Expr, width)
	for i := 0; i < width; i++ {
		name := config.PrimFalse
		if v.Bit(width-1-i) == 1 {
			name = config.PrimTrue
		}
		elems[i] = &ast.Var{Name: name}
	}
	return &ast.List{Elems: elems, Elem: typesystem.TBit{}}, nil
}

func decodeRecordExpr(obj map[string]interface{}) (ast.Expr, error) {
	data, ok := obj["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("record expression needs an object %q field", "data")
	}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]ast.RecField, len(names))
	for i, name := range names {
		f, err := decodeExpr(data[name])
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", name, err)
		}
		fields[i] = ast.RecField{Name: name, Expr: f}
	}
	return &ast.Record{Fields: fields}, nil
}

func decodeSequenceExpr(obj map[string]interface{}) (ast.Expr, error) {
	elems, err := decodeExprList(obj["data"])
	if err != nil {
		return nil, err
	}
	var elemTy typesystem.Type = typesystem.TBit{}
	if t, ok := obj["element"]; ok {
		elemTy, err = decodeType(t)
		if err != nil {
			return nil, err
		}
	}
	return &ast.List{Elems: elems, Elem: elemTy}, nil
}

func decodeCall(obj map[string]interface{}) (ast.Expr, error) {
	fn, err := decodeExpr(obj["function"])
	if err != nil {
		return nil, err
	}
	args, err := decodeExprList(obj["arguments"])
	if err != nil {
		return nil, err
	}
	out := fn
	for _, arg := range args {
		out = &ast.App{Fn: out, Arg: arg}
	}
	return out, nil
}

func decodeLambda(obj map[string]interface{}) (ast.Expr, error) {
	param, ok := obj["parameter"].(string)
	if !ok {
		return nil, fmt.Errorf("lambda needs a string %q field", "parameter")
	}
	body, err := decodeExpr(obj["body"])
	if err != nil {
		return nil, err
	}
	return &ast.Abs{Param: param, Body: body}, nil
}

func decodeIf(obj map[string]interface{}) (ast.Expr, error) {
	cond, err := decodeExpr(obj["condition"])
	if err != nil {
		return nil, err
	}
	then, err := decodeExpr(obj["then"])
	if err != nil {
		return nil, err
	}
	els, err := decodeExpr(obj["else"])
	if err != nil {
		return nil, err
	}
	ty, err := decodeType(obj["type"])
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Ty: ty}, nil
}

// decodeInstantiate reads the target from "generic": the "expression"
// key already carries the form tag.
func decodeInstantiate(obj map[string]interface{}) (ast.Expr, error) {
	inner, err := decodeExpr(obj["generic"])
	if err != nil {
		return nil, err
	}
	arg, err := decodeType(obj["argument"])
	if err != nil {
		return nil, err
	}
	return &ast.TApp{Expr: inner, Arg: arg}, nil
}

func decodeSelector(raw interface{}) (ast.Selector, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("selector must be an object")
	}
	if i, ok := obj["tuple"]; ok {
		n, err := asInt(i, "tuple")
		if err != nil {
			return nil, err
		}
		return &ast.TupleSel{Index: n}, nil
	}
	if f, ok := obj["record"].(string); ok {
		return &ast.RecordSel{Field: f}, nil
	}
	if i, ok := obj["index"]; ok {
		n, err := asInt(i, "index")
		if err != nil {
			return nil, err
		}
		return &ast.ListSel{Index: n}, nil
	}
	return nil, fmt.Errorf("selector needs a %q, %q or %q field", "tuple", "record", "index")
}

func decodeSelect(obj map[string]interface{}) (ast.Expr, error) {
	from, err := decodeExpr(obj["from"])
	if err != nil {
		return nil, err
	}
	sel, err := decodeSelector(obj["selector"])
	if err != nil {
		return nil, err
	}
	return &ast.Sel{Expr: from, Sel: sel}, nil
}

func decodeUpdate(obj map[string]interface{}) (ast.Expr, error) {
	from, err := decodeExpr(obj["from"])
	if err != nil {
		return nil, err
	}
	sel, err := decodeSelector(obj["selector"])
	if err != nil {
		return nil, err
	}
	val, err := decodeExpr(obj["value"])
	if err != nil {
		return nil, err
	}
	ty, err := decodeType(obj["type"])
	if err != nil {
		return nil, err
	}
	return &ast.Set{Expr: from, Sel: sel, Value: val, Ty: ty}, nil
}

func decodeComprehension(obj map[string]interface{}) (ast.Expr, error) {
	length, err := decodeType(obj["length"])
	if err != nil {
		return nil, err
	}
	elem, err := decodeType(obj["element"])
	if err != nil {
		return nil, err
	}
	head, err := decodeExpr(obj["head"])
	if err != nil {
		return nil, err
	}
	rawBranches, ok := obj["branches"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("comprehension needs an array %q field", "branches")
	}
	branches := make([][]ast.Match, len(rawBranches))
	for i, rawBranch := range rawBranches {
		steps, ok := rawBranch.([]interface{})
		if !ok {
			return nil, fmt.Errorf("comprehension branch %d must be an array", i)
		}
		branch := make([]ast.Match, len(steps))
		for j, rawStep := range steps {
			m, err := decodeMatch(rawStep)
			if err != nil {
				return nil, fmt.Errorf("comprehension branch %d: %w", i, err)
			}
			branch[j] = m
		}
		branches[i] = branch
	}
	return &ast.Comp{Len: length, Elem: elem, Head: head, Branches: branches}, nil
}

func decodeMatch(raw interface{}) (ast.Match, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("match must be an object")
	}
	if f, ok := obj["from"].(map[string]interface{}); ok {
		name, _ := f["name"].(string)
		length, err := decodeType(f["length"])
		if err != nil {
			return nil, err
		}
		elem, err := decodeType(f["element"])
		if err != nil {
			return nil, err
		}
		src, err := decodeExpr(f["source"])
		if err != nil {
			return nil, err
		}
		return &ast.From{Name: name, Len: length, Elem: elem, Expr: src}, nil
	}
	if l, ok := obj["let"].(map[string]interface{}); ok {
		name, _ := l["name"].(string)
		body, err := decodeExpr(l["body"])
		if err != nil {
			return nil, err
		}
		return &ast.MatchLet{Decl: &ast.Decl{Name: name, Body: &ast.DExpr{Expr: body}}}, nil
	}
	return nil, fmt.Errorf("match needs a %q or %q field", "from", "let")
}

func decodeExprList(raw interface{}) ([]ast.Expr, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array, found %T", raw)
	}
	out := make([]ast.Expr, len(items))
	for i, item := range items {
		e, err := decodeExpr(item)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func intField(obj map[string]interface{}, name string) (int, error) {
	v, ok := obj[name]
	if !ok {
		return 0, fmt.Errorf("missing %q field", name)
	}
	return asInt(v, name)
}

func asInt(v interface{}, name string) (int, error) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) || f < 0 {
		return 0, fmt.Errorf("%q must be a non-negative integer", name)
	}
	return int(f), nil
}
