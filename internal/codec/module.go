package codec

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/pipeline"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Module JSON form:
//
//	{"name": "Foo",
//	 "newtypes": [{"name":"T","params":[{"name":"n","kind":"num"}]}],
//	 "declarations": [
//	   {"recursive":false,
//	    "decls":[{"name":"x","expression":E} | {"name":"p","primitive":"+"}]}]}

// DecodeModule parses one wire module.
func DecodeModule(data []byte) (*ast.Module, error) {
	var raw struct {
		Name     string `json:"name"`
		Newtypes []struct {
			Name   string `json:"name"`
			Params []struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			} `json:"params"`
		} `json:"newtypes"`
		Declarations []struct {
			Recursive bool `json:"recursive"`
			Decls     []struct {
				Name       string          `json:"name"`
				Expression json.RawMessage `json:"expression"`
				Primitive  string          `json:"primitive"`
			} `json:"decls"`
		} `json:"declarations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}

	m := &ast.Module{Name: raw.Name}
	for _, nt := range raw.Newtypes {
		params := make([]ast.TParam, len(nt.Params))
		for i, p := range nt.Params {
			kind := typesystem.KindValue
			if p.Kind == "num" {
				kind = typesystem.KindNum
			}
			params[i] = ast.TParam{Name: p.Name, Kind: kind}
		}
		m.Newtypes = append(m.Newtypes, &ast.Newtype{Name: nt.Name, Params: params})
	}
	for gi, g := range raw.Declarations {
		group := ast.DeclGroup{Recursive: g.Recursive}
		for _, d := range g.Decls {
			decl := &ast.Decl{Name: d.Name}
			switch {
			case d.Primitive != "":
				decl.Body = &ast.DPrim{Ident: d.Primitive}
			case len(d.Expression) > 0:
				expr, err := DecodeExpr(d.Expression)
				if err != nil {
					return nil, fmt.Errorf("declaration %q: %w", d.Name, err)
				}
				decl.Body = &ast.DExpr{Expr: expr}
			default:
				return nil, fmt.Errorf("declaration group %d: %q has neither expression nor primitive", gi, d.Name)
			}
			group.Decls = append(group.Decls, decl)
		}
		m.Groups = append(m.Groups, group)
	}
	return m, nil
}

// DecodeProcessor is the pipeline stage that reads and decodes the
// module and expression files named by the context.
type DecodeProcessor struct{}

func NewDecodeProcessor() *DecodeProcessor { return &DecodeProcessor{} }

func (p *DecodeProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.ModulePath != "" && ctx.Module == nil {
		data, err := os.ReadFile(ctx.ModulePath)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		m, err := DecodeModule(data)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Module = m
	}
	if ctx.ExprPath != "" && ctx.Expr == nil {
		data, err := os.ReadFile(ctx.ExprPath)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		e, err := DecodeExpr(data)
		if err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
		ctx.Expr = e
	}
	return ctx
}
