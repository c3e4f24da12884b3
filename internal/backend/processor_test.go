package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/codec"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/pipeline"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing %s: %s", name, err)
	}
	return path
}

func TestPipelineEvaluatesExpressionFile(t *testing.T) {
	dir := t.TempDir()
	exprPath := writeFile(t, dir, "expr.json",
		`{"expression":"call",
		  "function":{"expression":"instantiate","generic":"+",
		    "argument":{"type":"sequence","length":{"type":"number","value":8},"element":{"type":"bit"}}},
		  "arguments":[{"expression":"bits","encoding":"hex","width":8,"data":"03"},
		               {"expression":"bits","encoding":"hex","width":8,"data":"04"}]}`)

	c := NewConcrete()
	ctx := pipeline.New(
		codec.NewDecodeProcessor(),
		NewExecutionProcessor(c),
	).Run(&pipeline.PipelineContext{ExprPath: exprPath})

	if len(ctx.Errors) > 0 {
		t.Fatalf("pipeline errors: %v", ctx.Errors)
	}
	x, width := wordInt(t, c, ctx.Result)
	if width != 8 || x != 7 {
		t.Errorf("3 + 4: got %d-bit %d", width, x)
	}
}

func TestPipelineBindsModuleFirst(t *testing.T) {
	dir := t.TempDir()
	modPath := writeFile(t, dir, "mod.json",
		`{"name":"M","declarations":[
		   {"recursive":false,"decls":[{"name":"answer",
		     "expression":{"expression":"bits","encoding":"hex","width":8,"data":"2a"}}]}]}`)
	exprPath := writeFile(t, dir, "expr.json", `"answer"`)

	c := NewConcrete()
	ctx := pipeline.New(
		codec.NewDecodeProcessor(),
		NewExecutionProcessor(c),
	).Run(&pipeline.PipelineContext{ModulePath: modPath, ExprPath: exprPath})

	if len(ctx.Errors) > 0 {
		t.Fatalf("pipeline errors: %v", ctx.Errors)
	}
	x, _ := wordInt(t, c, ctx.Result)
	if x != 0x2a {
		t.Errorf("answer: got %d", x)
	}
}

func TestPipelineReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	exprPath := writeFile(t, dir, "expr.json", `{"expression":"nope"}`)

	ctx := pipeline.New(
		codec.NewDecodeProcessor(),
		NewExecutionProcessor(NewConcrete()),
	).Run(&pipeline.PipelineContext{ExprPath: exprPath})

	if len(ctx.Errors) == 0 {
		t.Fatal("expected a decode error")
	}
	if ctx.Result != nil {
		t.Error("execution must not run after a decode failure")
	}
}

func TestProcessorReportsBugsAsErrors(t *testing.T) {
	c := NewConcrete()
	// An unresolved variable is an internal-consistency failure; the
	// processor converts the abort into a reported error.
	ctx := pipeline.New(NewExecutionProcessor(c)).Run(&pipeline.PipelineContext{
		Expr: &ast.Var{Name: "no-such-name"},
	})
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected one error, got %v", ctx.Errors)
	}
	if _, ok := ctx.Errors[0].(*evaluator.Bug); !ok {
		t.Errorf("expected an interpreter bug, got %T", ctx.Errors[0])
	}
}
