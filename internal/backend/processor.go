package backend

import (
	"fmt"

	"github.com/pnwamk/cryptol/internal/builtins"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor: it evaluates the
// decoded program on its backend. The prelude is bound first, then the
// submitted module, then the target expression under the resulting
// environment.
type ExecutionProcessor struct {
	Sym evaluator.Backend
}

// NewExecutionProcessor creates a pipeline step for the given backend.
func NewExecutionProcessor(sym evaluator.Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Sym: sym}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Expr == nil {
		return ctx
	}

	result, err := p.run(ctx)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}

// run aborts on internal-consistency panics and rewraps them as errors
// tagged as interpreter bugs, keeping them distinguishable from program
// errors.
func (p *ExecutionProcessor) run(ctx *pipeline.PipelineContext) (result evaluator.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(*evaluator.Bug); ok {
				err = b
				return
			}
			panic(r)
		}
	}()

	e := evaluator.New(p.Sym, Primitives(p.Sym))
	env, err := e.EvalModule(evaluator.NewEnvironment(), builtins.Prelude())
	if err != nil {
		return nil, err
	}
	if ctx.Module != nil {
		env, err = e.EvalModule(env, ctx.Module)
		if err != nil {
			return nil, fmt.Errorf("binding module %s: %w", ctx.Module.Name, err)
		}
	}
	return e.EvalExpr(env, ctx.Expr)
}

// Name returns the backend name for display.
func (p *ExecutionProcessor) Name() string { return p.Sym.Name() }
