// Package pipeline chains the processing stages a driver runs: decoding
// a submitted program, then executing it on a backend. Stages communicate
// through a shared context and accumulate errors instead of aborting, so
// a driver can report everything it found.
package pipeline

import (
	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/evaluator"
)

// PipelineContext carries one evaluation request through the stages.
type PipelineContext struct {
	// ModulePath and ExprPath name the input files, when file-based.
	ModulePath string
	ExprPath   string

	// Module and Expr are filled by the decode stage.
	Module *ast.Module
	Expr   ast.Expr

	// Result is filled by the execution stage.
	Result evaluator.Value

	// Errors accumulated across stages.
	Errors []error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Later stages see earlier errors and may
// skip themselves.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
