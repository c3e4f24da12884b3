// cryptol-eval evaluates a JSON-encoded expression, optionally under a
// JSON-encoded module, and prints the result in the wire schema.
//
// Usage:
//
//	cryptol-eval [-backend concrete|symbolic] [-m module.json] expr.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pnwamk/cryptol/internal/backend"
	"github.com/pnwamk/cryptol/internal/codec"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/pipeline"
)

// BackendType determines the default execution backend.
// Can be set at build time using: -ldflags "-X main.BackendType=symbolic"
var BackendType = backend.ConcreteName

func main() {
	backendFlag := flag.String("backend", BackendType, "value representation backend (concrete or symbolic)")
	moduleFlag := flag.String("m", "", "module file to bind before evaluating")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cryptol-eval [-backend name] [-m module.json] expr.json")
		os.Exit(2)
	}

	sym, err := backend.Select(*backendFlag)
	if err != nil {
		fail(err)
	}

	ctx := &pipeline.PipelineContext{
		ModulePath: *moduleFlag,
		ExprPath:   flag.Arg(0),
	}
	ctx = pipeline.New(
		codec.NewDecodeProcessor(),
		backend.NewExecutionProcessor(sym),
	).Run(ctx)

	if len(ctx.Errors) > 0 {
		for _, err := range ctx.Errors {
			fail(err)
		}
	}

	encoded, err := codec.EncodeValue(sym, ctx.Result)
	if err != nil {
		fail(err)
	}
	out, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println(string(out))
}

// fail prints one error and exits. Program errors and interpreter bugs
// are labeled differently; labels are colored on a terminal.
func fail(err error) {
	label := "error"
	if !evaluator.IsRuntimeError(err) {
		if _, ok := err.(*evaluator.Bug); ok {
			label = "internal error"
		}
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s:\x1b[0m %v\n", label, err)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
	}
	os.Exit(1)
}
