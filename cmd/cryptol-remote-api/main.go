// cryptol-remote-api serves the evaluator over JSON-RPC 2.0 on HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pnwamk/cryptol/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := server.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := srv.ListenAndServe(cfg.Address); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
