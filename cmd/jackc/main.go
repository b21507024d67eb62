// Command jackc compiles Jack source files to VM stack-machine code: one
// positional argument, a .jack file or a directory of them, each
// producing a sibling .vm file.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"

	"github.com/libklein/jackc/internal/config"
	"github.com/libklein/jackc/internal/repl"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "repl" {
		if err := repl.Run(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	configPath := flag.String("config", "", "path to an optional jackc.yaml")
	workers := flag.Int("j", runtime.NumCPU(), "number of files to compile concurrently")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jackc [-config path] [-j n] <file.jack|directory>")
		fmt.Fprintln(os.Stderr, "       jackc repl")
		os.Exit(2)
	}
	target := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jackc: could not load config %q: %v\n", *configPath, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	color.NoColor = color.NoColor || !cfg.ColorDiagnostics

	ok := RunBatch(target, cfg, *workers)
	if !ok {
		os.Exit(1)
	}
}
