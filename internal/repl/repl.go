// Package repl implements `jackc repl`, an interactive line-editing shell
// for exploring what VM code the compiler engine emits for a single Jack
// statement (a bare expression is not accepted on its own). It wraps the
// line a user types in a throwaway scaffold class so the full compiler
// engine -- tokenizer, symbol table, codegen -- runs unmodified; this is a
// teaching/debugging aid layered on
// top of the same compiler package the batch driver uses, not a second
// implementation of it.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/libklein/jackc/internal/compiler"
	"github.com/libklein/jackc/internal/jack"
	"github.com/libklein/jackc/internal/vmcode"
)

var (
	promptColor = color.New(color.FgBlue)
	resultColor = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
	bannerColor = color.New(color.FgGreen)
)

const banner = `jackc repl -- type a Jack statement, see the VM code it compiles to.
Type '.exit' to quit.`

// Run starts the interactive loop, reading from stdin via readline until
// '.exit' or EOF.
func Run(args []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      promptColor.Sprint("jack> "),
		HistoryFile: "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	bannerColor.Fprintln(rl.Stderr(), banner)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			return nil
		}

		evalOne(rl.Stdout(), line)
	}
}

// evalOne wraps a single Jack statement in a scaffold class/subroutine and
// prints the VM instructions the engine emits for it.
func evalOne(w io.Writer, stmt string) {
	source := fmt.Sprintf("class Repl { function void main() { %s return; } }", stmt)

	tok, err := jack.NewTokenizer(strings.NewReader(source))
	if err != nil {
		errorColor.Fprintf(w, "%v\n", err)
		return
	}

	var out strings.Builder
	writer := vmcode.New(&out)

	defer func() {
		if r := recover(); r != nil {
			errorColor.Fprintf(w, "%v\n", r)
		}
	}()

	compiler.New("repl", tok, writer).Compile()
	if err := writer.Err(); err != nil {
		errorColor.Fprintf(w, "%v\n", err)
		return
	}

	resultColor.Fprint(w, out.String())
}
