package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/libklein/jackc/internal/compiler"
	"github.com/libklein/jackc/internal/config"
	"github.com/libklein/jackc/internal/diag"
	"github.com/libklein/jackc/internal/jack"
	"github.com/libklein/jackc/internal/vmcode"
)

var (
	errColor = color.New(color.FgRed, color.Bold)
	okColor  = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
)

// BadExtension is returned when a single file argument does not end in
// .jack.
type BadExtension struct{ Path string }

func (e *BadExtension) Error() string {
	return fmt.Sprintf("%q does not have a .jack extension", e.Path)
}

// collectFiles resolves target (a file or a directory) to a sorted list
// of .jack files to compile. Directory enumeration is sorted by file name
// so batch output is deterministic, resolving spec.md's open question on
// enumeration order.
func collectFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, &diag.Error{File: target, Kind: diag.IO, Message: err.Error(), Cause: err}
	}

	if !info.IsDir() {
		if filepath.Ext(target) != ".jack" {
			return nil, &BadExtension{Path: target}
		}
		return []string{target}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, &diag.Error{File: target, Kind: diag.IO, Message: err.Error(), Cause: err}
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
			continue
		}
		files = append(files, filepath.Join(target, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func outputPath(dir, jackPath string) string {
	base := filepath.Base(jackPath)
	vmName := base[:len(base)-len(filepath.Ext(base))] + ".vm"
	if dir == "" {
		return filepath.Join(filepath.Dir(jackPath), vmName)
	}
	return filepath.Join(dir, vmName)
}

// compileOne compiles a single file under diag.Run's panic-to-error
// boundary, so a malformed file cannot corrupt or abort the batch.
func compileOne(path string, cfg config.Config) (out string, nInstr int, err error) {
	out = outputPath(cfg.OutputDir, path)

	in, openErr := os.Open(path)
	if openErr != nil {
		return out, 0, &diag.Error{File: path, Kind: diag.IO, Message: openErr.Error(), Cause: openErr}
	}
	defer in.Close()

	tok, tokErr := jack.NewTokenizer(in)
	if tokErr != nil {
		var lexErr *jack.LexError
		if errors.As(tokErr, &lexErr) {
			return out, 0, &diag.Error{File: path, Line: lexErr.Line, Column: lexErr.Column, Kind: diag.Lex, Message: lexErr.Message, Cause: tokErr}
		}
		return out, 0, &diag.Error{File: path, Kind: diag.IO, Message: tokErr.Error(), Cause: tokErr}
	}

	dst, createErr := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if createErr != nil {
		return out, 0, &diag.Error{File: path, Kind: diag.IO, Message: createErr.Error(), Cause: createErr}
	}
	defer dst.Close()

	counting := &countingWriter{}
	writer := vmcode.New(io.MultiWriter(dst, counting))

	runErr := diag.Run(path, func() error {
		compiler.New(path, tok, writer).Compile()
		return nil
	})
	if runErr == nil {
		runErr = writer.Err()
	}
	return out, counting.lines, runErr
}

// RunBatch discovers the files named by target and compiles them. With
// workers > 1 independent files compile concurrently -- safe because
// spec.md guarantees every compilation unit's tokenizer, symbol table,
// and label counters are confined to that unit (see SPEC_FULL.md section
// 5). It reports a colored line per file and returns whether every file
// succeeded.
func RunBatch(target string, cfg config.Config, workers int) bool {
	files, err := collectFiles(target)
	if err != nil {
		errColor.Fprintf(os.Stderr, "jackc: %v\n", err)
		return false
	}

	if workers < 1 {
		workers = 1
	}

	results := make([]error, len(files))
	outputs := make([]string, len(files))
	counts := make([]int, len(files))

	group := new(errgroup.Group)
	group.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		group.Go(func() error {
			out, n, err := compileOne(f, cfg)
			outputs[i], counts[i], results[i] = out, n, err
			return nil
		})
	}
	_ = group.Wait()

	allOK := true
	for i, f := range files {
		if results[i] != nil {
			allOK = false
			errColor.Fprintf(os.Stderr, "jackc: %s: %v\n", f, results[i])
			continue
		}
		if cfg.Verbose {
			infoColor.Fprintf(os.Stdout, "jackc: compiled %s -> %s (%d instructions)\n", f, outputs[i], counts[i])
		}
		okColor.Fprintf(os.Stdout, "%s\n", outputs[i])
	}
	return allOK
}
