// Command minicc is the external driver around the compiler library
// (spec §6): it reads a preprocessed translation unit, runs it through
// internal/compiler, writes the resulting assembly, and — unless -S
// was given — invokes the system assembler, and then the linker to
// produce a finished binary unless -c was given.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/tinyrange/minicc/internal/compiler"
	"github.com/tinyrange/minicc/internal/diag"
	"github.com/tinyrange/minicc/internal/lexer"
	"github.com/tinyrange/minicc/internal/parser"
)

type options struct {
	Output  string `short:"o" description:"output path" optional:"true"`
	AsmOnly bool   `short:"S" long:"assembly" description:"emit assembly only, do not assemble or link"`
	Compile bool   `short:"c" description:"assemble only, do not link"`
	Hash    bool   `long:"###" description:"print subprocess command lines before running them"`
}

func main() {
	var opts options
	args, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(2)
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: minicc [-o out] [-S|-c] <file.c>")
		os.Exit(2)
	}
	srcPath := args[0]

	data, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minicc: %v\n", err)
		os.Exit(1)
	}
	source := string(data)

	asm, err := compiler.Compile(source, compiler.Target{Darwin: runtime.GOOS == "darwin"})
	if err != nil {
		report(srcPath, source, err)
		os.Exit(1)
	}

	if opts.AsmOnly {
		out := opts.Output
		if out == "" {
			out = replaceExtension(srcPath, ".s")
		}
		if err := writeFile(out, asm); err != nil {
			fmt.Fprintf(os.Stderr, "minicc: %v\n", err)
			os.Exit(1)
		}
		return
	}

	asmPath := createTmpfile(".s")
	defer os.Remove(asmPath)
	if err := writeFile(asmPath, asm); err != nil {
		fmt.Fprintf(os.Stderr, "minicc: %v\n", err)
		os.Exit(1)
	}

	if opts.Compile {
		out := opts.Output
		if out == "" {
			out = replaceExtension(srcPath, ".o")
		}
		runSubprocess(opts.Hash, []string{"cc", "-c", asmPath, "-o", out})
		return
	}

	out := opts.Output
	if out == "" {
		out = replaceExtension(srcPath, "")
	}
	runSubprocess(opts.Hash, []string{"cc", asmPath, "-o", out})
}

func report(path, source string, err error) {
	fmt.Fprintf(os.Stderr, "minicc: %s: %v\n", path, err)
	if line, ok := errLine(err); ok {
		if snippet := diag.Snippet(source, line); snippet != "" {
			fmt.Fprintln(os.Stderr, snippet)
		}
	}
}

// errLine extracts a source line number from a stage error, when that
// stage's error carries one. Lexer/parser errors do; semantic and
// later errors report by name rather than position (spec §7).
func errLine(err error) (int, bool) {
	switch e := err.(type) {
	case *lexer.LexError:
		return e.Line, true
	case *parser.ParseError:
		if e.EOF {
			return 0, false
		}
		return e.Line, true
	default:
		return 0, false
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func replaceExtension(path, ext string) string {
	base := filepath.Base(path)
	if dot := strings.LastIndex(base, "."); dot != -1 {
		base = base[:dot]
	}
	return base + ext
}

func createTmpfile(suffix string) string {
	f, err := os.CreateTemp("", "minicc-*"+suffix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minicc: %v\n", err)
		os.Exit(1)
	}
	path := f.Name()
	f.Close()
	return path
}

func runSubprocess(announce bool, args []string) {
	if announce {
		fmt.Fprintln(os.Stderr, strings.Join(args, " "))
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "minicc: exec %s: %v\n", args[0], err)
		os.Exit(1)
	}
}
