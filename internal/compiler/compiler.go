// Package compiler wires the lexer, parser, semantic analyzer, TAC
// emitter and assembly backend into the single library entry point
// spec §6 calls out: a pure function from source text to assembly
// text or a typed stage error. It holds no state across calls.
package compiler

import (
	"github.com/tinyrange/minicc/internal/codegen/x86_64"
	"github.com/tinyrange/minicc/internal/ir"
	"github.com/tinyrange/minicc/internal/parser"
	"github.com/tinyrange/minicc/internal/sema"
)

// Target re-exports the backend's platform switch so callers never
// need to import internal/codegen/x86_64 directly.
type Target = x86_64.Target

// Compile runs every stage in sequence and returns the generated
// assembly text, or the first stage error encountered (spec §5's
// fail-fast propagation rule — no partial output is ever returned).
func Compile(source string, target Target) (string, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return "", err
	}
	prog, err = sema.Resolve(prog)
	if err != nil {
		return "", err
	}
	tac, err := ir.Emit(prog)
	if err != nil {
		return "", err
	}
	return x86_64.Generate(tac, target)
}
