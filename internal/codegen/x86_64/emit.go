// Package x86_64 lowers three-address code into GNU/AT&T-syntax
// x86-64 assembly through the three passes described in spec §4.5:
// instruction selection (select.go), pseudo-to-stack assignment
// (slots.go), and operand-form legalization (legalize.go), finishing
// with this file's text emission.
package x86_64

import (
	"fmt"
	"strings"

	"github.com/tinyrange/minicc/internal/ir"
)

// Target controls the one platform difference spec §4.5/§6 calls out:
// Darwin/macOS prefixes global symbols with an underscore, Linux does
// not.
type Target struct{ Darwin bool }

// Generate runs the full three-pass pipeline and emits text for the
// given TAC program, the library entry point for the assembly stage.
func Generate(prog *ir.Program, target Target) (string, error) {
	selected, err := Select(prog)
	if err != nil {
		return "", err
	}
	AssignStackSlots(selected.Func)
	Legalize(selected.Func)
	return Emit(selected, target)
}

// Emit is Pass D: text production from a fully legalized Program.
func Emit(prog *Program, target Target) (string, error) {
	var b strings.Builder
	b.WriteString(".text\n")
	if err := emitFunc(&b, prog.Func, target); err != nil {
		return "", err
	}
	return b.String(), nil
}

func symbol(name string, target Target) string {
	if target.Darwin {
		return "_" + name
	}
	return name
}

func emitFunc(b *strings.Builder, fn *Function, target Target) error {
	sym := symbol(fn.Name, target)
	fmt.Fprintf(b, "    .globl %s\n%s:\n", sym, sym)
	b.WriteString("    pushq   %rbp\n")
	b.WriteString("    movq    %rsp, %rbp\n")

	for _, in := range fn.Instr {
		if err := emitInstr(b, in); err != nil {
			return err
		}
	}
	return nil
}

func emitInstr(b *strings.Builder, in Instr) error {
	switch i := in.(type) {
	case *LabelInstr:
		fmt.Fprintf(b, "%s:\n", i.Name)

	case *AllocateStackInstr:
		fmt.Fprintf(b, "    subq    $%d, %%rsp\n", i.Bytes)

	case *MovInstr:
		fmt.Fprintf(b, "    %s    %s, %s\n", movMnemonic(i.Src, i.Dst), operandText(i.Src), operandText(i.Dst))

	case *UnaryInstr:
		fmt.Fprintf(b, "    %sl    %s\n", i.Op, operandText(i.Dst))

	case *BinaryInstr:
		fmt.Fprintf(b, "    %s    %s, %s\n", binaryMnemonicText(i), operandText(i.Src), operandText(i.Dst))

	case *CmpInstr:
		fmt.Fprintf(b, "    cmpl    %s, %s\n", operandText(i.Src), operandText(i.Dst))

	case *IdivInstr:
		fmt.Fprintf(b, "    idivl   %s\n", operandText(i.Operand))

	case *CdqInstr:
		b.WriteString("    cdq\n")

	case *JmpInstr:
		fmt.Fprintf(b, "    jmp     %s\n", i.Target)

	case *JmpCCInstr:
		fmt.Fprintf(b, "    j%s      %s\n", i.Cond, i.Target)

	case *SetCCInstr:
		fmt.Fprintf(b, "    set%s    %s\n", i.Cond, operandText(i.Dst))

	case *RetInstr:
		b.WriteString("    movq    %rbp, %rsp\n")
		b.WriteString("    popq    %rbp\n")
		b.WriteString("    ret\n")

	default:
		return &AsmError{Op: fmt.Sprintf("%T", in)}
	}
	return nil
}

// byteRegs holds the one 8-bit register form this backend actually
// emits: the shift-count load into %cl (spec §4.5's register naming
// rule). SetCC targets are always the result Pseudo's stack slot,
// which setcc can address directly as an 8-bit memory operand.
var byteRegs = map[string]bool{
	"%cl": true,
}

func isByteOperand(o Operand) bool {
	if r, ok := o.(Register); ok {
		return byteRegs[r.Name]
	}
	return false
}

func movMnemonic(src, dst Operand) string {
	if isByteOperand(src) || isByteOperand(dst) {
		return "movb"
	}
	return "movl"
}

func binaryMnemonicText(i *BinaryInstr) string { return i.Op + "l" }

// operandText renders an operand in AT&T syntax. Pseudo should never
// reach Pass D, but its String() form stays readable if it does.
func operandText(o Operand) string {
	return o.(fmt.Stringer).String()
}
