package ir

import (
	"testing"

	"github.com/tinyrange/minicc/internal/parser"
	"github.com/tinyrange/minicc/internal/sema"
)

func emitProgram(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err = sema.Resolve(prog)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tac, err := Emit(prog)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return tac
}

func TestReturnConstantFinalizesWithoutExtraReturn(t *testing.T) {
	tac := emitProgram(t, "int main(void) { return 2; }")
	if len(tac.Func.Instr) != 1 {
		t.Fatalf("got %d instructions, want 1: %v", len(tac.Func.Instr), tac.Func.Instr)
	}
	ret, ok := tac.Func.Instr[0].(*ReturnInstr)
	if !ok {
		t.Fatalf("got %T, want *ReturnInstr", tac.Func.Instr[0])
	}
	c, ok := ret.Val.(*Constant)
	if !ok || c.Value != 2 {
		t.Errorf("Val = %#v, want Constant{2}", ret.Val)
	}
}

// Terminal return (spec §8 invariant 3): a body with no explicit
// return still ends in a Return instruction.
func TestFinalizationAppendsReturnZero(t *testing.T) {
	tac := emitProgram(t, "int main(void) { int a = 1; }")
	last := tac.Func.Instr[len(tac.Func.Instr)-1]
	ret, ok := last.(*ReturnInstr)
	if !ok {
		t.Fatalf("last instruction is %T, want *ReturnInstr", last)
	}
	if c, ok := ret.Val.(*Constant); !ok || c.Value != 0 {
		t.Errorf("Val = %#v, want Constant{0}", ret.Val)
	}
}

// Label closure (spec §8 invariant 2): every jump target matches
// exactly one label in the same function.
func TestLabelClosure(t *testing.T) {
	tac := emitProgram(t, `int main(void) {
		int x = 10;
		int y = 0;
		while (x > 0) {
			if (x == 5) break;
			y = y + x;
			x = x - 1;
		}
		return y;
	}`)
	labels := map[string]int{}
	var targets []string
	for _, in := range tac.Func.Instr {
		switch i := in.(type) {
		case *LabelInstr:
			labels[i.Name]++
		case *JumpInstr:
			targets = append(targets, i.Target)
		case *JumpIfZeroInstr:
			targets = append(targets, i.Target)
		case *JumpIfNotZeroInstr:
			targets = append(targets, i.Target)
		}
	}
	for _, target := range targets {
		if labels[target] != 1 {
			t.Errorf("jump target %q matches %d labels, want exactly 1", target, labels[target])
		}
	}
}

// Short-circuit && must lower to control flow, never a plain Binary
// instruction with op And (spec §9).
func TestShortCircuitAndLowersToControlFlow(t *testing.T) {
	tac := emitProgram(t, "int main(void) { int a = 3; int b = 4; return a < b && b != 0; }")
	sawJumpIfZero := false
	for _, in := range tac.Func.Instr {
		if _, ok := in.(*JumpIfZeroInstr); ok {
			sawJumpIfZero = true
		}
	}
	if !sawJumpIfZero {
		t.Errorf("expected a JumpIfZero from short-circuit && lowering, found none")
	}
}

func TestDeterministicOutput(t *testing.T) {
	src := "int main(void) { int a = 3; int b = 4; return a < b && b != 0; }"
	first := emitProgram(t, src)
	second := emitProgram(t, src)
	if len(first.Func.Instr) != len(second.Func.Instr) {
		t.Fatalf("instruction count differs: %d vs %d", len(first.Func.Instr), len(second.Func.Instr))
	}
}
