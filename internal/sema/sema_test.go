package sema

import (
	"testing"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/parser"
)

func resolve(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err = Resolve(prog)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return prog
}

func TestAlphaRenamingProducesDistinctNames(t *testing.T) {
	prog := resolve(t, "int main(void) { int a = 1; { int a = 2; } return a; }")
	outerDecl := prog.Func.Body.Items[0].(*ast.Declaration)
	inner := prog.Func.Body.Items[1].(*ast.CompoundStmt)
	innerDecl := inner.Body.Items[0].(*ast.Declaration)
	if outerDecl.Name == innerDecl.Name {
		t.Errorf("shadowed declarations got the same fresh name %q", outerDecl.Name)
	}
	ret := prog.Func.Body.Items[2].(*ast.ReturnStmt)
	v := ret.Expr.(*ast.Var)
	if v.Name != outerDecl.Name {
		t.Errorf("return resolved to %q, want the outer declaration %q", v.Name, outerDecl.Name)
	}
}

func TestDuplicateDeclarationInSameBlock(t *testing.T) {
	prog, err := parser.Parse("int main(void) { int x; int x; return x; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Resolve(prog)
	semErr, ok := err.(*SemError)
	if !ok {
		t.Fatalf("got %T, want *SemError", err)
	}
	if semErr.Kind != "DuplicateDecl" {
		t.Errorf("Kind = %q, want DuplicateDecl", semErr.Kind)
	}
}

func TestUndeclaredVariable(t *testing.T) {
	prog, err := parser.Parse("int main(void) { return x; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Resolve(prog)
	semErr, ok := err.(*SemError)
	if !ok {
		t.Fatalf("got %T, want *SemError", err)
	}
	if semErr.Kind != "UndeclaredVar" {
		t.Errorf("Kind = %q, want UndeclaredVar", semErr.Kind)
	}
}

func TestInvalidLValue(t *testing.T) {
	prog, err := parser.Parse("int main(void) { int x; 5 = x; return 0; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Resolve(prog)
	semErr, ok := err.(*SemError)
	if !ok {
		t.Fatalf("got %T, want *SemError", err)
	}
	if semErr.Kind != "InvalidLValue" {
		t.Errorf("Kind = %q, want InvalidLValue", semErr.Kind)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	prog, err := parser.Parse("int main(void) { break; return 0; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Resolve(prog)
	semErr, ok := err.(*SemError)
	if !ok {
		t.Fatalf("got %T, want *SemError", err)
	}
	if semErr.Kind != "BreakOutsideLoop" {
		t.Errorf("Kind = %q, want BreakOutsideLoop", semErr.Kind)
	}
}

// Nested loops must keep distinct break/continue targets (spec §9):
// breaking from the outer loop's body, after the inner loop already
// exited, must not see the inner loop's label.
func TestNestedLoopsGetDistinctLabels(t *testing.T) {
	prog := resolve(t, `int main(void) {
		int i = 0;
		while (i < 5) {
			int j = 0;
			while (j < 5) { break; j = j + 1; }
			break;
			i = i + 1;
		}
		return 0;
	}`)
	outer := prog.Func.Body.Items[1].(*ast.WhileStmt)
	outerBody := outer.Body.(*ast.CompoundStmt)
	inner := outerBody.Body.Items[1].(*ast.WhileStmt)
	if outer.Label == inner.Label {
		t.Fatalf("outer and inner while got the same label %q", outer.Label)
	}
	innerBody := inner.Body.(*ast.CompoundStmt)
	innerBreak := innerBody.Body.Items[0].(*ast.BreakStmt)
	outerBreak := outerBody.Body.Items[2].(*ast.BreakStmt)
	if innerBreak.Label != inner.Label {
		t.Errorf("inner break labeled %q, want %q", innerBreak.Label, inner.Label)
	}
	if outerBreak.Label != outer.Label {
		t.Errorf("outer break labeled %q, want %q", outerBreak.Label, outer.Label)
	}
}

// Resolve applied twice to an already-resolved tree must not error and
// must not collide names (spec §8's idempotence round-trip, modulo
// counter values since freshName always mints a new suffix).
func TestResolveIsIdempotentAtTheStructuralLevel(t *testing.T) {
	prog := resolve(t, "int main(void) { int a = 1; return a; }")
	if _, err := Resolve(prog); err != nil {
		t.Fatalf("second Resolve pass failed: %v", err)
	}
}
