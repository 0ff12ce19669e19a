package parser

import (
	"testing"

	"github.com/tinyrange/minicc/internal/ast"
)

func TestParseMinimalFunction(t *testing.T) {
	prog, err := Parse("int main(void) { return 0; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if prog.Func.Name != "main" {
		t.Errorf("Func.Name = %q, want %q", prog.Func.Name, "main")
	}
	if len(prog.Func.Body.Items) != 1 {
		t.Fatalf("got %d block items, want 1", len(prog.Func.Body.Items))
	}
	ret, ok := prog.Func.Body.Items[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ReturnStmt", prog.Func.Body.Items[0])
	}
	c, ok := ret.Expr.(*ast.Constant)
	if !ok || c.Value != 0 {
		t.Errorf("return expr = %#v, want Constant{0}", ret.Expr)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog, err := Parse("int main(void) { return 2*(3+4) - 6/2; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ret := prog.Func.Body.Items[0].(*ast.ReturnStmt)
	top, ok := ret.Expr.(*ast.Binary)
	if !ok || top.Op != ast.Sub {
		t.Fatalf("top-level op = %#v, want Sub", ret.Expr)
	}
	left, ok := top.Left.(*ast.Binary)
	if !ok || left.Op != ast.Mul {
		t.Fatalf("left operand = %#v, want Mul", top.Left)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog, err := Parse("int main(void) { int a; int b; a = b = 1; return a; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmt := prog.Func.Body.Items[2].(*ast.ExprStmt)
	outer, ok := stmt.Expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("got %T, want *ast.Assignment", stmt.Expr)
	}
	if _, ok := outer.Rhs.(*ast.Assignment); !ok {
		t.Errorf("Rhs = %#v, want a nested Assignment", outer.Rhs)
	}
}

func TestTernaryRightAssociative(t *testing.T) {
	prog, err := Parse("int main(void) { int a; int b; return a > b ? a : b > a ? b : a; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ret := prog.Func.Body.Items[2].(*ast.ReturnStmt)
	cond, ok := ret.Expr.(*ast.Conditional)
	if !ok {
		t.Fatalf("got %T, want *ast.Conditional", ret.Expr)
	}
	if _, ok := cond.Cond.(*ast.Binary); !ok {
		t.Errorf("Cond = %#v, want *ast.Binary", cond.Cond)
	}
	if _, ok := cond.Else.(*ast.Conditional); !ok {
		t.Errorf("Else = %#v, want a nested Conditional", cond.Else)
	}
}

func TestDanglingElseBindsToInnermostIf(t *testing.T) {
	prog, err := Parse("int main(void) { int a; if (a) if (a) return 1; else return 2; return 0; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer := prog.Func.Body.Items[1].(*ast.IfStmt)
	if outer.Else != nil {
		t.Fatalf("outer if got an else clause, want none")
	}
	inner, ok := outer.Then.(*ast.IfStmt)
	if !ok {
		t.Fatalf("outer.Then = %T, want *ast.IfStmt", outer.Then)
	}
	if inner.Else == nil {
		t.Errorf("inner if has no else clause, want one")
	}
}

func TestForLoopWithDeclarationInit(t *testing.T) {
	prog, err := Parse("int main(void) { int a = 0; for (int i = 0; i < 5; i = i + 1) a = a + i; return a; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	forStmt := prog.Func.Body.Items[1].(*ast.ForStmt)
	if _, ok := forStmt.Init.(*ast.ForInitDecl); !ok {
		t.Errorf("Init = %T, want *ast.ForInitDecl", forStmt.Init)
	}
}

func TestUnbalancedBracesIsParseError(t *testing.T) {
	_, err := Parse("int main(void) { return 0; ")
	if err == nil {
		t.Fatal("expected a ParseError, got nil")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
}

func TestPostfixBindsTighterThanPrefix(t *testing.T) {
	prog, err := Parse("int main(void) { int a = 0; return -a++; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ret := prog.Func.Body.Items[1].(*ast.ReturnStmt)
	unary, ok := ret.Expr.(*ast.Unary)
	if !ok || unary.Op != ast.Negate {
		t.Fatalf("got %#v, want Unary{Negate}", ret.Expr)
	}
	if _, ok := unary.Operand.(*ast.PostfixOp); !ok {
		t.Errorf("operand = %T, want *ast.PostfixOp", unary.Operand)
	}
}
