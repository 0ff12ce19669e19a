// Package ir defines the three-address code (TAC) intermediate
// representation (spec §3) and the emitter that lowers the post-
// semantic-pass AST into it (spec §4.4).
//
// Unlike the teacher's SSA-with-phi-nodes IR, this is a flat linear
// instruction list with explicit Label/Jump* control flow — the spec's
// TAC has no basic blocks or block arguments, so there is nothing to
// seal or phi-eliminate. The builder's organization (a context struct
// with one lowering method per AST statement kind, and a break/continue
// target stack pushed on loop entry and popped on exit) is kept from
// the teacher's buildCtx.
package ir

import (
	"fmt"

	"github.com/tinyrange/minicc/internal/ast"
)

// Value is a TAC operand: either a Constant or a Var.
type Value interface{ isValue() }

type Constant struct{ Value int64 }

func (*Constant) isValue() {}

type Var struct{ Name string }

func (*Var) isValue() {}

// Instr is the closed set of TAC instruction variants (spec §3).
type Instr interface{ isInstr() }

type ReturnInstr struct{ Val Value }

func (*ReturnInstr) isInstr() {}

type UnaryInstr struct {
	Op  ast.UnaryOp
	Src Value
	Dst *Var
}

func (*UnaryInstr) isInstr() {}

type BinaryInstr struct {
	Op         ast.BinaryOp
	Src1, Src2 Value
	Dst        *Var
}

func (*BinaryInstr) isInstr() {}

type CopyInstr struct {
	Src Value
	Dst *Var
}

func (*CopyInstr) isInstr() {}

type JumpInstr struct{ Target string }

func (*JumpInstr) isInstr() {}

type JumpIfZeroInstr struct {
	Cond   Value
	Target string
}

func (*JumpIfZeroInstr) isInstr() {}

type JumpIfNotZeroInstr struct {
	Cond   Value
	Target string
}

func (*JumpIfNotZeroInstr) isInstr() {}

type LabelInstr struct{ Name string }

func (*LabelInstr) isInstr() {}

// Program is the TAC for the single function this compiler subset
// supports.
type Program struct {
	Func *Function
}

type Function struct {
	Name  string
	Instr []Instr
}

// TacError reports an operator the TAC emitter doesn't know how to
// lower. Per spec §7 this should be unreachable once the semantic pass
// has run — it exists only so a logic bug surfaces as a typed error
// instead of a panic.
type TacError struct{ Op string }

func (e *TacError) Error() string { return fmt.Sprintf("tac: unsupported operator %q", e.Op) }

type builder struct {
	tempCounter   int
	labelCounters map[string]int
	instrs        []Instr
	breakTargets  []string
	contTargets   []string
}

func newBuilder() *builder {
	return &builder{labelCounters: map[string]int{}}
}

func (b *builder) emit(i Instr) { b.instrs = append(b.instrs, i) }

func (b *builder) newTemp() *Var {
	v := &Var{Name: fmt.Sprintf("tmp.%d", b.tempCounter)}
	b.tempCounter++
	return v
}

// newLabel mints a fresh label of the form L<base>_N, with N a
// monotonic counter kept per base string (spec §4.4).
func (b *builder) newLabel(base string) string {
	n := b.labelCounters[base]
	b.labelCounters[base] = n + 1
	return fmt.Sprintf("L%s_%d", base, n)
}

// Emit lowers a validated, alpha-renamed, loop-labeled AST into TAC.
func Emit(prog *ast.Program) (*Program, error) {
	b := newBuilder()
	if err := b.emitBlock(prog.Func.Body); err != nil {
		return nil, err
	}
	if !endsInReturn(b.instrs) {
		b.emit(&ReturnInstr{Val: &Constant{Value: 0}})
	}
	return &Program{Func: &Function{Name: prog.Func.Name, Instr: b.instrs}}, nil
}

func endsInReturn(instrs []Instr) bool {
	if len(instrs) == 0 {
		return false
	}
	_, ok := instrs[len(instrs)-1].(*ReturnInstr)
	return ok
}

func (b *builder) emitBlock(blk *ast.Block) error {
	for _, item := range blk.Items {
		if err := b.emitBlockItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) emitBlockItem(item ast.BlockItem) error {
	switch it := item.(type) {
	case *ast.Declaration:
		return b.emitDeclaration(it)
	case ast.Statement:
		return b.emitStatement(it)
	default:
		return fmt.Errorf("tac: unhandled block item %T", item)
	}
}

func (b *builder) emitDeclaration(d *ast.Declaration) error {
	if d.Init == nil {
		return nil
	}
	v, err := b.emitExpr(d.Init)
	if err != nil {
		return err
	}
	b.emit(&CopyInstr{Src: v, Dst: &Var{Name: d.Name}})
	return nil
}

func (b *builder) emitStatement(stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.ReturnStmt:
		v, err := b.emitExpr(st.Expr)
		if err != nil {
			return err
		}
		b.emit(&ReturnInstr{Val: v})
		return nil

	case *ast.ExprStmt:
		_, err := b.emitExpr(st.Expr)
		return err

	case *ast.NullStmt:
		return nil

	case *ast.IfStmt:
		return b.emitIf(st)

	case *ast.CompoundStmt:
		return b.emitBlock(st.Body)

	case *ast.WhileStmt:
		return b.emitWhile(st)

	case *ast.DoWhileStmt:
		return b.emitDoWhile(st)

	case *ast.ForStmt:
		return b.emitFor(st)

	case *ast.BreakStmt:
		b.emit(&JumpInstr{Target: b.breakTargets[len(b.breakTargets)-1]})
		return nil

	case *ast.ContinueStmt:
		b.emit(&JumpInstr{Target: b.contTargets[len(b.contTargets)-1]})
		return nil

	default:
		return fmt.Errorf("tac: unhandled statement %T", stmt)
	}
}

func (b *builder) emitIf(st *ast.IfStmt) error {
	cond, err := b.emitExpr(st.Cond)
	if err != nil {
		return err
	}
	if st.Else == nil {
		end := b.newLabel("if_end")
		b.emit(&JumpIfZeroInstr{Cond: cond, Target: end})
		if err := b.emitStatement(st.Then); err != nil {
			return err
		}
		b.emit(&LabelInstr{Name: end})
		return nil
	}
	elseL := b.newLabel("else")
	end := b.newLabel("if_end")
	b.emit(&JumpIfZeroInstr{Cond: cond, Target: elseL})
	if err := b.emitStatement(st.Then); err != nil {
		return err
	}
	b.emit(&JumpInstr{Target: end})
	b.emit(&LabelInstr{Name: elseL})
	if err := b.emitStatement(st.Else); err != nil {
		return err
	}
	b.emit(&LabelInstr{Name: end})
	return nil
}

func (b *builder) pushLoopTargets(breakT, contT string) {
	b.breakTargets = append(b.breakTargets, breakT)
	b.contTargets = append(b.contTargets, contT)
}

func (b *builder) popLoopTargets() {
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.contTargets = b.contTargets[:len(b.contTargets)-1]
}

func (b *builder) emitWhile(st *ast.WhileStmt) error {
	start := st.Label + "_start"
	end := st.Label + "_end"
	b.emit(&LabelInstr{Name: start})
	cond, err := b.emitExpr(st.Cond)
	if err != nil {
		return err
	}
	b.emit(&JumpIfZeroInstr{Cond: cond, Target: end})
	// A while loop has no separate continue label; "continue" re-enters
	// at the top where the condition is re-tested (spec §4.4).
	b.pushLoopTargets(end, start)
	if err := b.emitStatement(st.Body); err != nil {
		return err
	}
	b.popLoopTargets()
	b.emit(&JumpInstr{Target: start})
	b.emit(&LabelInstr{Name: end})
	return nil
}

func (b *builder) emitDoWhile(st *ast.DoWhileStmt) error {
	start := st.Label + "_start"
	cont := st.Label + "_continue"
	end := st.Label + "_end"
	b.emit(&LabelInstr{Name: start})
	b.pushLoopTargets(end, cont)
	if err := b.emitStatement(st.Body); err != nil {
		return err
	}
	b.popLoopTargets()
	b.emit(&LabelInstr{Name: cont})
	cond, err := b.emitExpr(st.Cond)
	if err != nil {
		return err
	}
	b.emit(&JumpIfNotZeroInstr{Cond: cond, Target: start})
	b.emit(&LabelInstr{Name: end})
	return nil
}

func (b *builder) emitFor(st *ast.ForStmt) error {
	switch init := st.Init.(type) {
	case *ast.ForInitDecl:
		if err := b.emitDeclaration(init.Decl); err != nil {
			return err
		}
	case *ast.ForInitExpr:
		if init.Expr != nil {
			if _, err := b.emitExpr(init.Expr); err != nil {
				return err
			}
		}
	}

	start := st.Label + "_start"
	cont := st.Label + "_continue"
	end := st.Label + "_end"

	b.emit(&LabelInstr{Name: start})
	if st.Cond != nil {
		cond, err := b.emitExpr(st.Cond)
		if err != nil {
			return err
		}
		b.emit(&JumpIfZeroInstr{Cond: cond, Target: end})
	}
	b.pushLoopTargets(end, cont)
	if err := b.emitStatement(st.Body); err != nil {
		return err
	}
	b.popLoopTargets()
	// cont is emitted even when the body has no continue reaching it —
	// harmless at Pass A, just an unreferenced label.
	b.emit(&LabelInstr{Name: cont})
	if st.Post != nil {
		if _, err := b.emitExpr(st.Post); err != nil {
			return err
		}
	}
	b.emit(&JumpInstr{Target: start})
	b.emit(&LabelInstr{Name: end})
	return nil
}

// emitExpr lowers e by post-order evaluation into a flat instruction
// list plus the Value holding its result, per spec §4.4's rule list.
func (b *builder) emitExpr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.Constant:
		return &Constant{Value: ex.Value}, nil

	case *ast.Var:
		return &Var{Name: ex.Name}, nil

	case *ast.Unary:
		v, err := b.emitExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		dst := b.newTemp()
		b.emit(&UnaryInstr{Op: ex.Op, Src: v, Dst: dst})
		return dst, nil

	case *ast.Binary:
		switch ex.Op {
		case ast.And:
			return b.emitAnd(ex)
		case ast.Or:
			return b.emitOr(ex)
		default:
			v1, err := b.emitExpr(ex.Left)
			if err != nil {
				return nil, err
			}
			v2, err := b.emitExpr(ex.Right)
			if err != nil {
				return nil, err
			}
			dst := b.newTemp()
			b.emit(&BinaryInstr{Op: ex.Op, Src1: v1, Src2: v2, Dst: dst})
			return dst, nil
		}

	case *ast.Assignment:
		lhs, ok := ex.Lhs.(*ast.Var)
		if !ok {
			return nil, &TacError{Op: "assign-to-non-var"}
		}
		v, err := b.emitExpr(ex.Rhs)
		if err != nil {
			return nil, err
		}
		dst := &Var{Name: lhs.Name}
		b.emit(&CopyInstr{Src: v, Dst: dst})
		return dst, nil

	case *ast.CompoundAssignment:
		lhs, ok := ex.Lhs.(*ast.Var)
		if !ok {
			return nil, &TacError{Op: "assign-to-non-var"}
		}
		v, err := b.emitExpr(ex.Rhs)
		if err != nil {
			return nil, err
		}
		dst := &Var{Name: lhs.Name}
		b.emit(&BinaryInstr{Op: ex.Op, Src1: dst, Src2: v, Dst: dst})
		return dst, nil

	case *ast.Conditional:
		return b.emitConditional(ex)

	case *ast.PrefixOp:
		v, ok := ex.Operand.(*ast.Var)
		if !ok {
			return nil, &TacError{Op: "incdec-non-var"}
		}
		dst := &Var{Name: v.Name}
		b.emit(&BinaryInstr{Op: incDecOp(ex.Op), Src1: dst, Src2: &Constant{Value: 1}, Dst: dst})
		return dst, nil

	case *ast.PostfixOp:
		v, ok := ex.Operand.(*ast.Var)
		if !ok {
			return nil, &TacError{Op: "incdec-non-var"}
		}
		varVal := &Var{Name: v.Name}
		orig := b.newTemp()
		b.emit(&CopyInstr{Src: varVal, Dst: orig})
		b.emit(&BinaryInstr{Op: incDecOp(ex.Op), Src1: varVal, Src2: &Constant{Value: 1}, Dst: varVal})
		return orig, nil

	default:
		return nil, fmt.Errorf("tac: unhandled expression %T", e)
	}
}

func incDecOp(op ast.IncDecOp) ast.BinaryOp {
	if op == ast.Increment {
		return ast.Add
	}
	return ast.Sub
}

// emitAnd lowers "l && r": r is only evaluated when l is non-zero,
// i.e. short-circuit evaluation is a control-flow construct, never a
// plain Binary instruction (spec §9).
func (b *builder) emitAnd(ex *ast.Binary) (Value, error) {
	falseL := b.newLabel("and_false")
	end := b.newLabel("and_end")
	result := b.newTemp()

	v1, err := b.emitExpr(ex.Left)
	if err != nil {
		return nil, err
	}
	b.emit(&JumpIfZeroInstr{Cond: v1, Target: falseL})

	v2, err := b.emitExpr(ex.Right)
	if err != nil {
		return nil, err
	}
	b.emit(&JumpIfZeroInstr{Cond: v2, Target: falseL})

	b.emit(&CopyInstr{Src: &Constant{Value: 1}, Dst: result})
	b.emit(&JumpInstr{Target: end})
	b.emit(&LabelInstr{Name: falseL})
	b.emit(&CopyInstr{Src: &Constant{Value: 0}, Dst: result})
	b.emit(&LabelInstr{Name: end})
	return result, nil
}

func (b *builder) emitOr(ex *ast.Binary) (Value, error) {
	trueL := b.newLabel("or_true")
	end := b.newLabel("or_end")
	result := b.newTemp()

	v1, err := b.emitExpr(ex.Left)
	if err != nil {
		return nil, err
	}
	b.emit(&JumpIfNotZeroInstr{Cond: v1, Target: trueL})

	v2, err := b.emitExpr(ex.Right)
	if err != nil {
		return nil, err
	}
	b.emit(&JumpIfNotZeroInstr{Cond: v2, Target: trueL})

	b.emit(&CopyInstr{Src: &Constant{Value: 0}, Dst: result})
	b.emit(&JumpInstr{Target: end})
	b.emit(&LabelInstr{Name: trueL})
	b.emit(&CopyInstr{Src: &Constant{Value: 1}, Dst: result})
	b.emit(&LabelInstr{Name: end})
	return result, nil
}

func (b *builder) emitConditional(ex *ast.Conditional) (Value, error) {
	falseL := b.newLabel("cond_false")
	end := b.newLabel("cond_end")
	result := b.newTemp()

	vc, err := b.emitExpr(ex.Cond)
	if err != nil {
		return nil, err
	}
	b.emit(&JumpIfZeroInstr{Cond: vc, Target: falseL})

	v1, err := b.emitExpr(ex.Then)
	if err != nil {
		return nil, err
	}
	b.emit(&CopyInstr{Src: v1, Dst: result})
	b.emit(&JumpInstr{Target: end})
	b.emit(&LabelInstr{Name: falseL})

	v2, err := b.emitExpr(ex.Else)
	if err != nil {
		return nil, err
	}
	b.emit(&CopyInstr{Src: v2, Dst: result})
	b.emit(&LabelInstr{Name: end})
	return result, nil
}
