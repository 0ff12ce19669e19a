package x86_64

import (
	"fmt"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/ir"
)

// Select is Pass A (spec §4.5): TAC to assembly with Pseudo operands,
// no stack slots assigned yet and no operand-form legalization done.
func Select(prog *ir.Program) (*Program, error) {
	s := &selector{}
	for _, in := range prog.Func.Instr {
		if err := s.selectInstr(in); err != nil {
			return nil, err
		}
	}
	return &Program{Func: &Function{Name: prog.Func.Name, Instr: s.out}}, nil
}

type selector struct{ out []Instr }

func (s *selector) emit(i Instr) { s.out = append(s.out, i) }

func toOperand(v ir.Value) Operand {
	switch val := v.(type) {
	case *ir.Constant:
		return Imm{Value: val.Value}
	case *ir.Var:
		return Pseudo{Name: val.Name}
	default:
		panic(fmt.Sprintf("asm: unhandled ir value %T", v))
	}
}

func (s *selector) selectInstr(in ir.Instr) error {
	switch i := in.(type) {
	case *ir.ReturnInstr:
		s.emit(&MovInstr{Src: toOperand(i.Val), Dst: EAX})
		s.emit(&RetInstr{})
		return nil

	case *ir.UnaryInstr:
		return s.selectUnary(i)

	case *ir.BinaryInstr:
		return s.selectBinary(i)

	case *ir.CopyInstr:
		s.emit(&MovInstr{Src: toOperand(i.Src), Dst: toOperand(i.Dst)})
		return nil

	case *ir.JumpInstr:
		s.emit(&JmpInstr{Target: i.Target})
		return nil

	case *ir.JumpIfZeroInstr:
		s.emit(&CmpInstr{Src: Imm{Value: 0}, Dst: toOperand(i.Cond)})
		s.emit(&JmpCCInstr{Cond: "e", Target: i.Target})
		return nil

	case *ir.JumpIfNotZeroInstr:
		s.emit(&CmpInstr{Src: Imm{Value: 0}, Dst: toOperand(i.Cond)})
		s.emit(&JmpCCInstr{Cond: "ne", Target: i.Target})
		return nil

	case *ir.LabelInstr:
		s.emit(&LabelInstr{Name: i.Name})
		return nil

	default:
		return &AsmError{Op: fmt.Sprintf("%T", in)}
	}
}

func (s *selector) selectUnary(i *ir.UnaryInstr) error {
	dst := toOperand(i.Dst)
	if i.Op == ast.Not {
		s.emit(&CmpInstr{Src: Imm{Value: 0}, Dst: toOperand(i.Src)})
		s.emit(&MovInstr{Src: Imm{Value: 0}, Dst: dst})
		s.emit(&SetCCInstr{Cond: "e", Dst: dst})
		return nil
	}
	mnemonic, ok := unaryMnemonic[i.Op]
	if !ok {
		return &AsmError{Op: "unary"}
	}
	s.emit(&MovInstr{Src: toOperand(i.Src), Dst: dst})
	s.emit(&UnaryInstr{Op: mnemonic, Dst: dst})
	return nil
}

var unaryMnemonic = map[ast.UnaryOp]string{
	ast.Complement: "not",
	ast.Negate:     "neg",
}

var binaryMnemonic = map[ast.BinaryOp]string{
	ast.Add:        "add",
	ast.Sub:        "sub",
	ast.Mul:        "imul",
	ast.BitAnd:     "and",
	ast.BitOr:      "or",
	ast.BitXor:     "xor",
	ast.ShiftLeft:  "sal",
	ast.ShiftRight: "sar",
}

var relationalCC = map[ast.BinaryOp]string{
	ast.Eq:         "e",
	ast.NotEq:      "ne",
	ast.Less:       "l",
	ast.LessEq:     "le",
	ast.Greater:    "g",
	ast.GreaterEq:  "ge",
}

func (s *selector) selectBinary(i *ir.BinaryInstr) error {
	dst := toOperand(i.Dst)
	s1, s2 := toOperand(i.Src1), toOperand(i.Src2)

	switch i.Op {
	case ast.Div, ast.Mod:
		s.emit(&MovInstr{Src: s1, Dst: EAX})
		s.emit(&CdqInstr{})
		s.emit(&IdivInstr{Operand: s2})
		if i.Op == ast.Div {
			s.emit(&MovInstr{Src: EAX, Dst: dst})
		} else {
			s.emit(&MovInstr{Src: EDX, Dst: dst})
		}
		return nil

	case ast.Eq, ast.NotEq, ast.Less, ast.LessEq, ast.Greater, ast.GreaterEq:
		s.emit(&CmpInstr{Src: s2, Dst: s1})
		s.emit(&MovInstr{Src: Imm{Value: 0}, Dst: dst})
		s.emit(&SetCCInstr{Cond: relationalCC[i.Op], Dst: dst})
		return nil

	default:
		mnemonic, ok := binaryMnemonic[i.Op]
		if !ok {
			return &AsmError{Op: "binary"}
		}
		s.emit(&MovInstr{Src: s1, Dst: dst})
		s.emit(&BinaryInstr{Op: mnemonic, Src: s2, Dst: dst})
		return nil
	}
}
