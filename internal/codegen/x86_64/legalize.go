package x86_64

// Legalize is Pass C (spec §4.5): rewrites instructions that violate
// x86-64's operand-form restrictions (no mem-to-mem operands, idiv
// cannot take an immediate, imul's destination must be a register,
// shift counts must sit in %cl) using the two fixed scratch registers
// %r10d/%r11d. Nothing downstream ever sees an illegal operand pair.
func Legalize(fn *Function) {
	l := &legalizer{}
	for _, in := range fn.Instr {
		l.legalize(in)
	}
	fn.Instr = l.out
}

type legalizer struct{ out []Instr }

func (l *legalizer) emit(i Instr) { l.out = append(l.out, i) }

func isMem(o Operand) bool {
	_, ok := o.(Stack)
	return ok
}

func isImm(o Operand) bool {
	_, ok := o.(Imm)
	return ok
}

func (l *legalizer) legalize(in Instr) {
	switch i := in.(type) {
	case *MovInstr:
		if isMem(i.Src) && isMem(i.Dst) {
			l.emit(&MovInstr{Src: i.Src, Dst: R10})
			l.emit(&MovInstr{Src: R10, Dst: i.Dst})
			return
		}
		l.emit(i)

	case *UnaryInstr:
		l.emit(i)

	case *BinaryInstr:
		l.legalizeBinary(i)

	case *CmpInstr:
		l.legalizeCmp(i)

	case *IdivInstr:
		if isImm(i.Operand) {
			l.emit(&MovInstr{Src: i.Operand, Dst: R10})
			l.emit(&IdivInstr{Operand: R10})
			return
		}
		l.emit(i)

	default:
		l.emit(in)
	}
}

func (l *legalizer) legalizeBinary(i *BinaryInstr) {
	switch i.Op {
	case "sal", "sar":
		l.legalizeShift(i)
		return
	case "imul":
		if isMem(i.Dst) {
			l.emit(&MovInstr{Src: i.Dst, Dst: R11})
			l.emit(&BinaryInstr{Op: i.Op, Src: i.Src, Dst: R11})
			l.emit(&MovInstr{Src: R11, Dst: i.Dst})
			return
		}
		l.emit(i)
	default: // add, sub, and, or, xor
		if isMem(i.Src) && isMem(i.Dst) {
			l.emit(&MovInstr{Src: i.Src, Dst: R10})
			l.emit(&BinaryInstr{Op: i.Op, Src: R10, Dst: i.Dst})
			return
		}
		l.emit(i)
	}
}

// legalizeShift stages the count through %cl unconditionally (spec
// §4.5's Pass C shift rule), and additionally stages the destination
// through %r10d when it is a memory operand.
func (l *legalizer) legalizeShift(i *BinaryInstr) {
	l.emit(&MovInstr{Src: i.Src, Dst: CL})
	if isMem(i.Dst) {
		l.emit(&MovInstr{Src: i.Dst, Dst: R10})
		l.emit(&BinaryInstr{Op: i.Op, Src: CL, Dst: R10})
		l.emit(&MovInstr{Src: R10, Dst: i.Dst})
		return
	}
	l.emit(&BinaryInstr{Op: i.Op, Src: CL, Dst: i.Dst})
}

func (l *legalizer) legalizeCmp(i *CmpInstr) {
	if isMem(i.Src) && isMem(i.Dst) {
		l.emit(&MovInstr{Src: i.Src, Dst: R10})
		l.emit(&CmpInstr{Src: R10, Dst: i.Dst})
		return
	}
	if isImm(i.Dst) {
		l.emit(&MovInstr{Src: i.Dst, Dst: R11})
		l.emit(&CmpInstr{Src: i.Src, Dst: R11})
		return
	}
	l.emit(i)
}
