package x86_64

import "github.com/tinyrange/minicc/internal/types"

// slotSize is the width of a stack slot: every value in this subset is
// a types.Int, so every slot is the same size.
var slotSize = types.Int{}.Size()

// AssignStackSlots is Pass B (spec §4.5): every distinct Pseudo gets a
// fresh slot the width of the language's one type, in first-encountered
// order, and, when at least one slot was assigned, an AllocateStack
// instruction reserving the total is prepended. No Pseudo operand
// survives this pass.
func AssignStackSlots(fn *Function) {
	slots := map[string]int{}
	next := 0

	slotFor := func(name string) Stack {
		off, ok := slots[name]
		if !ok {
			next++
			off = -slotSize * next
			slots[name] = off
		}
		return Stack{Offset: off}
	}

	resolve := func(o Operand) Operand {
		if p, ok := o.(Pseudo); ok {
			return slotFor(p.Name)
		}
		return o
	}

	for _, in := range fn.Instr {
		switch i := in.(type) {
		case *MovInstr:
			i.Src, i.Dst = resolve(i.Src), resolve(i.Dst)
		case *UnaryInstr:
			i.Dst = resolve(i.Dst)
		case *BinaryInstr:
			i.Src, i.Dst = resolve(i.Src), resolve(i.Dst)
		case *CmpInstr:
			i.Src, i.Dst = resolve(i.Src), resolve(i.Dst)
		case *IdivInstr:
			i.Operand = resolve(i.Operand)
		case *SetCCInstr:
			i.Dst = resolve(i.Dst)
		}
	}

	if next > 0 {
		fn.Instr = append([]Instr{&AllocateStackInstr{Bytes: slotSize * next}}, fn.Instr...)
	}
}
