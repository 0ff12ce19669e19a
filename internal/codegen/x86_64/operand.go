package x86_64

import "fmt"

// Operand is the closed set of assembly operand forms as they exist at
// each stage of the three-pass pipeline: Pseudo only before Pass B,
// Stack/Register/Imm from Pass B onward (spec §4.5).
type Operand interface{ isOperand() }

type Imm struct{ Value int64 }

func (Imm) isOperand() {}

// Pseudo names a TAC temporary or variable that has not yet been
// assigned a stack slot. Pass B eliminates every Pseudo operand.
type Pseudo struct{ Name string }

func (Pseudo) isOperand() {}

// Register is one of the fixed physical registers this backend uses:
// %eax/%edx for the division special case and return value, %cl for
// shift counts, %r10d/%r11d as Pass C's legalization scratch registers.
// There is no general-purpose allocator (spec §9 Non-goal).
type Register struct{ Name string }

func (Register) isOperand() {}

// Stack is a Pass-B-assigned frame slot, offset bytes from %rbp
// (negative, growing down).
type Stack struct{ Offset int }

func (Stack) isOperand() {}

func (o Imm) String() string      { return fmt.Sprintf("$%d", o.Value) }
func (o Pseudo) String() string   { return fmt.Sprintf("%%%s(pseudo)", o.Name) }
func (o Register) String() string { return o.Name }
func (o Stack) String() string    { return fmt.Sprintf("%d(%%rbp)", o.Offset) }

// EAX/EDX hold the division special case and the function return
// value; CL is the fixed shift-count register; R10/R11 are Pass C's
// legalization scratch registers. Every one of these is actually
// targeted by select.go or legalize.go — there is no unused register
// form sitting here for documentation's sake.
var (
	EAX = Register{Name: "%eax"}
	EDX = Register{Name: "%edx"}
	R10 = Register{Name: "%r10d"}
	R11 = Register{Name: "%r11d"}

	CL = Register{Name: "%cl"}
)
