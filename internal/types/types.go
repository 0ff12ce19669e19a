// Package types records the single type this compiler subset supports.
// Every declared variable and every expression is a 32-bit int (spec
// §3); the package exists so later stages that need to talk about "the
// type of a value" have one name to reach for, rather than a bare
// literal scattered through the tree.
package types

// Int is the only type every declaration and expression in this
// subset can have.
type Int struct{}

// Size is Int's width in bytes, matching the 32-bit registers Pass A/C
// of the assembly emitter use throughout (spec §4.5).
func (Int) Size() int { return 4 }
