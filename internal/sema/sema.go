// Package sema implements the semantic analysis pass (spec §4.3):
// alpha-renaming of every declared identifier to a globally unique
// name, scope-correct redeclaration/use checking, lvalue checking, and
// loop-label propagation onto break/continue/loop statements.
//
// Loop labels are tracked with an explicit stack of strings rather than
// a single "current label" field, because a single field is wrong under
// nested loops: after the inner loop is exited, further breaks would
// still see the inner label (spec §9's redesign note). The same idiom
// — push on entry, pop on exit — is how the teacher tracks break/continue
// targets in its IR builder; this pass uses it one stage earlier.
package sema

import (
	"fmt"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/types"
)

// SemError is the flat error taxonomy of spec §7: DuplicateDecl,
// UndeclaredVar, InvalidLValue, BreakOutsideLoop.
type SemError struct {
	Kind string // "DuplicateDecl" | "UndeclaredVar" | "InvalidLValue" | "BreakOutsideLoop"
	Name string // set for DuplicateDecl and UndeclaredVar
}

func (e *SemError) Error() string {
	switch e.Kind {
	case "DuplicateDecl":
		return fmt.Sprintf("sema: duplicate declaration of %q in this block", e.Name)
	case "UndeclaredVar":
		return fmt.Sprintf("sema: use of undeclared variable %q", e.Name)
	case "InvalidLValue":
		return "sema: invalid lvalue"
	case "BreakOutsideLoop":
		return "sema: break/continue outside of a loop"
	default:
		return "sema: error"
	}
}

func duplicateDecl(name string) error { return &SemError{Kind: "DuplicateDecl", Name: name} }
func undeclaredVar(name string) error { return &SemError{Kind: "UndeclaredVar", Name: name} }
func invalidLValue() error            { return &SemError{Kind: "InvalidLValue"} }
func breakOutsideLoop() error         { return &SemError{Kind: "BreakOutsideLoop"} }

// varEntry is the value half of the variable map (spec §4.3): the
// identifier's fresh name, and whether it was declared in the block
// currently being resolved (as opposed to inherited from an enclosing
// scope, where shadowing — not redeclaration — applies).
type varEntry struct {
	fresh          string
	typ            types.Int
	declaredInThis bool
}

type scope map[string]varEntry

// clone opens a new scope nested in parent: every inherited entry is
// visible (for lookups) but marked not-declared-in-this-block, so a
// redeclaration check against it signals shadowing, not duplication.
func (s scope) clone() scope {
	n := make(scope, len(s))
	for k, v := range s {
		n[k] = varEntry{fresh: v.fresh, typ: v.typ, declaredInThis: false}
	}
	return n
}

// Resolver carries the pass-local monotonic counters (spec §9: counters
// are pass-local fields, never process-wide globals, so two independent
// compilations never interfere).
type Resolver struct {
	nameCounters map[string]int
	loopCounter  int
	loopStack    []string
}

func NewResolver() *Resolver {
	return &Resolver{nameCounters: map[string]int{}}
}

// Resolve runs the semantic pass over prog in place, returning the same
// *ast.Program with every Var/Declaration name alpha-renamed and every
// Break/Continue/loop statement labeled, or the first SemError found.
func Resolve(prog *ast.Program) (*ast.Program, error) {
	r := NewResolver()
	if err := r.resolveBlock(prog.Func.Body, scope{}); err != nil {
		return nil, err
	}
	return prog, nil
}

func (r *Resolver) freshName(base string) string {
	k := r.nameCounters[base]
	r.nameCounters[base] = k + 1
	return fmt.Sprintf("%s_._%d", base, k)
}

func (r *Resolver) pushLoop() string {
	label := fmt.Sprintf("Loop%d", r.loopCounter)
	r.loopCounter++
	r.loopStack = append(r.loopStack, label)
	return label
}

func (r *Resolver) popLoop() {
	r.loopStack = r.loopStack[:len(r.loopStack)-1]
}

func (r *Resolver) currentLoop() (string, bool) {
	if len(r.loopStack) == 0 {
		return "", false
	}
	return r.loopStack[len(r.loopStack)-1], true
}

func (r *Resolver) resolveBlock(b *ast.Block, s scope) error {
	for _, item := range b.Items {
		if err := r.resolveBlockItem(item, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveBlockItem(item ast.BlockItem, s scope) error {
	switch it := item.(type) {
	case *ast.Declaration:
		return r.resolveDeclaration(it, s)
	case ast.Statement:
		return r.resolveStatement(it, s)
	default:
		return fmt.Errorf("sema: unhandled block item %T", item)
	}
}

func (r *Resolver) resolveDeclaration(d *ast.Declaration, s scope) error {
	if entry, ok := s[d.Name]; ok && entry.declaredInThis {
		return duplicateDecl(d.Name)
	}
	if d.Init != nil {
		if err := r.resolveExpr(d.Init, s); err != nil {
			return err
		}
	}
	fresh := r.freshName(d.Name)
	d.Type = types.Int{}
	s[d.Name] = varEntry{fresh: fresh, typ: d.Type, declaredInThis: true}
	d.Name = fresh
	return nil
}

func (r *Resolver) resolveStatement(stmt ast.Statement, s scope) error {
	switch st := stmt.(type) {
	case *ast.ReturnStmt:
		return r.resolveExpr(st.Expr, s)

	case *ast.ExprStmt:
		return r.resolveExpr(st.Expr, s)

	case *ast.NullStmt:
		return nil

	case *ast.IfStmt:
		if err := r.resolveExpr(st.Cond, s); err != nil {
			return err
		}
		if err := r.resolveStatement(st.Then, s); err != nil {
			return err
		}
		if st.Else != nil {
			return r.resolveStatement(st.Else, s)
		}
		return nil

	case *ast.CompoundStmt:
		return r.resolveBlock(st.Body, s.clone())

	case *ast.WhileStmt:
		if err := r.resolveExpr(st.Cond, s); err != nil {
			return err
		}
		label := r.pushLoop()
		err := r.resolveStatement(st.Body, s)
		r.popLoop()
		if err != nil {
			return err
		}
		st.Label = label
		return nil

	case *ast.DoWhileStmt:
		label := r.pushLoop()
		err := r.resolveStatement(st.Body, s)
		r.popLoop()
		if err != nil {
			return err
		}
		if err := r.resolveExpr(st.Cond, s); err != nil {
			return err
		}
		st.Label = label
		return nil

	case *ast.ForStmt:
		// The for-init declaration is scoped to the entire statement
		// (init, cond, post, body) but invisible outside it, so open
		// one new scope for the whole statement (spec §4.3).
		inner := s.clone()
		switch init := st.Init.(type) {
		case *ast.ForInitDecl:
			if err := r.resolveDeclaration(init.Decl, inner); err != nil {
				return err
			}
		case *ast.ForInitExpr:
			if init.Expr != nil {
				if err := r.resolveExpr(init.Expr, inner); err != nil {
					return err
				}
			}
		}
		if st.Cond != nil {
			if err := r.resolveExpr(st.Cond, inner); err != nil {
				return err
			}
		}
		label := r.pushLoop()
		bodyErr := r.resolveStatement(st.Body, inner)
		if bodyErr == nil && st.Post != nil {
			bodyErr = r.resolveExpr(st.Post, inner)
		}
		r.popLoop()
		if bodyErr != nil {
			return bodyErr
		}
		st.Label = label
		return nil

	case *ast.BreakStmt:
		label, ok := r.currentLoop()
		if !ok {
			return breakOutsideLoop()
		}
		st.Label = label
		return nil

	case *ast.ContinueStmt:
		label, ok := r.currentLoop()
		if !ok {
			return breakOutsideLoop()
		}
		st.Label = label
		return nil

	default:
		return fmt.Errorf("sema: unhandled statement %T", stmt)
	}
}

func (r *Resolver) resolveExpr(e ast.Expr, s scope) error {
	switch ex := e.(type) {
	case *ast.Constant:
		return nil

	case *ast.Var:
		entry, ok := s[ex.Name]
		if !ok {
			return undeclaredVar(ex.Name)
		}
		ex.Name = entry.fresh
		ex.Type = entry.typ
		return nil

	case *ast.Unary:
		return r.resolveExpr(ex.Operand, s)

	case *ast.Binary:
		if err := r.resolveExpr(ex.Left, s); err != nil {
			return err
		}
		return r.resolveExpr(ex.Right, s)

	case *ast.Assignment:
		if _, ok := ex.Lhs.(*ast.Var); !ok {
			return invalidLValue()
		}
		if err := r.resolveExpr(ex.Lhs, s); err != nil {
			return err
		}
		return r.resolveExpr(ex.Rhs, s)

	case *ast.CompoundAssignment:
		if _, ok := ex.Lhs.(*ast.Var); !ok {
			return invalidLValue()
		}
		if err := r.resolveExpr(ex.Lhs, s); err != nil {
			return err
		}
		return r.resolveExpr(ex.Rhs, s)

	case *ast.Conditional:
		if err := r.resolveExpr(ex.Cond, s); err != nil {
			return err
		}
		if err := r.resolveExpr(ex.Then, s); err != nil {
			return err
		}
		return r.resolveExpr(ex.Else, s)

	case *ast.PrefixOp:
		if _, ok := ex.Operand.(*ast.Var); !ok {
			return invalidLValue()
		}
		return r.resolveExpr(ex.Operand, s)

	case *ast.PostfixOp:
		if _, ok := ex.Operand.(*ast.Var); !ok {
			return invalidLValue()
		}
		return r.resolveExpr(ex.Operand, s)

	default:
		return fmt.Errorf("sema: unhandled expression %T", e)
	}
}
