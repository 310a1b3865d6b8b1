// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// EliminateShortCircuits lowers every &&, || and ?: expression into an
// if statement assigning a temporary, so both operands are never
// evaluated unconditionally:
//
//	a && b   ->  bool t; if (a) { t = b; } else { t = false; }
//	a || b   ->  bool t; if (a) { t = true; } else { t = b; }
//	c ? x : y ->  T t; if (c) { t = x; } else { t = y; }
//
// The statements are inserted before the statement holding the
// expression. Operands evaluated before it in the same statement are
// computed into temporaries first to keep their order. Expressions at
// global scope are constant and are left alone.
func EliminateShortCircuits(c *sema.Context) error {
	// Outer expressions are discovered first; lowering them moves inner
	// ones into the synthesized if statements.
	for _, h := range c.ShortCircuits {
		if c.Tree.Parent(h) == ast.InvalidHandle {
			continue
		}
		if err := lowerShortCircuit(c, h); err != nil {
			return err
		}
	}
	return nil
}

// insertion is where the statements computing a short circuit go.
type insertion struct {
	list  ast.Handle
	index int

	// earlier are operands evaluated before the expression, in order.
	earlier []ast.Handle
}

func lowerShortCircuit(c *sema.Context, h ast.Handle) error {
	t := c.Tree
	at, ok, err := findInsertion(c, h)
	if err != nil || !ok {
		return err
	}

	var stmts, refs []ast.Handle
	for _, e := range at.earlier {
		captured, ref := capture(c, e)
		stmts = append(stmts, captured...)
		refs = append(refs, ref)
	}

	n := t.Node(h)
	pos := n.Pos
	name := c.NewTempName("sc")
	decl := temporary(c, pos, name, n.Sem.Type, n.Sem.Precision)
	stmts = append(stmts, decl)

	var cond, then, els ast.Handle
	switch {
	case n.Kind == ast.KindTernary:
		cond, then, els = n.Children[0], n.Children[1], n.Children[2]
	case n.Op == ast.OpLogicalAnd:
		cond, then, els = n.Children[0], n.Children[1], t.NewBoolLiteral(pos, false)
	case n.Op == ast.OpLogicalOr:
		cond, then, els = n.Children[0], t.NewBoolLiteral(pos, true), n.Children[1]
	default:
		return errors.Errorf("short circuit: unexpected %s node", n.Kind)
	}
	t.Detach(cond)
	t.Detach(then)
	t.Detach(els)
	ifStmt := t.NewIf(pos, cond,
		t.NewBlock(pos, assignStatement(t, pos, name, then)),
		t.NewBlock(pos, assignStatement(t, pos, name, els)))
	stmts = append(stmts, ifStmt)

	for i, s := range stmts {
		t.Insert(at.list, at.index+i, s)
		if err := c.Verify(s); err != nil {
			return err
		}
	}

	refs = append(refs, t.NewIdentifier(pos, name))
	t.Replace(h, refs[len(refs)-1])
	for _, ref := range refs {
		if err := c.Verify(ref); err != nil {
			return err
		}
	}

	c.Log.V(2).Info("lowered short circuit", "temp", name, "line", pos.Line, "captured", len(at.earlier))
	return nil
}

// findInsertion walks from h up to the statement holding it. ok is false
// when h is outside any function.
func findInsertion(c *sema.Context, h ast.Handle) (insertion, bool, error) {
	t := c.Tree
	var at insertion
	if t.Ancestor(h, ast.KindFunctionDefinition) == ast.InvalidHandle {
		return at, false, nil
	}

	child := h
	for {
		parent := t.Parent(child)
		if parent == ast.InvalidHandle || t.Kind(parent) == ast.KindTranslationUnit {
			return at, false, nil
		}

		if t.Kind(child).IsStatement() {
			if statementList(t, parent) {
				at.list, at.index = parent, t.IndexOf(parent, child)
				return at, true, nil
			}
			if nestedBody(t, child) {
				block, err := wrapInBlock(c, child)
				if err != nil {
					return at, false, err
				}
				at.list, at.index = block, 0
				return at, true, nil
			}
		}

		switch t.Kind(parent) {
		case ast.KindDeclaration:
			// A later declarator moves to its own declaration so the
			// temporaries can go between the two.
			if i := t.IndexOf(parent, child); i > 1 {
				split, err := splitDeclaration(c, parent, i)
				if err != nil {
					return at, false, err
				}
				parent = split
			}
		case ast.KindBinary, ast.KindCall, ast.KindIndex:
			at.earlier = append(evaluatedBefore(t, parent, child), at.earlier...)
		}
		child = parent
	}
}

// evaluatedBefore returns the operands of parent evaluated before child
// whose values must be computed ahead of the short circuit.
func evaluatedBefore(t *ast.Tree, parent, child ast.Handle) []ast.Handle {
	var out []ast.Handle
	for _, sib := range t.Children(parent) {
		if sib == child {
			break
		}
		if needsCapture(t.Node(sib)) {
			out = append(out, sib)
		}
	}
	return out
}

// needsCapture reports whether an earlier operand has to be evaluated
// into a temporary. Lvalues keep their identity, constants and samplers
// cannot change.
func needsCapture(n *ast.Node) bool {
	if n.Sem.Lvalue || n.Sem.Const.IsConstant() || types.ContainsSampler(n.Sem.Type) {
		return false
	}
	if st, ok := n.Sem.Type.(*types.Struct); ok && st.HasArrays() {
		return false
	}
	return types.ArraySize(n.Sem.Type) == types.NotArray
}

// capture returns the statements evaluating e ahead of time and the node
// left in e's place: a reference to the temporary, or for void operands a
// literal standing in for the moved call.
func capture(c *sema.Context, e ast.Handle) (stmts []ast.Handle, ref ast.Handle) {
	t := c.Tree
	n := t.Node(e)
	pos := n.Pos

	if types.IsVoid(n.Sem.Type) {
		ref = t.NewIntLiteral(pos, 0)
		t.Replace(e, ref)
		return []ast.Handle{t.NewExpressionStatement(pos, e)}, ref
	}

	name := c.NewTempName("sc")
	decl := temporary(c, pos, name, n.Sem.Type, n.Sem.Precision)
	ref = t.NewIdentifier(pos, name)
	t.Replace(e, ref)
	return []ast.Handle{decl, assignStatement(t, pos, name, e)}, ref
}

// temporary declares an uninitialized internal variable.
func temporary(c *sema.Context, pos ast.Position, name string, typ types.Type, prec types.Precision) ast.Handle {
	t := c.Tree
	info := ast.NoInfo
	if st, ok := typ.(*types.Struct); ok {
		info = ast.InfoID(st.ID)
	}
	d := t.NewDeclarator(pos, name, ast.InvalidHandle, ast.InvalidHandle)
	t.Node(d).Flags |= ast.FlagInternal
	return t.NewDeclaration(pos, ast.StorageNone, t.NewTypeRef(pos, typ, prec, info), d)
}

func assignStatement(t *ast.Tree, pos ast.Position, name string, value ast.Handle) ast.Handle {
	return t.NewExpressionStatement(pos, t.NewBinary(pos, ast.OpAssign, t.NewIdentifier(pos, name), value))
}

// splitDeclaration moves the declarators of decl from index i on into a
// new declaration inserted after decl, and returns it.
func splitDeclaration(c *sema.Context, decl ast.Handle, i int) (ast.Handle, error) {
	t := c.Tree
	dn := t.Node(decl)
	spec := t.Node(t.TypeSpec(decl))

	rest := append([]ast.Handle(nil), dn.Children[i:]...)
	split := t.NewDeclaration(dn.Pos, dn.Storage,
		t.NewTypeRef(spec.Pos, spec.Sem.Type, spec.Sem.Precision, spec.Sem.Info))
	t.Node(split).Flags = dn.Flags
	for _, d := range rest {
		t.Append(split, d)
	}
	t.Insert(t.Parent(decl), t.IndexOf(t.Parent(decl), decl)+1, split)
	return split, c.Verify(split)
}
