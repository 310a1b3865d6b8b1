// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

func (c *Context) checkLiteral(n *ast.Node) {
	switch n.Kind {
	case ast.KindIntLiteral:
		n.Sem.Type = types.NewBasic(types.Int)
		n.Sem.Const = types.IntValue(n.Int)
	case ast.KindFloatLiteral:
		n.Sem.Type = types.NewBasic(types.Float)
		n.Sem.Const = types.FloatValue(n.Float)
	case ast.KindBoolLiteral:
		n.Sem.Type = types.NewBasic(types.Bool)
		n.Sem.Const = types.OpaqueValue()
	}
}

func (c *Context) checkIdentifier(h ast.Handle, n *ast.Node) error {
	ids := c.Resolve(h, n.Name)
	if len(ids) == 0 {
		return c.fail(h, DiagUndeclaredIdentifier, n.Name)
	}
	v := c.Registry.Variable(ids[0])
	if v == nil {
		return c.fail(h, DiagNotAVariable, n.Name)
	}
	if v.Extension != "" && !c.ExtensionEnabled(v.Extension) {
		return c.fail(h, DiagExtensionNotEnabled, v.Extension)
	}

	v.Referenced = true
	n.Sem.Info = ids[0]
	n.Sem.Type = v.Type
	n.Sem.Precision = v.Precision
	n.Sem.Lvalue = v.Writable(c.Options.Stage)
	if v.Storage == ast.StorageConst {
		n.Sem.Const = v.Const
		if !n.Sem.Const.IsConstant() {
			n.Sem.Const = types.OpaqueValue()
		}
	}
	return nil
}

// swizzleSets are the three component naming sets.
var swizzleSets = [3]string{"xyzw", "rgba", "stpq"}

// parseSwizzle maps a selection such as "xyz" to component indices. All
// letters must come from one set.
func parseSwizzle(sel string, size int) ([]int, bool) {
	if len(sel) < 1 || len(sel) > 4 {
		return nil, false
	}
	for _, set := range swizzleSets {
		idx := make([]int, 0, len(sel))
		for i := 0; i < len(sel); i++ {
			j := strings.IndexByte(set, sel[i])
			if j < 0 {
				break
			}
			idx = append(idx, j)
		}
		if len(idx) != len(sel) {
			continue
		}
		for _, j := range idx {
			if j >= size {
				return nil, false
			}
		}
		return idx, true
	}
	return nil, false
}

func hasDuplicates(idx []int) bool {
	var seen [4]bool
	for _, i := range idx {
		if seen[i] {
			return true
		}
		seen[i] = true
	}
	return false
}

func (c *Context) checkFieldSelection(h ast.Handle, n *ast.Node) error {
	base := c.Tree.Node(n.Children[0])

	switch bt := base.Sem.Type.(type) {
	case *types.Basic:
		if !bt.Token.IsVector() {
			return c.fail(h, DiagInvalidFieldSelection, n.Name)
		}
		idx, ok := parseSwizzle(n.Name, bt.Token.Components())
		if !ok {
			return c.fail(h, DiagInvalidSwizzle, n.Name)
		}
		n.Sem.Swizzle = idx
		n.Sem.Type = types.NewBasic(types.Vector(bt.Token.Component(), len(idx)))
		n.Sem.Precision = base.Sem.Precision
		n.Sem.Lvalue = base.Sem.Lvalue && !hasDuplicates(idx)

	case *types.Struct:
		i, ok := bt.Field(n.Name)
		if !ok {
			return c.fail(h, DiagNoSuchField, n.Name)
		}
		f := bt.Fields[i]
		n.Sem.Field = i
		n.Sem.Type = f.Type
		n.Sem.Precision = f.Precision
		n.Sem.Lvalue = base.Sem.Lvalue

	default:
		return c.fail(h, DiagInvalidFieldSelection, n.Name)
	}

	if base.Sem.Const.IsConstant() {
		n.Sem.Const = types.OpaqueValue()
	}
	return nil
}

func (c *Context) checkIndex(h ast.Handle, n *ast.Node) error {
	base := c.Tree.Node(n.Children[0])
	index := c.Tree.Node(n.Children[1])

	if !types.IsToken(index.Sem.Type, types.Int) {
		return c.fail(n.Children[1], DiagInvalidIndex, "index must be an int scalar")
	}

	var size int
	switch bt := base.Sem.Type.(type) {
	case *types.Array:
		size = bt.Size
		n.Sem.Type = bt.Elem
	case *types.Basic:
		switch {
		case bt.Token.IsVector():
			size = bt.Token.Components()
			n.Sem.Type = types.NewBasic(bt.Token.Component())
		case bt.Token.IsMatrix():
			size = bt.Token.Rows()
			n.Sem.Type = types.NewBasic(types.Vector(types.Float, bt.Token.Components()))
		default:
			return c.fail(h, DiagInvalidIndex, bt.String())
		}
	default:
		return c.fail(h, DiagInvalidIndex, base.Sem.Type.String())
	}

	if index.Sem.Const.Kind == types.ValueInt {
		if i := index.Sem.Const.Int; i < 0 || int(i) >= size {
			return c.failf(n.Children[1], DiagIndexOutOfRange, "%d", i)
		}
	}

	n.Sem.Precision = base.Sem.Precision
	n.Sem.Lvalue = base.Sem.Lvalue
	if base.Sem.Const.IsConstant() && index.Sem.Const.IsConstant() {
		n.Sem.Const = types.OpaqueValue()
	}
	return nil
}

func (c *Context) checkTernary(h ast.Handle, n *ast.Node) error {
	cond := c.Tree.Node(n.Children[0])
	a := c.Tree.Node(n.Children[1])
	b := c.Tree.Node(n.Children[2])

	if !types.IsToken(cond.Sem.Type, types.Bool) {
		return c.fail(n.Children[0], DiagTypeMismatch, "condition must be a bool scalar")
	}
	if !a.Sem.Type.Equals(b.Sem.Type) {
		return c.failf(h, DiagTypeMismatch, "%s and %s", a.Sem.Type, b.Sem.Type)
	}
	if types.ArraySize(a.Sem.Type) != types.NotArray || types.ContainsSampler(a.Sem.Type) || types.IsVoid(a.Sem.Type) {
		return c.fail(h, DiagInvalidOperand, a.Sem.Type.String())
	}

	n.Sem.Type = a.Sem.Type
	n.Sem.Precision = maxPrecision(a.Sem.Precision, b.Sem.Precision)
	if cond.Sem.Const.IsConstant() && a.Sem.Const.IsConstant() && b.Sem.Const.IsConstant() {
		n.Sem.Const = types.OpaqueValue()
	}
	return nil
}

func maxPrecision(a, b types.Precision) types.Precision {
	if a > b {
		return a
	}
	return b
}

// lvalueRoot returns the identifier at the root of an lvalue expression.
func (c *Context) lvalueRoot(h ast.Handle) ast.Handle {
	for {
		switch c.Tree.Kind(h) {
		case ast.KindFieldSelection, ast.KindIndex:
			h = c.Tree.Child(h, 0)
		case ast.KindIdentifier:
			return h
		default:
			return ast.InvalidHandle
		}
	}
}

// recordWrite checks that target may be written by the expression at
// site and counts the write. Loop indices may only be written by the
// increment clause of their own loop.
func (c *Context) recordWrite(site, target ast.Handle) error {
	tn := c.Tree.Node(target)
	if !tn.Sem.Lvalue {
		return c.fail(target, DiagLvalueRequired, describeExpr(c.Tree, target))
	}
	root := c.lvalueRoot(target)
	if root == ast.InvalidHandle {
		return nil
	}
	v := c.Registry.Variable(c.Tree.Node(root).Sem.Info)
	if v == nil {
		return nil
	}
	if v.LoopIndex && !c.Tree.Contains(c.Tree.Child(v.Loop, 2), site) {
		return c.fail(site, DiagLoopIndexModified, c.SourceName(v))
	}
	v.Writes++
	return nil
}

// describeExpr names an expression for a diagnostic.
func describeExpr(t *ast.Tree, h ast.Handle) string {
	n := t.Node(h)
	switch n.Kind {
	case ast.KindIdentifier:
		return n.Name
	case ast.KindFieldSelection:
		return describeExpr(t, n.Children[0]) + "." + n.Name
	case ast.KindIndex:
		return describeExpr(t, n.Children[0]) + "[]"
	}
	return n.Kind.String()
}
