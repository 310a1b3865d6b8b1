// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

func (c *Context) checkIf(h ast.Handle, n *ast.Node) error {
	cond := n.Children[0]
	if !types.IsToken(c.Tree.Node(cond).Sem.Type, types.Bool) {
		return c.fail(cond, DiagTypeMismatch, "if condition must be a bool scalar")
	}
	return nil
}

func (c *Context) checkReturn(h ast.Handle, n *ast.Node) error {
	def := c.Tree.Ancestor(h, ast.KindFunctionDefinition)
	if def == ast.InvalidHandle {
		return c.fail(h, DiagReturnType, "return outside a function")
	}
	ph := c.Tree.Prototype(def)
	proto := c.Tree.Node(ph)
	want := c.Tree.Node(c.Tree.TypeSpec(ph)).Sem.Type

	if len(n.Children) == 0 {
		if !types.IsVoid(want) {
			return c.fail(h, DiagReturnType, proto.Name)
		}
		return nil
	}
	got := c.Tree.Node(n.Children[0]).Sem.Type
	if types.IsVoid(want) || !want.Equals(got) {
		return c.failf(h, DiagReturnType, "%s returns %s, got %s", proto.Name, want, got)
	}
	return nil
}

// checkFor enforces the loop form of GLSL ES 1.00 Appendix A:
//
//	for (type i = constant; i relop constant; i++ | i-- | i += constant | i -= constant)
//
// Writes to the index outside the increment clause are rejected as they
// are verified.
func (c *Context) checkFor(h ast.Handle, n *ast.Node) error {
	init, cond, incr := n.Children[0], n.Children[1], n.Children[2]

	index, err := c.loopIndex(init)
	if err != nil {
		return err
	}
	if !c.loopCondition(cond, index) {
		return c.fail(cond, DiagLoopForm, "condition")
	}
	if !c.loopIncrement(incr, index) {
		return c.fail(incr, DiagLoopForm, "increment")
	}
	return nil
}

// loopIndex validates the init clause and returns the index info.
func (c *Context) loopIndex(init ast.Handle) (ast.InfoID, error) {
	in := c.Tree.Node(init)
	if in.Kind != ast.KindDeclaration || len(in.Children) != 2 {
		return ast.NoInfo, c.fail(init, DiagLoopForm, "init")
	}
	d := c.Tree.Node(in.Children[1])
	tok, ok := types.AsBasic(d.Sem.Type)
	if !ok || (tok != types.Int && tok != types.Float) {
		return ast.NoInfo, c.fail(init, DiagLoopForm, "index must be an int or float scalar")
	}
	value := c.Tree.Initializer(in.Children[1])
	if value == ast.InvalidHandle || !c.Tree.Node(value).Sem.Const.IsConstant() {
		return ast.NoInfo, c.fail(init, DiagLoopForm, "index must be initialized with a constant")
	}
	return d.Sem.Info, nil
}

// isIndexRef reports whether h is an identifier referring to index.
func (c *Context) isIndexRef(h ast.Handle, index ast.InfoID) bool {
	n := c.Tree.Node(h)
	return n != nil && n.Kind == ast.KindIdentifier && n.Sem.Info == index
}

func (c *Context) isConstant(h ast.Handle) bool {
	n := c.Tree.Node(h)
	return n != nil && n.Sem.Const.IsConstant()
}

func (c *Context) loopCondition(cond ast.Handle, index ast.InfoID) bool {
	n := c.Tree.Node(cond)
	if n.Kind != ast.KindBinary {
		return false
	}
	switch n.Op {
	case ast.OpLess, ast.OpGreater, ast.OpLessEqual, ast.OpGreaterEqual, ast.OpEqual, ast.OpNotEqual:
	default:
		return false
	}
	return c.isIndexRef(n.Children[0], index) && c.isConstant(n.Children[1])
}

func (c *Context) loopIncrement(incr ast.Handle, index ast.InfoID) bool {
	n := c.Tree.Node(incr)
	switch n.Kind {
	case ast.KindUnary, ast.KindPostfix:
		switch n.Op {
		case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
			return c.isIndexRef(n.Children[0], index)
		}
	case ast.KindBinary:
		switch n.Op {
		case ast.OpAddAssign, ast.OpSubAssign:
			return c.isIndexRef(n.Children[0], index) && c.isConstant(n.Children[1])
		}
	}
	return false
}
