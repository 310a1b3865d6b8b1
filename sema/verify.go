// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
)

// Verify checks the subtree rooted at h and attaches annotations.
//
// A node is verified once: already verified nodes return success, which
// lets rewrite passes move verified subtrees and verify only the nodes
// they synthesized. Children are verified left to right before the node's
// own check. Translation units and blocks keep verifying independent
// children after an error to report more diagnostics; everything else
// aborts on the first error.
func (c *Context) Verify(h ast.Handle) error {
	n := c.Tree.Node(h)
	if n == nil {
		return errors.Errorf("verify: invalid handle %d", h)
	}
	if n.Verified {
		return nil
	}

	n.Depth = 0
	if p := c.Tree.Node(n.Parent); p != nil {
		n.Depth = p.Depth + 1
	}
	if n.Depth > c.Options.MaxTreeDepth {
		return c.fail(h, DiagTooComplex, "")
	}

	c.preVerify(h, n)

	var first error
	children := append([]ast.Handle(nil), n.Children...)
	for _, child := range children {
		if err := c.Verify(child); err != nil {
			if n.Kind != ast.KindTranslationUnit && n.Kind != ast.KindBlock {
				return err
			}
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return first
	}

	if err := c.check(h, n); err != nil {
		return err
	}
	n.Verified = true
	return nil
}

// preVerify runs before the children of n are verified.
func (c *Context) preVerify(h ast.Handle, n *ast.Node) {
	if c.Tree.IsScopeOwner(h) {
		c.openScope(h)
	}
	switch {
	case n.Kind == ast.KindBinary && n.Op.IsShortCircuit(),
		n.Kind == ast.KindTernary:
		c.ShortCircuits = append(c.ShortCircuits, h)
	}
}

// check is the per-kind self-check.
func (c *Context) check(h ast.Handle, n *ast.Node) error {
	switch n.Kind {
	case ast.KindTranslationUnit, ast.KindBlock, ast.KindEmpty,
		ast.KindExpressionStatement, ast.KindDeclaration:
		return nil
	case ast.KindFunctionDefinition:
		return nil
	case ast.KindFunctionPrototype:
		return c.checkPrototype(h, n)
	case ast.KindParameter:
		return c.checkParameter(h, n)
	case ast.KindDeclarator:
		return c.checkDeclarator(h, n)
	case ast.KindTypeSpecifier:
		return c.checkTypeSpecifier(h, n)
	case ast.KindStructSpecifier:
		return c.checkStructSpecifier(h, n)
	case ast.KindPrecisionStatement:
		return c.checkPrecision(h, n)
	case ast.KindInvariantStatement:
		return c.checkInvariant(h, n)

	case ast.KindIf:
		return c.checkIf(h, n)
	case ast.KindFor:
		return c.checkFor(h, n)
	case ast.KindWhile, ast.KindDoWhile:
		return c.fail(h, DiagUnsupportedLoop, "")
	case ast.KindReturn:
		return c.checkReturn(h, n)
	case ast.KindBreak, ast.KindContinue:
		if c.Tree.Ancestor(h, ast.KindFor, ast.KindWhile, ast.KindDoWhile) == ast.InvalidHandle {
			return c.fail(h, DiagBreakOutsideLoop, "")
		}
		return nil
	case ast.KindDiscard:
		if c.Options.Stage != StageFragment {
			return c.fail(h, DiagDiscardOutsideFragment, "")
		}
		return nil

	case ast.KindIntLiteral, ast.KindFloatLiteral, ast.KindBoolLiteral:
		c.checkLiteral(n)
		return nil
	case ast.KindIdentifier:
		return c.checkIdentifier(h, n)
	case ast.KindBinary:
		return c.checkBinary(h, n)
	case ast.KindUnary, ast.KindPostfix:
		return c.checkUnary(h, n)
	case ast.KindTernary:
		return c.checkTernary(h, n)
	case ast.KindFieldSelection:
		return c.checkFieldSelection(h, n)
	case ast.KindIndex:
		return c.checkIndex(h, n)
	case ast.KindCall:
		return c.checkCall(h, n)
	}
	return errors.Errorf("verify: unexpected node kind %s", n.Kind)
}
