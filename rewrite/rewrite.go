// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rewrite transforms a verified GLSL ES tree into a shape the HLSL
// emitter can print directly. The passes run once, in a fixed order:
//
//  1. DeferGlobalInitializers moves initializers of non-constant globals
//     into a function called first by main.
//  2. EliminateShortCircuits lowers &&, || and ?: into if statements.
//  3. HoistStructs moves every struct specifier into Context.Structs.
//  4. SplitSamplers pairs every sampler with a texture object.
//
// Every node a pass synthesizes is verified as soon as it is attached, so
// the tree stays fully annotated between passes.
package rewrite

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
)

// Pass is one tree transformation.
type Pass struct {
	Name string
	Run  func(c *sema.Context) error
}

// Passes returns the rewrite passes in the order they must run.
func Passes() []Pass {
	return []Pass{
		{Name: "defer-global-initializers", Run: DeferGlobalInitializers},
		{Name: "eliminate-short-circuits", Run: EliminateShortCircuits},
		{Name: "hoist-structs", Run: HoistStructs},
		{Name: "split-samplers", Run: SplitSamplers},
	}
}

// Run applies all passes to a verified context. It refuses to run on a
// context that recorded diagnostics.
func Run(c *sema.Context) error {
	if len(c.Diagnostics) > 0 {
		return c.Diagnostics
	}
	for _, p := range Passes() {
		before := c.Tree.Len()
		if err := p.Run(c); err != nil {
			if !errors.Is(err, sema.ErrKnown) {
				err = errors.Wrapf(err, "rewrite %s", p.Name)
			}
			return c.Finish(err)
		}
		c.Log.V(1).Info("rewrite pass done", "pass", p.Name, "newNodes", c.Tree.Len()-before)
	}
	return nil
}

// statementList reports whether statements may be inserted as children
// of h.
func statementList(t *ast.Tree, h ast.Handle) bool {
	k := t.Kind(h)
	return k == ast.KindBlock || k == ast.KindTranslationUnit
}

// nestedBody reports whether stmt is the unbraced body of an if or for.
func nestedBody(t *ast.Tree, stmt ast.Handle) bool {
	parent := t.Parent(stmt)
	switch t.Kind(parent) {
	case ast.KindIf:
		return t.IndexOf(parent, stmt) > 0
	case ast.KindFor, ast.KindWhile, ast.KindDoWhile:
		return t.Body(parent) == stmt
	}
	return false
}

// wrapInBlock puts stmt into a new block occupying its slot and verifies
// the block.
func wrapInBlock(c *sema.Context, stmt ast.Handle) (ast.Handle, error) {
	t := c.Tree
	block := t.NewBlock(t.Node(stmt).Pos)
	t.Replace(stmt, block)
	t.Append(block, stmt)
	return block, c.Verify(block)
}
