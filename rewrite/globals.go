// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// InitGlobalsName is the function that receives deferred global
// initializers.
const InitGlobalsName = "webgl_init_globals"

// DeferGlobalInitializers moves the initializers of non-constant globals
// into assignments in webgl_init_globals, in declaration order. The
// function is declared before main, defined at the end of the shader and
// called by the first statement of main. Shaders without such
// initializers are left unchanged.
func DeferGlobalInitializers(c *sema.Context) error {
	t := c.Tree
	var assignments []ast.Handle

	for _, decl := range t.Children(t.Root) {
		dn := t.Node(decl)
		if dn.Kind != ast.KindDeclaration || dn.Storage != ast.StorageNone {
			continue
		}
		for _, d := range t.Declarators(decl) {
			init := t.Initializer(d)
			if init == ast.InvalidHandle {
				continue
			}
			n := t.Node(d)
			t.Detach(init)
			n.Flags &^= ast.FlagInitializer

			target := t.NewIdentifier(n.Pos, c.SourceName(c.Registry.Variable(n.Sem.Info)))
			assign := t.NewBinary(n.Pos, ast.OpAssign, target, init)
			assignments = append(assignments, t.NewExpressionStatement(n.Pos, assign))
		}
	}
	if len(assignments) == 0 {
		return nil
	}

	main := c.Registry.Function(c.Main)
	if main == nil || main.Definition == ast.InvalidHandle {
		return errors.New("main is not defined")
	}
	pos := t.Node(main.Definition).Pos

	proto := initGlobalsPrototype(t, pos)
	t.Insert(t.Root, t.IndexOf(t.Root, main.Definition), proto)
	if err := c.Verify(proto); err != nil {
		return err
	}
	c.InitGlobals = t.Node(proto).Sem.Info

	body := t.NewBlock(pos, assignments...)
	def := t.NewFunctionDefinition(pos, initGlobalsPrototype(t, pos), body)
	t.Append(t.Root, def)
	if err := c.Verify(def); err != nil {
		return err
	}

	call := t.NewExpressionStatement(pos, t.NewCall(pos, InitGlobalsName))
	t.Insert(t.Body(main.Definition), 0, call)
	if err := c.Verify(call); err != nil {
		return err
	}

	c.Log.V(2).Info("deferred global initializers", "count", len(assignments))
	return nil
}

func initGlobalsPrototype(t *ast.Tree, pos ast.Position) ast.Handle {
	proto := t.NewPrototype(pos, InitGlobalsName, t.NewTypeSpecifier(pos, types.Void, types.PrecisionUndefined))
	t.Node(proto).Flags |= ast.FlagInternal
	return proto
}
