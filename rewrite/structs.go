// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
)

// HoistStructs detaches every struct specifier, wherever it is declared,
// into Context.Structs in source order. The type specifier that held it is
// replaced by a verified reference to the struct's type name, so
// declarations keep their types and the emitter can define structs and
// their helper functions at global scope.
func HoistStructs(c *sema.Context) error {
	t := c.Tree

	var specs []ast.Handle
	t.Walk(t.Root, func(h ast.Handle) bool {
		if t.Kind(h) == ast.KindTypeSpecifier && t.StructSpec(h) != ast.InvalidHandle {
			specs = append(specs, h)
		}
		return true
	})

	for _, spec := range specs {
		sn := t.Node(spec)
		st := t.StructSpec(spec)
		t.Detach(st)
		c.Structs = append(c.Structs, st)

		ref := t.NewTypeRef(sn.Pos, sn.Sem.Type, sn.Sem.Precision, sn.Sem.Info)
		t.Node(ref).Depth = sn.Depth
		t.Replace(spec, ref)

		tn := c.Registry.TypeName(sn.Sem.Info)
		c.Log.V(2).Info("hoisted struct", "name", c.SourceName(tn), "generated", tn.GenName)
	}
	return nil
}
