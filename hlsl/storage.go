// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// HLSL resource type names.
const (
	samplerStateType = "SamplerState"
	zeroInitialized  = "0"
)

// =============================================================================
// Global declarations
// =============================================================================

// writeGlobalDeclaration writes one global declaration:
//
//	uniform float4 _u1_4 : register(c0);          // uniforms
//	SamplerState _u1_5_s : register(s0);          // sampler half
//	Texture2D _u1_5_t : register(t0);             // texture half
//	static const float _u1_6 = 2.0;               // constants
//	static float3 _u1_7;                          // other globals
//
// Attributes and varyings live in the entry point structs instead.
func (w *Writer) writeGlobalDeclaration(h ast.Handle) error {
	n := w.tree.Node(h)
	switch n.Storage {
	case ast.StorageAttribute, ast.StorageVarying:
		return nil
	case ast.StorageUniform:
		return w.writeUniforms(h, n)
	}

	for _, d := range w.tree.Declarators(h) {
		v := w.ctx.Registry.Variable(w.tree.Node(d).Sem.Info)
		if v == nil {
			return w.unexpected(d)
		}
		w.writeIndent()
		if n.Storage == ast.StorageConst {
			w.write("static const ")
		} else {
			w.write("static ")
		}
		w.write(w.declaration(v.Type, v.Name(sema.SlotSampler)))
		if init := w.tree.Initializer(d); init != ast.InvalidHandle {
			w.write(" = ")
			if err := w.writeExpression(init); err != nil {
				return err
			}
		}
		w.write(";\n")
	}
	return nil
}

func (w *Writer) writeUniforms(h ast.Handle, n *ast.Node) error {
	for _, d := range w.tree.Declarators(h) {
		v := w.ctx.Registry.Variable(w.tree.Node(d).Sem.Info)
		if v == nil {
			return w.unexpected(d)
		}
		if !types.ContainsSampler(v.Type) {
			w.writeUniform(v)
			continue
		}

		slot, regType := sema.SlotSampler, RegisterTypeS
		switch {
		case n.Flags.Has(ast.FlagTextureObject):
			slot, regType = sema.SlotTexture, RegisterTypeT
		case !n.Flags.Has(ast.FlagSamplerObject):
			return NewErrorAt(ErrInternalError, n.Pos, "sampler uniform was not split")
		}
		name := v.Name(slot)
		bind := w.bind(name, regType, v.Register, types.ElementCount(v.Type))
		w.writeLine("%s %s%s%s;", w.objectTypeName(v.Type, slot), name, arraySuffix(v.Type), bind.Clause())
	}
	return nil
}

// writeUniform writes a non-sampler uniform bound to constant registers.
func (w *Writer) writeUniform(v *sema.VariableInfo) {
	name := v.Name(sema.SlotSampler)
	if v.Register < 0 {
		w.writeLine("uniform %s;", w.declaration(v.Type, name))
		return
	}
	bind := w.bind(name, RegisterTypeC, v.Register, types.RegisterCount(v.Type))
	w.writeLine("uniform %s%s;", w.declaration(v.Type, name), bind.Clause())
}

// writeBuiltinUniforms declares the gl_ uniforms the shader references.
func (w *Writer) writeBuiltinUniforms() {
	wrote := false
	for _, v := range w.ctx.BuiltinVariables() {
		if v.Storage == ast.StorageUniform && v.Referenced {
			w.writeUniform(v)
			wrote = true
		}
	}
	if wrote {
		w.writeLine("")
	}
}

func (w *Writer) bind(name string, rt RegisterType, register, count int) BindTarget {
	bt := BindTarget{Type: rt, Register: register, Count: count}
	w.bindings[name] = bt
	return bt
}

// =============================================================================
// Local declarations
// =============================================================================

// writeLocalDeclarators writes the declarators of a local declaration,
// one declaration per declarator, without indentation or terminator on
// the last one. Several declarators are separated by "; ".
func (w *Writer) writeLocalDeclarators(h ast.Handle) error {
	n := w.tree.Node(h)
	for i, d := range w.tree.Declarators(h) {
		v := w.ctx.Registry.Variable(w.tree.Node(d).Sem.Info)
		if v == nil {
			return w.unexpected(d)
		}
		if i > 0 {
			w.write("; ")
		}
		if n.Storage == ast.StorageConst {
			w.write("const ")
		}
		w.write(w.declaration(v.Type, v.Name(sema.SlotSampler)))
		if init := w.tree.Initializer(d); init != ast.InvalidHandle {
			w.write(" = ")
			if err := w.writeExpression(init); err != nil {
				return err
			}
		} else if _, isStruct := v.Type.(*types.Struct); isStruct {
			w.write(fmt.Sprintf(" = (%s)%s", w.typeName(v.Type), zeroInitialized))
		}
	}
	return nil
}
