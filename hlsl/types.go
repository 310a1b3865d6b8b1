// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// typeName returns the HLSL name of t; arrays are named by their element.
func (w *Writer) typeName(t types.Type) string {
	switch t := t.(type) {
	case *types.Basic:
		return t.Token.HLSL()
	case *types.Array:
		return w.typeName(t.Elem)
	case *types.Struct:
		return w.structName(t)
	}
	return "void"
}

// objectTypeName names the half of a split sampler selected by slot.
func (w *Writer) objectTypeName(t types.Type, slot int) string {
	if slot == sema.SlotSampler && types.ContainsSampler(t) {
		return samplerStateType
	}
	return w.typeName(t)
}

func (w *Writer) structName(st *types.Struct) string {
	if tn := w.ctx.Registry.TypeNameOf(st); tn != nil {
		return tn.GenName
	}
	return Escape(st.Name)
}

// arraySuffix returns "[n]" for arrays and "" otherwise.
func arraySuffix(t types.Type) string {
	if n := types.ArraySize(t); n != types.NotArray {
		return fmt.Sprintf("[%d]", n)
	}
	return ""
}

// declaration formats "type name[n]".
func (w *Writer) declaration(t types.Type, name string) string {
	return w.typeName(t) + " " + name + arraySuffix(t)
}

// structTypeNames returns the type names whose structs are emitted: the
// builtin depth range struct when the shader uses it, then every hoisted
// struct in source order.
func (w *Writer) structTypeNames() []*sema.TypeNameInfo {
	var out []*sema.TypeNameInfo
	if w.usesDepthRange() {
		out = append(out, w.ctx.DepthRange)
	}
	for _, h := range w.ctx.Structs {
		if tn := w.ctx.Registry.TypeName(w.tree.Node(h).Sem.Info); tn != nil {
			out = append(out, tn)
		}
	}
	return out
}

// usesDepthRange reports whether gl_DepthRange or its type appear.
func (w *Writer) usesDepthRange() bool {
	if w.ctx.DepthRange == nil {
		return false
	}
	st := types.Type(w.ctx.DepthRange.Struct)
	used := false
	w.tree.Walk(w.tree.Root, func(h ast.Handle) bool {
		if used {
			return false
		}
		if t := w.tree.Node(h).Sem.Type; t != nil && types.Elem(t) == st {
			used = true
		}
		return !used
	})
	return used
}

// writeStructs writes struct definitions followed by the constructor and
// equality functions the shader uses.
func (w *Writer) writeStructs() error {
	names := w.structTypeNames()
	for _, tn := range names {
		w.writeStructDefinition(tn)
	}
	for _, tn := range names {
		if tn.Struct.ConstructorUsed() {
			w.writeStructConstructor(tn)
		}
		if tn.Struct.EqualityUsed() {
			w.writeStructEquality(tn)
		}
	}
	return nil
}

func (w *Writer) writeStructDefinition(tn *sema.TypeNameInfo) {
	w.writeLine("struct %s {", tn.GenName)
	w.pushIndent()
	for _, f := range tn.Struct.Fields {
		w.writeLine("%s;", w.declaration(f.Type, fieldName(f.Name)))
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")
}

// writeStructConstructor writes the function replacing S(a, b, ...).
func (w *Writer) writeStructConstructor(tn *sema.TypeNameInfo) {
	name := ctorName(tn)
	params := make([]string, len(tn.Struct.Fields))
	for i, f := range tn.Struct.Fields {
		params[i] = w.declaration(f.Type, fmt.Sprintf("x%d", i))
	}
	w.writeLine("%s %s(%s)", tn.GenName, name, strings.Join(params, ", "))
	w.writeLine("{")
	w.pushIndent()
	w.writeLine("%s s;", tn.GenName)
	for i, f := range tn.Struct.Fields {
		w.writeLine("s.%s = x%d;", fieldName(f.Name), i)
	}
	w.writeLine("return s;")
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	w.helperFunctions = append(w.helperFunctions, name)
}

// writeStructEquality writes the function replacing a == b on structs.
func (w *Writer) writeStructEquality(tn *sema.TypeNameInfo) {
	name := equalName(tn)
	terms := make([]string, 0, len(tn.Struct.Fields))
	for _, f := range tn.Struct.Fields {
		a, b := "a."+fieldName(f.Name), "b."+fieldName(f.Name)
		switch ft := f.Type.(type) {
		case *types.Struct:
			terms = append(terms, fmt.Sprintf("%s(%s, %s)", equalName(w.ctx.Registry.TypeNameOf(ft)), a, b))
		case *types.Basic:
			if ft.Token.IsScalar() {
				terms = append(terms, fmt.Sprintf("(%s == %s)", a, b))
			} else {
				terms = append(terms, fmt.Sprintf("all(%s == %s)", a, b))
			}
		}
	}
	if len(terms) == 0 {
		terms = append(terms, "true")
	}
	w.writeLine("bool %s(%s a, %s b)", name, tn.GenName, tn.GenName)
	w.writeLine("{")
	w.pushIndent()
	w.writeLine("return %s;", strings.Join(terms, " && "))
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	w.helperFunctions = append(w.helperFunctions, name)
}

func ctorName(tn *sema.TypeNameInfo) string {
	if tn.CtorName != "" {
		return tn.CtorName
	}
	return tn.GenName + "_ctor"
}

func equalName(tn *sema.TypeNameInfo) string {
	if tn.EqualName != "" {
		return tn.EqualName
	}
	return tn.GenName + "_eq"
}

// fieldName is the emitted name of a struct field.
func fieldName(name string) string {
	return Escape(name)
}

// formatFloat formats a float literal so HLSL reads it as a float.
func formatFloat(f float32) string {
	switch {
	case math.IsInf(float64(f), 1):
		return "1.#INF"
	case math.IsInf(float64(f), -1):
		return "-1.#INF"
	case math.IsNaN(float64(f)):
		return "(0.0 / 0.0)"
	}
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
