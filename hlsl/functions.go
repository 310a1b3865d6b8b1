// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// HLSL semantic constants.
const (
	semanticSVPosition    = "SV_Position"
	semanticSVTarget      = "SV_Target0"
	semanticSVDepth       = "SV_Depth"
	semanticSVFrontFacing = "SV_IsFrontFace"
	semanticVFace         = "VFACE"
	semanticPointSize     = "PSIZE"
	semanticTexCoord      = "TEXCOORD"
	hlslVoidType          = "void"
)

// =============================================================================
// Entry Point Input/Output Structs
// =============================================================================

// ioField is one member of the entry point input or output struct.
type ioField struct {
	decl     string
	semantic string
}

// stagePrefix returns "VS" or "PS".
func (w *Writer) stagePrefix() string {
	if w.ctx.Stage() == sema.StageVertex {
		return "VS"
	}
	return "PS"
}

func (w *Writer) inputStruct() string  { return w.stagePrefix() + "_INPUT" }
func (w *Writer) outputStruct() string { return w.stagePrefix() + "_OUTPUT" }

// addInput adds v to the input struct and routes its accesses through _in.
func (w *Writer) addInput(v *sema.VariableInfo, semantic string) {
	name := v.Name(sema.SlotSampler)
	w.inputs = append(w.inputs, ioField{decl: w.declaration(v.Type, name), semantic: semantic})
	w.io[v] = InputParam + "." + name
}

func (w *Writer) addOutput(v *sema.VariableInfo, semantic string) {
	name := v.Name(sema.SlotSampler)
	w.outputs = append(w.outputs, ioField{decl: w.declaration(v.Type, name), semantic: semantic})
	w.io[v] = OutputParam + "." + name
}

func texCoord(index int) string {
	return fmt.Sprintf("%s%d", semanticTexCoord, index)
}

// collectIO lays out the entry point structs.
//
// Vertex input holds the attributes; vertex output holds gl_Position, the
// varyings and gl_PointSize. Fragment input mirrors the vertex output with
// gl_FragCoord in the SV_Position slot, followed by gl_FrontFacing and
// gl_PointCoord; fragment output holds gl_FragColor or gl_FragData and
// gl_FragDepthEXT. Attributes and varyings use TEXCOORD semantics indexed
// by their location.
func (w *Writer) collectIO() {
	builtins := make(map[string]*sema.VariableInfo)
	for _, v := range w.ctx.BuiltinVariables() {
		builtins[w.ctx.SourceName(v)] = v
	}
	used := func(name string) *sema.VariableInfo {
		if v := builtins[name]; v != nil && v.Referenced {
			return v
		}
		return nil
	}

	var attributes, varyings []*sema.VariableInfo
	for _, id := range w.ctx.Registry.Variables {
		v := w.ctx.Registry.Variable(id)
		if !v.IsGlobal() {
			continue
		}
		switch v.Storage {
		case ast.StorageAttribute:
			attributes = append(attributes, v)
		case ast.StorageVarying:
			varyings = append(varyings, v)
		}
	}
	sort.SliceStable(varyings, func(i, j int) bool { return varyings[i].Location < varyings[j].Location })

	if w.ctx.Stage() == sema.StageVertex {
		for _, a := range attributes {
			w.addInput(a, texCoord(a.Location))
		}
		w.addOutput(builtins["gl_Position"], semanticSVPosition)
		for _, v := range varyings {
			w.addOutput(v, texCoord(v.Location))
		}
		if v := used("gl_PointSize"); v != nil {
			w.addOutput(v, semanticPointSize)
			w.usedFeatures |= FeaturePointSize
		}
		return
	}

	w.addInput(builtins["gl_FragCoord"], semanticSVPosition)
	next := 0
	for _, v := range varyings {
		w.addInput(v, texCoord(v.Location))
		if end := v.Location + types.RegisterCount(v.Type); end > next {
			next = end
		}
	}
	if v := used("gl_FrontFacing"); v != nil {
		if w.model.Downlevel() {
			name := v.Name(sema.SlotSampler)
			w.inputs = append(w.inputs, ioField{decl: "float " + name, semantic: semanticVFace})
			w.io[v] = fmt.Sprintf("(%s.%s >= 0.0)", InputParam, name)
		} else {
			w.addInput(v, semanticSVFrontFacing)
		}
	}
	if v := used("gl_PointCoord"); v != nil {
		w.addInput(v, texCoord(next))
	}

	if v := used("gl_FragData"); v != nil {
		w.addOutput(v, semanticSVTarget)
		w.usedFeatures |= FeatureMultipleRenderTargets
	} else {
		w.addOutput(builtins["gl_FragColor"], semanticSVTarget)
	}
	if v := used("gl_FragDepthEXT"); v != nil {
		w.addOutput(v, semanticSVDepth)
		w.usedFeatures |= FeatureFragDepth
	}
}

// writeIOStructs writes the entry point input and output structs.
func (w *Writer) writeIOStructs() {
	if !w.options.SuppressInputStruct {
		w.writeIOStruct(w.inputStruct(), w.inputs)
	}
	w.writeIOStruct(w.outputStruct(), w.outputs)
}

func (w *Writer) writeIOStruct(name string, fields []ioField) {
	w.writeLine("struct %s {", name)
	w.pushIndent()
	for _, f := range fields {
		w.writeLine("%s : %s;", f.decl, f.semantic)
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")
}

// interfaceParams are the trailing parameters of every translated
// function.
func (w *Writer) interfaceParams() string {
	return fmt.Sprintf("in %s %s, inout %s %s", w.inputStruct(), InputParam, w.outputStruct(), OutputParam)
}

// writeEntryPoint writes the wrapper the pipeline calls:
//
//	VS_OUTPUT main(VS_INPUT _in)
//	{
//	    VS_OUTPUT _out = (VS_OUTPUT)0;
//	    _u1_12(_in, _out);
//	    _out.gl_Position.z = (_out.gl_Position.z + _out.gl_Position.w) * 0.5;
//	    return _out;
//	}
//
// The depth remap moves GL clip space z from [-w, w] to [0, w].
func (w *Writer) writeEntryPoint(main *sema.FunctionInfo) {
	out := w.outputStruct()
	w.writeLine("%s %s(%s %s)", out, EntryPoint, w.inputStruct(), InputParam)
	w.writeLine("{")
	w.pushIndent()
	w.writeLine("%s %s = (%s)%s;", out, OutputParam, out, zeroInitialized)
	w.writeLine("%s(%s, %s);", main.GenName, InputParam, OutputParam)
	if w.ctx.Stage() == sema.StageVertex {
		pos := OutputParam + ".gl_Position"
		w.writeLine("%s.z = (%s.z + %s.w) * 0.5;", pos, pos, pos)
	}
	w.writeLine("return %s;", OutputParam)
	w.popIndent()
	w.writeLine("}")
}

// =============================================================================
// Functions
// =============================================================================

// writeFunction writes a function definition.
func (w *Writer) writeFunction(h ast.Handle) error {
	proto := w.tree.Prototype(h)
	if err := w.writeSignature(proto); err != nil {
		return err
	}
	w.write("\n")
	if err := w.writeBlock(w.tree.Body(h)); err != nil {
		return err
	}
	w.writeLine("")
	return nil
}

// writePrototype writes a forward declaration.
func (w *Writer) writePrototype(h ast.Handle) error {
	if err := w.writeSignature(h); err != nil {
		return err
	}
	w.write(";\n\n")
	return nil
}

// writeSignature writes "ret name(params, in X_INPUT _in, inout X_OUTPUT _out)".
func (w *Writer) writeSignature(proto ast.Handle) error {
	n := w.tree.Node(proto)
	fn := w.ctx.Registry.Function(n.Sem.Info)
	if fn == nil {
		return w.unexpected(proto)
	}

	params := make([]string, 0, len(w.tree.Params(proto))+1)
	for _, p := range w.tree.Params(proto) {
		params = append(params, w.parameter(p))
	}
	params = append(params, w.interfaceParams())

	ret := hlslVoidType
	if !types.IsVoid(n.Sem.Type) {
		ret = w.typeName(n.Sem.Type)
	}
	w.writeIndent()
	w.write(fmt.Sprintf("%s %s(%s)", ret, fn.GenName, strings.Join(params, ", ")))
	return nil
}

// parameter formats one parameter. The two halves of a split sampler
// parameter are written as a SamplerState and a texture.
func (w *Writer) parameter(p ast.Handle) string {
	n := w.tree.Node(p)
	slot := sema.SlotSampler
	if n.Flags.Has(ast.FlagTextureObject) {
		slot = sema.SlotTexture
	}

	var b strings.Builder
	switch n.Param {
	case ast.ParamOut:
		b.WriteString("out ")
	case ast.ParamInOut:
		b.WriteString("inout ")
	}
	b.WriteString(w.objectTypeName(n.Sem.Type, slot))
	if v := w.ctx.Registry.Variable(n.Sem.Info); v != nil {
		b.WriteString(" ")
		b.WriteString(v.Name(slot))
	}
	b.WriteString(arraySuffix(n.Sem.Type))
	return b.String()
}
