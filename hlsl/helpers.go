// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

// =============================================================================
// Helper Functions
// =============================================================================

// helper returns the name of the helper function identified by key,
// defining it on first use. define receives the chosen name and returns
// the complete function text.
func (w *Writer) helper(key, base string, define func(name string) string) string {
	if name, ok := w.helperNames[key]; ok {
		return name
	}
	name := w.namer.call(helperPrefix + base)
	w.helperNames[key] = name
	w.helperText.WriteString(define(name))
	w.helperFunctions = append(w.helperFunctions, name)
	return name
}

// function formats a helper with a single return statement.
func function(ret, name string, params []string, body string) string {
	return fmt.Sprintf("%s %s(%s)\n{\n    return %s;\n}\n\n", ret, name, strings.Join(params, ", "), body)
}

func typeKey(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// =============================================================================
// Texture Lookups
// =============================================================================

// textureHelper returns the helper implementing a GLSL texture lookup on
// a split sampler:
//
//	float4 webgl_texture2DProj(SamplerState s, Texture2D t, float3 p)
//	{
//	    return t.Sample(s, p.xy / p.z);
//	}
//
// Vertex shaders have no implicit derivatives and sample level 0.
func (w *Writer) textureHelper(id sema.BuiltinID, args []types.Type) string {
	glslName := sema.BuiltinName(id)
	key := glslName + "(" + typeKey(args) + ")"
	return w.helper(key, glslName, func(name string) string {
		sampler, _ := types.AsBasic(args[0])
		coord, _ := types.AsBasic(args[1])

		params := []string{
			samplerStateType + " s",
			sampler.HLSL() + " t",
			coord.HLSL() + " p",
		}
		p := "p"
		switch id {
		case sema.BuiltinTexture2DProj, sema.BuiltinTexture2DProjLod:
			if coord == types.Vec3 {
				p = "p.xy / p.z"
			} else {
				p = "p.xy / p.w"
			}
		}

		var call string
		switch {
		case id == sema.BuiltinTexture2DLod || id == sema.BuiltinTexture2DProjLod || id == sema.BuiltinTextureCubeLod:
			params = append(params, "float lod")
			call = fmt.Sprintf("t.SampleLevel(s, %s, lod)", p)
		case len(args) == 3:
			params = append(params, "float bias")
			call = fmt.Sprintf("t.SampleBias(s, %s, bias)", p)
		case w.ctx.Stage() == sema.StageVertex:
			call = fmt.Sprintf("t.SampleLevel(s, %s, 0.0)", p)
		default:
			call = fmt.Sprintf("t.Sample(s, %s)", p)
		}
		return function("float4", name, params, call)
	})
}

// =============================================================================
// Arithmetic
// =============================================================================

// modHelper returns the helper implementing GLSL mod, which rounds toward
// negative infinity unlike HLSL fmod.
func (w *Writer) modHelper(args []types.Type) string {
	return w.helper("mod("+typeKey(args)+")", "mod", func(name string) string {
		x, y := w.typeName(args[0]), w.typeName(args[1])
		return function(x, name, []string{x + " x", y + " y"}, "x - y * floor(x / y)")
	})
}

// =============================================================================
// Constructors
// =============================================================================

// diagonalHelper returns the helper for matN(s): s on the diagonal and
// zero elsewhere.
func (w *Writer) diagonalHelper(target, arg types.Token) string {
	key := fmt.Sprintf("diag(%s,%s)", target, arg)
	return w.helper(key, target.HLSL(), func(name string) string {
		n := target.Rows()
		elems := make([]string, 0, n*n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					elems = append(elems, "s")
				} else {
					elems = append(elems, "0.0")
				}
			}
		}
		body := fmt.Sprintf("%s(%s)", target.HLSL(), strings.Join(elems, ", "))
		return function(target.HLSL(), name, []string{arg.HLSL() + " s"}, body)
	})
}

// matrixConversionHelper returns the helper for matN(matM) and vecN(matM).
// Matrices are resized by copying the overlapping columns and filling the
// rest from the identity; vectors take the leading components in column
// order.
func (w *Writer) matrixConversionHelper(target, arg types.Token) string {
	key := fmt.Sprintf("convert(%s,%s)", target, arg)
	return w.helper(key, target.HLSL(), func(name string) string {
		src := arg.Rows()
		var elems []string
		if target.IsMatrix() {
			n := target.Rows()
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					switch {
					case i < src && j < src:
						elems = append(elems, fmt.Sprintf("m[%d][%d]", i, j))
					case i == j:
						elems = append(elems, "1.0")
					default:
						elems = append(elems, "0.0")
					}
				}
			}
		} else {
			for i := 0; i < src && len(elems) < target.Size(); i++ {
				for j := 0; j < src && len(elems) < target.Size(); j++ {
					elems = append(elems, fmt.Sprintf("m[%d][%d]", i, j))
				}
			}
		}
		body := fmt.Sprintf("%s(%s)", target.HLSL(), strings.Join(elems, ", "))
		return function(target.HLSL(), name, []string{arg.HLSL() + " m"}, body)
	})
}
