// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "strings"

// UnnamedIdentifier is the default name for empty identifiers.
const UnnamedIdentifier = "_unnamed"

// Names of the entry point interface.
const (
	InputParam  = "_in"
	OutputParam = "_out"
	EntryPoint  = "main"
)

// Prefix of synthesized helper functions. GLSL shaders cannot declare
// names starting with it.
const helperPrefix = "webgl_"

// fxcKeywords are the keywords and reserved words of the FXC compiler.
// GLSL field names are the only source names that reach the output, so
// these are the words they must not collide with.
var fxcKeywords = strings.Fields(`
	AppendStructuredBuffer asm asm_fragment BlendState bool break Buffer
	ByteAddressBuffer case cbuffer centroid class column_major compile
	compile_fragment CompileShader const continue ComputeShader
	ConsumeStructuredBuffer default DepthStencilState DepthStencilView
	discard do double DomainShader dword else export extern false float for
	fxgroup GeometryShader groupshared half Hullshader if in inline inout
	InputPatch int interface line lineadj linear LineStream matrix
	min10float min12int min16float min16int min16uint namespace
	nointerpolation noperspective NULL out OutputPatch packoffset pass
	pixelfragment PixelShader point PointStream precise RasterizerState
	RenderTargetView return register row_major RWBuffer RWByteAddressBuffer
	RWStructuredBuffer RWTexture1D RWTexture1DArray RWTexture2D
	RWTexture2DArray RWTexture3D sample sampler SamplerState
	SamplerComparisonState shared snorm stateblock stateblock_state static
	string struct switch StructuredBuffer tbuffer technique technique10
	technique11 texture Texture1D Texture1DArray Texture2D Texture2DArray
	Texture2DMS Texture2DMSArray Texture3D TextureCube TextureCubeArray true
	typedef triangle triangleadj TriangleStream uint uniform unorm unsigned
	vector vertexfragment VertexShader void volatile while

	auto catch char const_cast delete dynamic_cast enum explicit friend goto
	long mutable new operator private protected public reinterpret_cast
	short signed sizeof static_cast template this throw try typename union
	using virtual
`)

var reservedKeywords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(fxcKeywords))
	for _, k := range fxcKeywords {
		m[k] = struct{}{}
	}
	return m
}()

// caseInsensitiveKeywords are effect-framework words FXC matches in any case.
var caseInsensitiveKeywords = map[string]struct{}{
	"asm":         {},
	"decl":        {},
	"pass":        {},
	"technique":   {},
	"texture1d":   {},
	"texture2d":   {},
	"texture3d":   {},
	"texturecube": {},
}

// isTypeShorthand reports names like float3, int2x2 or bool4.
func isTypeShorthand(name string) bool {
	for _, base := range []string{"bool", "int", "uint", "dword", "half", "float", "double", "min16float", "min10float", "min16int", "min12int", "min16uint"} {
		rest, ok := strings.CutPrefix(name, base)
		if !ok {
			continue
		}
		switch {
		case len(rest) == 1 && rest[0] >= '1' && rest[0] <= '4':
			return true
		case len(rest) == 3 && rest[1] == 'x' &&
			rest[0] >= '1' && rest[0] <= '4' && rest[2] >= '1' && rest[2] <= '4':
			return true
		}
	}
	return false
}

// IsReserved checks if a name is an HLSL keyword or type name.
func IsReserved(name string) bool {
	if _, ok := reservedKeywords[name]; ok {
		return true
	}
	return isTypeShorthand(name)
}

// IsCaseInsensitiveReserved checks if a name conflicts with a
// case-insensitive keyword.
func IsCaseInsensitiveReserved(name string) bool {
	_, ok := caseInsensitiveKeywords[strings.ToLower(name)]
	return ok
}

// Escape returns a safe identifier name. Reserved names get an
// underscore prefix.
func Escape(name string) string {
	if name == "" {
		return UnnamedIdentifier
	}
	if IsReserved(name) || IsCaseInsensitiveReserved(name) {
		return "_" + name
	}
	return name
}
