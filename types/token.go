// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Token identifies a basic GLSL ES 1.00 type.
type Token uint8

const (
	Void Token = iota
	Bool
	BVec2
	BVec3
	BVec4
	Int
	IVec2
	IVec3
	IVec4
	Float
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
	Sampler2D
	SamplerCube

	numTokens
)

type tokenInfo struct {
	glsl       string
	hlsl       string
	rows       int
	components int
	component  Token
}

var tokenTable = [numTokens]tokenInfo{
	Void:        {"void", "void", 0, 0, Void},
	Bool:        {"bool", "bool", 1, 1, Bool},
	BVec2:       {"bvec2", "bool2", 1, 2, Bool},
	BVec3:       {"bvec3", "bool3", 1, 3, Bool},
	BVec4:       {"bvec4", "bool4", 1, 4, Bool},
	Int:         {"int", "int", 1, 1, Int},
	IVec2:       {"ivec2", "int2", 1, 2, Int},
	IVec3:       {"ivec3", "int3", 1, 3, Int},
	IVec4:       {"ivec4", "int4", 1, 4, Int},
	Float:       {"float", "float", 1, 1, Float},
	Vec2:        {"vec2", "float2", 1, 2, Float},
	Vec3:        {"vec3", "float3", 1, 3, Float},
	Vec4:        {"vec4", "float4", 1, 4, Float},
	Mat2:        {"mat2", "float2x2", 2, 2, Float},
	Mat3:        {"mat3", "float3x3", 3, 3, Float},
	Mat4:        {"mat4", "float4x4", 4, 4, Float},
	Sampler2D:   {"sampler2D", "Texture2D", 1, 1, Sampler2D},
	SamplerCube: {"samplerCube", "TextureCube", 1, 1, SamplerCube},
}

// String returns the GLSL spelling of the token.
func (t Token) String() string {
	if t >= numTokens {
		return fmt.Sprintf("Token(%d)", uint8(t))
	}
	return tokenTable[t].glsl
}

// HLSL returns the HLSL spelling. Samplers spell as their texture object.
func (t Token) HLSL() string {
	if t >= numTokens {
		return ""
	}
	return tokenTable[t].hlsl
}

// Rows returns the number of vectors a value of this type is made of:
// N for matN, 1 for scalars and vectors, 0 for void.
func (t Token) Rows() int { return tokenTable[t].rows }

// Components returns the number of components per row.
func (t Token) Components() int { return tokenTable[t].components }

// Size returns the total number of scalar components.
func (t Token) Size() int { return t.Rows() * t.Components() }

// Component returns the scalar token of each component.
func (t Token) Component() Token { return tokenTable[t].component }

// IsScalar reports whether t is bool, int or float.
func (t Token) IsScalar() bool { return t == Bool || t == Int || t == Float }

// IsVector reports whether t is a 2-4 component vector.
func (t Token) IsVector() bool {
	switch t {
	case BVec2, BVec3, BVec4, IVec2, IVec3, IVec4, Vec2, Vec3, Vec4:
		return true
	}
	return false
}

// IsMatrix reports whether t is a square float matrix.
func (t Token) IsMatrix() bool { return t == Mat2 || t == Mat3 || t == Mat4 }

// IsSampler reports whether t is an opaque sampler type.
func (t Token) IsSampler() bool { return t == Sampler2D || t == SamplerCube }

// IsNumeric reports whether t is int- or float-based.
func (t Token) IsNumeric() bool {
	c := t.Component()
	return c == Int || c == Float
}

// IsFloat reports whether t is float-based.
func (t Token) IsFloat() bool { return t != Void && t.Component() == Float }

// IsInt reports whether t is int-based.
func (t Token) IsInt() bool { return t.Component() == Int }

// IsBool reports whether t is bool-based.
func (t Token) IsBool() bool { return t.Component() == Bool }

// Vector returns the vector token with the given component type and size.
// A size of 1 returns the scalar token.
func Vector(component Token, size int) Token {
	if size < 1 || size > 4 {
		return Void
	}
	switch component {
	case Bool:
		return Bool + Token(size-1)
	case Int:
		return Int + Token(size-1)
	case Float:
		return Float + Token(size-1)
	}
	return Void
}

// Matrix returns the square matrix token of dimension n.
func Matrix(n int) Token {
	if n < 2 || n > 4 {
		return Void
	}
	return Mat2 + Token(n-2)
}

// Zero returns the HLSL literal of the zero value of t.
func (t Token) Zero() string {
	var scalar string
	switch t.Component() {
	case Bool:
		scalar = "false"
	case Int:
		scalar = "0"
	case Float:
		scalar = "0.0"
	default:
		return ""
	}
	if t.IsScalar() {
		return scalar
	}
	parts := make([]string, t.Size())
	for i := range parts {
		parts[i] = scalar
	}
	return t.HLSL() + "(" + strings.Join(parts, ", ") + ")"
}

// Precision is a GLSL ES precision qualifier.
type Precision uint8

const (
	PrecisionUndefined Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	default:
		return ""
	}
}
