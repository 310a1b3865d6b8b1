// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"

	"github.com/gogpu/essl/sema"
)

// intrinsicNames maps builtins whose HLSL intrinsic is spelled
// differently. Builtins not listed keep their GLSL name.
var intrinsicNames = map[sema.BuiltinID]string{
	sema.BuiltinInversesqrt: "rsqrt",
	sema.BuiltinFract:       "frac",
	sema.BuiltinMix:         "lerp",
	sema.BuiltinDFdx:        "ddx",
	sema.BuiltinDFdy:        "ddy",
	sema.BuiltinFwidth:      "fwidth",
}

// componentOperators maps builtins that are plain component-wise
// operators in HLSL.
var componentOperators = map[sema.BuiltinID]string{
	sema.BuiltinLessThan:         "<",
	sema.BuiltinLessThanEqual:    "<=",
	sema.BuiltinGreaterThan:      ">",
	sema.BuiltinGreaterThanEqual: ">=",
	sema.BuiltinEqual:            "==",
	sema.BuiltinNotEqual:         "!=",
	sema.BuiltinMatrixCompMult:   "*",
	sema.BuiltinNot:              "!",
}

const swizzleLetters = "xyzw"

// swizzleString spells component indices as xyzw letters.
func swizzleString(idx []int) string {
	var b strings.Builder
	for _, i := range idx {
		b.WriteByte(swizzleLetters[i])
	}
	return b.String()
}

// componentRange returns 0..n-1.
func componentRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
