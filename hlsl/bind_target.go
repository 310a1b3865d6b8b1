// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// RegisterType represents the HLSL register class.
type RegisterType uint8

const (
	// RegisterTypeC is for legacy constant registers holding uniforms.
	RegisterTypeC RegisterType = iota

	// RegisterTypeT is for textures.
	RegisterTypeT

	// RegisterTypeS is for sampler states.
	RegisterTypeS
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	default:
		return "c"
	}
}

// BindTarget is the register binding of one emitted resource.
type BindTarget struct {
	Type RegisterType

	// Register is the first register index.
	Register int

	// Count is the number of consecutive registers used.
	Count int
}

// String returns the register clause operand, e.g. "c4".
func (bt BindTarget) String() string {
	return fmt.Sprintf("%s%d", bt.Type, bt.Register)
}

// Clause returns the declaration suffix, e.g. " : register(s2)".
func (bt BindTarget) Clause() string {
	return " : register(" + bt.String() + ")"
}
